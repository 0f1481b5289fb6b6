package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/roach88/corona/internal/config"
)

// SmallConfig returns a valid configuration that completes in a few dozen
// steps: 10 cells, 4 particles, total_time 0.1.
//
// The uniform initial field stays below the reconnection threshold, so a run
// records no events.
func SmallConfig() config.Config {
	cfg := config.Default()
	cfg.Cells = 10
	cfg.Particles = 4
	cfg.TotalTime = 0.1
	cfg.Sampling.Interval = 0.05
	cfg.Waves.Alfven = 3
	cfg.Waves.Acoustic = 0
	cfg.Waves.MagnetoAcoustic = 0
	return cfg
}

// WriteConfig writes cfg as YAML into dir and returns the file path.
func WriteConfig(t *testing.T, dir string, cfg config.Config) string {
	t.Helper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	return WriteFile(t, dir, "corona.yaml", string(data))
}

// WriteFile writes content to dir/name and returns the file path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
