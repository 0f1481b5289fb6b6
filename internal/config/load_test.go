package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "run.yaml", `
cells: 10
particles: 2
total_time: 0.5
reconnection:
  coupling: local
waves:
  enabled: true
  alfven: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.Cells)
	assert.Equal(t, 2, cfg.Particles)
	assert.Equal(t, 0.5, cfg.TotalTime)
	assert.Equal(t, CouplingLocal, cfg.Reconnection.Coupling)
	assert.True(t, cfg.Waves.Enabled)
	assert.Equal(t, 4, cfg.Waves.Alfven)

	// untouched values keep their defaults
	assert.Equal(t, 1.5, cfg.Reconnection.Threshold)
	assert.Equal(t, DefaultAcousticWaves, cfg.Waves.Acoustic)
}

func TestLoad_YAMLRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "run.yaml", "cels: 10\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_EmptyYAMLIsDefault(t *testing.T) {
	path := writeFile(t, "empty.yml", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_CUE(t *testing.T) {
	path := writeFile(t, "run.cue", `
cells:      12
particles:  3
total_time: 1
sampling: policy: "legacy"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 12, cfg.Cells)
	assert.Equal(t, 3, cfg.Particles)
	assert.Equal(t, 1.0, cfg.TotalTime)
	assert.Equal(t, SamplingLegacy, cfg.Sampling.Policy)
	assert.Equal(t, 0.01, cfg.Dt)
	assert.Equal(t, CouplingGlobal, cfg.Reconnection.Coupling)
}

func TestLoad_CUESchemaViolation(t *testing.T) {
	path := writeFile(t, "bad.cue", "cells: 3\n")

	_, err := Load(path)
	require.Error(t, err)

	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "cells")
}

func TestLoad_CUERejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "bad.cue", "speed_of_light: 3\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "run.toml", "cells = 10\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
