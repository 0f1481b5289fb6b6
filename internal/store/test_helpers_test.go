package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/corona/internal/config"
	"github.com/roach88/corona/internal/snapshot"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// pragmaValue reads one PRAGMA of the store's connection as text.
func pragmaValue(t *testing.T, s *Store, name string) string {
	t.Helper()
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		t.Fatalf("query %s: %v", name, err)
	}
	return value
}

// createTestRun creates a run with a small config and two samples.
func createTestRun(id string, seed uint64) Run {
	cfg := config.Default()
	cfg.Cells = 5
	cfg.Particles = 1
	cfg.Seed = seed

	return Run{
		ID:     id,
		Config: cfg,
		Snapshot: snapshot.Snapshot{
			Status:    snapshot.StatusCompleted,
			Steps:     4,
			Elapsed:   0.02,
			Dt:        0.005,
			Events:    2,
			Field:     []float64{1, 1, 1.25, 1, 1},
			Particles: []snapshot.ParticleState{{Position: 2.5, Velocity: -0.5}},
			Samples: []snapshot.Sample{
				{Time: 0.01, Average: 1.05},
				{Time: 0.02, Average: 1.05},
			},
			Summary: snapshot.Summary{
				MaxVelocity:  -0.5,
				MeanVelocity: -0.5,
				MaxField:     1.25,
				MeanField:    1.05,
			},
		},
		Digest: "digest-" + id,
	}
}
