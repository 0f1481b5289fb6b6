package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/corona/internal/config"
	"github.com/roach88/corona/internal/snapshot"
)

// Run is one archived simulation run.
type Run struct {
	ID       string
	Seq      int64 // Assigned by WriteRun
	Config   config.Config
	Snapshot snapshot.Snapshot
	Digest   string
	Error    string // Empty for completed runs
}

// WriteRun archives a run and its samples in a single transaction and
// returns the run's seq.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing an existing ID
// stores nothing and returns the seq assigned by the first write.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	cfgJSON, err := marshalConfig(run.Config)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	snapJSON, err := marshalSnapshot(run.Snapshot)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&existing)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("write run: lookup: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	snap := run.Snapshot
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, seed, config, status, steps, elapsed, events, digest, snapshot, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		formatSeed(run.Config.Seed),
		cfgJSON,
		snap.Status,
		snap.Steps,
		snap.Elapsed,
		snap.Events,
		run.Digest,
		snapJSON,
		run.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	for i, smp := range snap.Samples {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO samples (run_id, idx, time, average)
			VALUES (?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, run.ID, i, smp.Time, smp.Average)
		if err != nil {
			return 0, fmt.Errorf("write run: sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}
