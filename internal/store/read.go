package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/corona/internal/snapshot"
)

// RunSummary is the listing form of an archived run.
type RunSummary struct {
	ID      string
	Seq     int64
	Seed    uint64
	Status  string
	Steps   int64
	Elapsed float64
	Events  int64
	Digest  string
}

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, config, digest, snapshot, error
		FROM runs
		WHERE id = ?
	`, id)
	return scanRunRow(row)
}

// LatestRun retrieves the run with the highest seq.
// Returns sql.ErrNoRows if the store is empty.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, config, digest, snapshot, error
		FROM runs
		ORDER BY seq DESC
		LIMIT 1
	`)
	return scanRunRow(row)
}

func scanRunRow(row *sql.Row) (Run, error) {
	var (
		run                         Run
		cfgJSON, snapJSON, errorMsg string
	)
	if err := row.Scan(&run.ID, &run.Seq, &cfgJSON, &run.Digest, &snapJSON, &errorMsg); err != nil {
		return Run{}, err
	}

	cfg, err := unmarshalConfig(cfgJSON)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", run.ID, err)
	}
	snap, err := unmarshalSnapshot(snapJSON)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", run.ID, err)
	}

	run.Config = cfg
	run.Snapshot = snap
	run.Error = errorMsg
	return run, nil
}

// ListRuns returns the archived runs, restricted to the given statuses when
// any are passed.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if no run matches.
func (s *Store) ListRuns(ctx context.Context, statuses ...string) ([]RunSummary, error) {
	query := `
		SELECT id, seq, seed, status, steps, elapsed, events, digest
		FROM runs`
	args := make([]any, len(statuses))
	if len(statuses) > 0 {
		query += `
		WHERE status IN (?` + strings.Repeat(", ?", len(statuses)-1) + `)`
		for i, st := range statuses {
			args[i] = st
		}
	}
	query += `
		ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var (
			r    RunSummary
			seed string
		)
		if err := rows.Scan(&r.ID, &r.Seq, &seed, &r.Status, &r.Steps, &r.Elapsed, &r.Events, &r.Digest); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.Seed, err = parseSeed(seed); err != nil {
			return nil, fmt.Errorf("scan run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadSamples returns the time series of a run in emission order.
//
// Returns an empty slice (not nil) if the run has no samples or does not exist.
func (s *Store) ReadSamples(ctx context.Context, runID string) ([]snapshot.Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT time, average
		FROM samples
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	samples := []snapshot.Sample{}
	for rows.Next() {
		var smp snapshot.Sample
		if err := rows.Scan(&smp.Time, &smp.Average); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, smp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}
