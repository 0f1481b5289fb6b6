package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/corona/internal/engine"
	"github.com/roach88/corona/internal/snapshot"
	"github.com/roach88/corona/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID          string `json:"run_id"`
	Seq            int64  `json:"seq"`
	Status         string `json:"status"`
	ReplayStatus   string `json:"replay_status,omitempty"`
	StoredDigest   string `json:"stored_digest"`
	ReplayedDigest string `json:"replayed_digest,omitempty"`
	Deterministic  bool   `json:"deterministic"`
	Skipped        bool   `json:"skipped,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run archived runs and verify determinism",
		Long: `Re-run archived runs from their stored configuration and compare the
snapshot digest of each replay with the archived digest.

Cancelled runs are skipped: their end point depended on an interrupt, not
on the configuration.

Exit codes:
  0 - All replayed runs are deterministic
  1 - Determinism verification failed (digest mismatch)
  2 - Command error (database not found, etc.)

Examples:
  corona replay --db ./runs.db
  corona replay --db ./runs.db --run 0190a6f2-...
  corona replay --db ./runs.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := commandContext(cmd)

	st, err := openArchive(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer closeArchive(st)

	// Get run IDs to process
	var ids []string
	if opts.RunID != "" {
		ids = []string{opts.RunID}
	} else {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, r := range runs {
			ids = append(ids, r.ID)
		}
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(ids)),
		TotalRuns:        len(ids),
		AllDeterministic: true,
	}

	for _, id := range ids {
		run, err := readArchivedRun(ctx, formatter, st, id)
		if err != nil {
			return err
		}

		runResult, err := replayAndVerifyRun(ctx, run)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}
		formatter.VerboseLog("Replayed %s: %s", id, runResult.ReplayStatus)

		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	return outputReplay(formatter, result)
}

// replayAndVerifyRun re-runs one archived run and compares digests.
func replayAndVerifyRun(ctx context.Context, run store.Run) (ReplayRunResult, error) {
	result := ReplayRunResult{
		RunID:        run.ID,
		Seq:          run.Seq,
		Status:       run.Snapshot.Status,
		StoredDigest: run.Digest,
	}

	if run.Snapshot.Status == snapshot.StatusCancelled {
		result.Skipped = true
		result.Deterministic = true
		return result, nil
	}

	sim, err := engine.New(run.Config)
	if err != nil {
		return ReplayRunResult{}, err
	}

	// A replay reproduces degenerate and budget outcomes too; its error is
	// part of the result, not a command failure.
	snap, runErr := sim.Run(ctx)
	if runErr != nil && runErrorCode(runErr) == ErrCodeCancelled {
		return ReplayRunResult{}, runErr
	}

	digest, err := snapshot.Digest(snap)
	if err != nil {
		return ReplayRunResult{}, err
	}

	result.ReplayStatus = snap.Status
	result.ReplayedDigest = digest
	result.Deterministic = digest == run.Digest && snap.Status == run.Snapshot.Status
	return result, nil
}

// outputReplay prints the replay result and maps non-determinism to exit 1.
func outputReplay(f *OutputFormatter, result ReplayResult) error {
	if f.JSON() {
		var err error
		if result.AllDeterministic {
			err = f.Success(result)
		} else {
			err = f.Failure(ErrCodeDeterminism, "determinism verification failed", result)
		}
		if err != nil {
			return err
		}
	} else {
		outputReplayText(f, result)
	}

	if !result.AllDeterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(f *OutputFormatter, result ReplayResult) {
	if result.TotalRuns == 0 {
		f.Printf("No runs found in database.\n")
		return
	}

	f.Printf("Replay Summary: %d run(s)\n\n", result.TotalRuns)

	for _, r := range result.Runs {
		switch {
		case r.Skipped:
			f.Printf("- Run: %s (seq %d) skipped, status %s\n", r.RunID, r.Seq, r.Status)
			continue
		case r.Deterministic:
			f.Printf("✓ Run: %s (seq %d)\n", r.RunID, r.Seq)
		default:
			f.Printf("✗ Run: %s (seq %d)\n", r.RunID, r.Seq)
		}
		if f.Verbose || !r.Deterministic {
			f.Printf("  Status:   %s -> %s\n", r.Status, r.ReplayStatus)
			f.Printf("  Stored:   %s\n", r.StoredDigest)
			f.Printf("  Replayed: %s\n", r.ReplayedDigest)
		}
	}

	f.Printf("\n")
	if result.AllDeterministic {
		f.Printf("✓ All runs deterministic\n")
	} else {
		f.Printf("✗ Determinism verification failed\n")
	}
}
