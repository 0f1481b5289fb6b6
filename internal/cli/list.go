package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/corona/internal/config"
	"github.com/roach88/corona/internal/snapshot"
	"github.com/roach88/corona/internal/store"
)

// digestPrefix is how much of a digest the run listing shows.
const digestPrefix = 12

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
	Statuses []string
}

// RunEntry is one row of the run listing.
type RunEntry struct {
	ID      string  `json:"id"`
	Seq     int64   `json:"seq"`
	Seed    uint64  `json:"seed"`
	Status  string  `json:"status"`
	Steps   int64   `json:"steps"`
	Elapsed float64 `json:"elapsed"`
	Events  int64   `json:"events"`
	Digest  string  `json:"digest"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs",
		Long: `List archived runs in archive order, optionally only those that ended
with one of the given statuses (completed, degenerate, budget_exceeded,
cancelled).

Examples:
  corona list --db ./runs.db
  corona list --db ./runs.db --status degenerate,budget_exceeded`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringSliceVar(&opts.Statuses, "status", nil, "only list runs with these statuses")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openArchive(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer closeArchive(st)

	runs, err := st.ListRuns(commandContext(cmd), opts.Statuses...)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	entries := make([]RunEntry, len(runs))
	for i, r := range runs {
		entries[i] = RunEntry(r)
	}

	if formatter.JSON() {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		formatter.Printf("No runs found in database.\n")
		return nil
	}
	formatter.Printf("%-5s %-36s %-16s %12s %10s %8s  %s\n", "SEQ", "ID", "STATUS", "STEPS", "ELAPSED", "EVENTS", "DIGEST")
	for _, e := range entries {
		formatter.Printf("%-5d %-36s %-16s %12d %10.4g %8d  %s\n",
			e.Seq, e.ID, e.Status, e.Steps, e.Elapsed, e.Events, shortDigest(e.Digest))
	}
	return nil
}

func shortDigest(d string) string {
	if len(d) <= digestPrefix {
		return d
	}
	return d[:digestPrefix]
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// ShowResult is the detailed form of one archived run.
type ShowResult struct {
	RunEntry
	Config  config.Config     `json:"config"`
	Summary snapshot.Summary  `json:"summary"`
	Samples []snapshot.Sample `json:"samples"`
	Error   string            `json:"error,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one archived run",
		Long: `Show the configuration, final summary and time series of an archived run.
Without --run the most recently archived run is shown.

Examples:
  corona show --db ./runs.db
  corona show --db ./runs.db --run 0190a6f2-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID (default: latest run)")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := commandContext(cmd)

	st, err := openArchive(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer closeArchive(st)

	run, err := readArchivedRun(ctx, formatter, st, opts.RunID)
	if err != nil {
		return err
	}

	samples, err := st.ReadSamples(ctx, run.ID)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read samples", err)
	}

	result := showResult(run, samples)
	if formatter.JSON() {
		return formatter.Success(result)
	}
	outputShowText(formatter, result)
	return nil
}

func showResult(run store.Run, samples []snapshot.Sample) ShowResult {
	snap := run.Snapshot
	return ShowResult{
		RunEntry: RunEntry{
			ID:      run.ID,
			Seq:     run.Seq,
			Seed:    run.Config.Seed,
			Status:  snap.Status,
			Steps:   snap.Steps,
			Elapsed: snap.Elapsed,
			Events:  snap.Events,
			Digest:  run.Digest,
		},
		Config:  run.Config,
		Summary: snap.Summary,
		Samples: samples,
		Error:   run.Error,
	}
}

func outputShowText(f *OutputFormatter, r ShowResult) {
	c := r.Config
	f.Printf("Run %s (seq %d)\n", r.ID, r.Seq)
	f.Printf("  Status:    %s\n", r.Status)
	if r.Error != "" {
		f.Printf("  Error:     %s\n", r.Error)
	}
	f.Printf("  Seed:      %d\n", r.Seed)
	f.Printf("  Grid:      %d cells, %d particles, initial field %.6g\n", c.Cells, c.Particles, c.InitialField)
	f.Printf("  Time:      %.6g of %.6g (%d steps)\n", r.Elapsed, c.TotalTime, r.Steps)
	f.Printf("  Coupling:  %s, threshold %.6g\n", c.Reconnection.Coupling, c.Reconnection.Threshold)
	f.Printf("  Waves:     %t\n", c.Waves.Enabled)
	f.Printf("  Events:    %d\n", r.Events)
	f.Printf("  Field:     max %.6g, mean %.6g\n", r.Summary.MaxField, r.Summary.MeanField)
	f.Printf("  Velocity:  max %.6g, mean %.6g\n", r.Summary.MaxVelocity, r.Summary.MeanVelocity)
	f.Printf("  Digest:    %s\n", r.Digest)
	f.Printf("  Samples:   %d\n", len(r.Samples))
	if f.Verbose {
		for _, s := range r.Samples {
			f.Printf("    t=%-10.6g avg=%.9g\n", s.Time, s.Average)
		}
	}
}
