package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/corona/internal/render"
)

// PlotOptions holds flags for the plot command.
type PlotOptions struct {
	*RootOptions
	Database string
	RunID    string
	Out      string
}

// PlotResult lists the charts written for a run.
type PlotResult struct {
	RunID string   `json:"run_id"`
	Files []string `json:"files"`
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render charts for an archived run",
		Long: `Render PNG charts for an archived run: the final field profile, the
sampled average field strength over time and the particle velocity
distribution. Charts without data are skipped.

Example:
  corona plot --db ./runs.db --run 0190a6f2-... --out ./plots`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID (default: latest run)")
	cmd.Flags().StringVar(&opts.Out, "out", ".", "output directory")

	return cmd
}

func runPlot(opts *PlotOptions, cmd *cobra.Command) error {
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

	// The samples table is the authoritative time series.
	snap := run.Snapshot
	if snap.Samples, err = st.ReadSamples(ctx, run.ID); err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read samples", err)
	}

	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}
	files, err := render.All(snap, opts.Out)
	if err != nil {
		_ = formatter.Error(ErrCodeRender, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to render charts", err)
	}

	result := PlotResult{RunID: run.ID, Files: files}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	formatter.Printf("✓ %d chart(s) for run %s\n", len(files), run.ID)
	for _, f := range files {
		formatter.Printf("  %s\n", f)
	}
	return nil
}
