package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/corona/internal/config"
	"github.com/roach88/corona/internal/engine"
	"github.com/roach88/corona/internal/render"
	"github.com/roach88/corona/internal/snapshot"
	"github.com/roach88/corona/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	PlotDir  string

	Seed      uint64
	TotalTime float64
	Cells     int
	Particles int
	Waves     bool
	Coupling  string

	// IDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator engine.RunIDGenerator
}

// RunResult is the outcome of one simulation run.
type RunResult struct {
	RunID   string           `json:"run_id,omitempty"`
	Seq     int64            `json:"seq,omitempty"`
	Seed    uint64           `json:"seed"`
	Status  string           `json:"status"`
	Steps   int64            `json:"steps"`
	Elapsed float64          `json:"elapsed"`
	Events  int64            `json:"events"`
	Samples int              `json:"samples"`
	Digest  string           `json:"digest"`
	Summary snapshot.Summary `json:"summary"`
	Plots   []string         `json:"plots,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

// newRunCommand builds the run command around caller-supplied options, so
// tests can inject an IDGenerator.
func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [config-file]",
		Short: "Run a simulation",
		Long: `Run a simulation to total_time and report its final state.

The configuration is read from a YAML or CUE file when given, otherwise the
reference defaults are used. Flags override file values. The run is
archived when --db is set and charts are written when --plot-dir is set;
both happen even when the run stops early.

Exit codes:
  0 - Run completed
  1 - Run stopped early (degenerate state, step budget, interrupt)
  2 - Command error (invalid configuration, database error, etc.)

Examples:
  corona run
  corona run ./corona.yaml --db ./runs.db
  corona run --seed 7 --total-time 1 --waves --plot-dir ./plots`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := ""
			if len(args) == 1 {
				configPath = args[0]
			}
			return runSimulation(opts, configPath, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "archive the run in this SQLite database")
	cmd.Flags().StringVar(&opts.PlotDir, "plot-dir", "", "write PNG charts into this directory")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().Float64Var(&opts.TotalTime, "total-time", config.DefaultTotalTime, "simulated time to reach")
	cmd.Flags().IntVar(&opts.Cells, "cells", config.DefaultCells, "number of field cells")
	cmd.Flags().IntVar(&opts.Particles, "particles", config.DefaultParticles, "number of particles")
	cmd.Flags().BoolVar(&opts.Waves, "waves", false, "enable the wave-heating variant")
	cmd.Flags().StringVar(&opts.Coupling, "coupling", string(config.CouplingGlobal), "reconnection coupling (global|local)")

	return cmd
}

func runSimulation(opts *RunOptions, configPath string, cmd *cobra.Command) error {
	setupLogging(opts.Verbose, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadConfig(configPath)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	applyRunOverrides(cmd, opts, &cfg)

	if err := cfg.Validate(); err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	sim, err := engine.New(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create simulation", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop() // Prevent signal handler leak

	slog.Info("simulation starting",
		"seed", cfg.Seed,
		"cells", cfg.Cells,
		"particles", cfg.Particles,
		"waves", cfg.Waves.Enabled,
	)
	snap, runErr := sim.Run(ctx)

	digest, err := snapshot.Digest(snap)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to digest snapshot", err)
	}

	result := RunResult{
		Seed:    cfg.Seed,
		Status:  snap.Status,
		Steps:   snap.Steps,
		Elapsed: snap.Elapsed,
		Events:  snap.Events,
		Samples: len(snap.Samples),
		Digest:  digest,
		Summary: snap.Summary,
	}
	if runErr != nil {
		result.Error = runErr.Error()
	}

	if opts.Database != "" {
		gen := opts.IDGenerator
		if gen == nil {
			gen = engine.UUIDv7Generator{}
		}
		result.RunID = gen.Generate()

		// Archive with a fresh context: an interrupted run is still recorded.
		seq, err := archiveRun(context.Background(), opts.Database, store.Run{
			ID:       result.RunID,
			Config:   cfg,
			Snapshot: snap,
			Digest:   digest,
			Error:    result.Error,
		})
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to archive run", err)
		}
		result.Seq = seq
		formatter.VerboseLog("Archived run %s (seq %d) in %s", result.RunID, seq, opts.Database)
	}

	if opts.PlotDir != "" {
		if err := os.MkdirAll(opts.PlotDir, 0o755); err != nil {
			return WrapExitError(ExitCommandError, "failed to create plot directory", err)
		}
		plots, err := render.All(snap, opts.PlotDir)
		if err != nil {
			_ = formatter.Error(ErrCodeRender, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to render charts", err)
		}
		result.Plots = plots
	}

	if runErr != nil {
		code := runErrorCode(runErr)
		if formatter.JSON() {
			if err := formatter.Failure(code, runErr.Error(), result); err != nil {
				return err
			}
		} else {
			outputRunText(formatter, result)
		}
		return WrapExitError(ExitFailure, "run "+snap.Status, runErr)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	outputRunText(formatter, result)
	return nil
}

// loadConfig returns Default() for an empty path and the loaded file otherwise.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyRunOverrides copies explicitly set flags over the loaded config.
func applyRunOverrides(cmd *cobra.Command, opts *RunOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = opts.Seed
	}
	if flags.Changed("total-time") {
		cfg.TotalTime = opts.TotalTime
	}
	if flags.Changed("cells") {
		cfg.Cells = opts.Cells
	}
	if flags.Changed("particles") {
		cfg.Particles = opts.Particles
	}
	if flags.Changed("waves") {
		cfg.Waves.Enabled = opts.Waves
	}
	if flags.Changed("coupling") {
		cfg.Reconnection.Coupling = config.Coupling(opts.Coupling)
	}
}

// archiveRun opens (or creates) the database and writes one run.
func archiveRun(ctx context.Context, path string, run store.Run) (int64, error) {
	st, err := store.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	return st.WriteRun(ctx, run)
}

// commandContext returns the command's context, or Background when the
// command is executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// outputRunText prints a human-readable run summary.
func outputRunText(f *OutputFormatter, r RunResult) {
	mark := "✓"
	if r.Error != "" {
		mark = "✗"
	}
	f.Printf("%s Run %s\n", mark, r.Status)
	if r.RunID != "" {
		f.Printf("  Run ID:   %s (seq %d)\n", r.RunID, r.Seq)
	}
	f.Printf("  Seed:     %d\n", r.Seed)
	f.Printf("  Steps:    %d\n", r.Steps)
	f.Printf("  Elapsed:  %.6g\n", r.Elapsed)
	f.Printf("  Events:   %d\n", r.Events)
	f.Printf("  Samples:  %d\n", r.Samples)
	f.Printf("  Field:    max %.6g, mean %.6g\n", r.Summary.MaxField, r.Summary.MeanField)
	f.Printf("  Velocity: max %.6g, mean %.6g\n", r.Summary.MaxVelocity, r.Summary.MeanVelocity)
	if r.Summary.MaxAmplitude != 0 || r.Summary.MeanAmplitude != 0 {
		f.Printf("  Waves:    max %.6g, mean %.6g\n", r.Summary.MaxAmplitude, r.Summary.MeanAmplitude)
	}
	f.Printf("  Digest:   %s\n", r.Digest)
	for _, p := range r.Plots {
		f.Printf("  Chart:    %s\n", p)
	}
	if r.Error != "" {
		f.Printf("  Error:    %s\n", r.Error)
	}
}
