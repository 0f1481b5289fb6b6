package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/corona/internal/config"
)

// ValidationProblem is one violated configuration bound.
type ValidationProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                `json:"valid"`
	SampleEvery int                 `json:"sample_every,omitempty"`
	Problems    []ValidationProblem `json:"problems,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file without running it",
		Long: `Validate a YAML or CUE configuration file.

Every violated bound is reported, not only the first. CUE files are also
checked against the embedded #Config schema.

Exit codes:
  0 - Configuration is valid
  1 - Configuration violates one or more bounds
  2 - Command error (file not found, parse error, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := config.Load(path)
	if err == nil {
		formatter.VerboseLog("Loaded %s", path)
		err = cfg.Validate()
	}

	var ce *config.ConfigurationError
	switch {
	case err == nil:
		// Valid
	case errors.As(err, &ce):
		return outputValidationProblems(formatter, ce)
	default:
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	result := ValidationResult{Valid: true, SampleEvery: cfg.SampleEvery()}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	formatter.Printf("✓ Configuration valid (%d cells, %d particles, sample every %d steps)\n",
		cfg.Cells, cfg.Particles, result.SampleEvery)
	return nil
}

// outputValidationProblems reports every problem and returns exit code 1.
func outputValidationProblems(f *OutputFormatter, ce *config.ConfigurationError) error {
	result := ValidationResult{
		Problems: make([]ValidationProblem, len(ce.Problems)),
	}
	for i, p := range ce.Problems {
		result.Problems[i] = ValidationProblem{Field: p.Field, Message: p.Message}
	}

	if f.JSON() {
		if err := f.Failure(ErrCodeConfig, ce.Error(), result); err != nil {
			return err
		}
	} else {
		f.Printf("✗ Configuration invalid (%d problems)\n", len(result.Problems))
		for _, p := range result.Problems {
			f.Printf("  %s: %s\n", p.Field, p.Message)
		}
	}
	return WrapExitError(ExitFailure, "invalid configuration", ce)
}
