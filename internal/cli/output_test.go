package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/corona/internal/config"
	"github.com/roach88/corona/internal/engine"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeConfig, "invalid configuration", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfig, resp.Error.Code)
	assert.Equal(t, "invalid configuration", resp.Error.Message)
}

func TestOutputFormatter_JSONFailureCarriesData(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Failure(ErrCodeBudget, "budget exceeded", map[string]int{"steps": 5})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBudget, resp.Error.Code)
}

func TestOutputFormatter_TextFailureIsSilent(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	require.NoError(t, formatter.Failure(ErrCodeBudget, "budget exceeded", nil))
	assert.Empty(t, buf.String())
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("Configuration valid")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Configuration valid")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error(ErrCodeNotFound, "database not found", map[string]string{"path": "x.db"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E_NOT_FOUND]")
	assert.Contains(t, buf.String(), "database not found")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"path": "x.db"}
	err := formatter.Error(ErrCodeNotFound, "database not found", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E_NOT_FOUND]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_PrintfGroupsDigits(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	formatter.Printf("Steps: %d\n", 1234567)
	assert.Equal(t, "Steps: 1,234,567\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Archived run %s", "run-0001")

			assert.Empty(t, out.String(), "verbose output must not corrupt stdout")
			if tt.wantLog {
				assert.Contains(t, errOut.String(), "Archived run run-0001")
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain_error", errors.New("boom"), ExitFailure},
		{"command_error", NewExitError(ExitCommandError, "bad path"), ExitCommandError},
		{"wrapped_exit_error", fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "run failed", errors.New("x"))), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to archive run", inner)

	assert.Equal(t, "failed to archive run: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "bad path", NewExitError(ExitCommandError, "bad path").Error())
}

func TestRunErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"cancelled", fmt.Errorf("run cancelled: %w", context.Canceled), ErrCodeCancelled},
		{"budget", (&engine.StepsExceededError{Steps: 6, Limit: 5}).RuntimeError(5, 0.5), ErrCodeBudget},
		{"degenerate", engine.NewDegeneracyError(3, 0.1, "field", 2), ErrCodeDegenerate},
		{"underflow", engine.NewStepUnderflowError(3, 0.1, 1e-9, 1e-6), ErrCodeDegenerate},
		{"config", config.Config{}.Validate(), ErrCodeConfig},
		{"other", errors.New("boom"), ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runErrorCode(tt.err))
		})
	}
}
