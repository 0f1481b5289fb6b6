package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/corona/internal/testutil"
)

func TestValidateValidConfig(t *testing.T) {
	path := testutil.WriteConfig(t, t.TempDir(), testutil.SmallConfig())

	output, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ Configuration valid")
	assert.Contains(t, output, "10 cells, 4 particles, sample every 5 steps")
}

func TestValidateValidConfigJSON(t *testing.T) {
	path := testutil.WriteConfig(t, t.TempDir(), testutil.SmallConfig())

	output, err := execute(t, "validate", "--format", "json", path)
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, output, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 5, result.SampleEvery)
}

func TestValidateCUEConfig(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "corona.cue", `
cells:      20
particles:  8
total_time: 1
`)

	output, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, output, "20 cells, 8 particles")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "bad.yaml", `
cells: 2
particles: 0
dt: -1
`)

	output, err := execute(t, "validate", "--format", "json", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, output, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfig, resp.Error.Code)
	assert.False(t, result.Valid)

	fields := make([]string, len(result.Problems))
	for i, p := range result.Problems {
		fields[i] = p.Field
	}
	assert.Contains(t, fields, "cells")
	assert.Contains(t, fields, "particles")
	assert.Contains(t, fields, "dt")
}

func TestValidateInvalidText(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "bad.yaml", "cells: 2\n")

	output, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, output, "✗ Configuration invalid (1 problems)")
	assert.Contains(t, output, "cells:")
}

func TestValidateUnknownField(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "bad.yaml", "cellz: 10\n")

	output, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "Error [E_CONFIG]")
}

func TestValidateMissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateRequiresArgument(t *testing.T) {
	_, err := execute(t, "validate")
	require.Error(t, err)
}
