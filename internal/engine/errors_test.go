package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeError_Error(t *testing.T) {
	err := NewDegeneracyError(7, 0.25, "field", 3)

	msg := err.Error()
	assert.Contains(t, msg, "NUMERICAL_DEGENERACY")
	assert.Contains(t, msg, "field")
	assert.Contains(t, msg, "step=7")
	assert.Equal(t, "3", err.Details["index"])
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		degeneracy bool
		budget     bool
	}{
		{
			name:       "degeneracy",
			err:        NewDegeneracyError(1, 0.01, "particle", 0),
			degeneracy: true,
		},
		{
			name:       "underflow",
			err:        NewStepUnderflowError(1, 0.01, 1e-9, 1e-6),
			degeneracy: true,
		},
		{
			name:       "wrapped underflow",
			err:        fmt.Errorf("step: %w", NewStepUnderflowError(1, 0.01, 1e-9, 1e-6)),
			degeneracy: true,
		},
		{
			name:   "budget",
			err:    (&StepsExceededError{Steps: 2, Limit: 1}).RuntimeError(1, 0.01),
			budget: true,
		},
		{
			name: "plain",
			err:  fmt.Errorf("something else"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.degeneracy, IsDegeneracyError(tt.err))
			assert.Equal(t, tt.budget, IsBudgetError(tt.err))
		})
	}
}
