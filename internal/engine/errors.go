package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a condition that aborts a simulation run.
//
// Runtime errors include:
//   - Numerical degeneracy: non-finite field, particle or wave values
//   - Step underflow: the adaptive dt fell below the configured minimum
//   - Step budget exceeded: the run used more iterations than allowed
//
// The simulation state is rolled back to the last good step before a
// RuntimeError is returned.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Step is the number of completed steps when the error occurred.
	Step int64

	// Elapsed is the simulated time when the error occurred.
	Elapsed float64

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeNumericalDegeneracy indicates non-finite simulation state.
	ErrCodeNumericalDegeneracy RuntimeErrorCode = "NUMERICAL_DEGENERACY"

	// ErrCodeStepUnderflow indicates the adaptive dt dropped below step.min_dt.
	ErrCodeStepUnderflow RuntimeErrorCode = "STEP_UNDERFLOW"

	// ErrCodeStepBudgetExceeded indicates the run exceeded max_steps.
	ErrCodeStepBudgetExceeded RuntimeErrorCode = "STEP_BUDGET_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s (step=%d, elapsed=%g)", e.Code, e.Message, e.Step, e.Elapsed)
}

// IsDegeneracyError returns true if the error is a numerical degeneracy,
// including step underflow. Uses errors.As to handle wrapped errors.
func IsDegeneracyError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeNumericalDegeneracy || re.Code == ErrCodeStepUnderflow
	}
	return false
}

// IsBudgetError returns true if the error is a step budget error.
// Matches both RuntimeError with ErrCodeStepBudgetExceeded and StepsExceededError.
func IsBudgetError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeStepBudgetExceeded
	}
	var se *StepsExceededError
	return errors.As(err, &se)
}

// NewDegeneracyError creates a RuntimeError for a non-finite value in the
// named component at the given index.
func NewDegeneracyError(step int64, elapsed float64, component string, index int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeNumericalDegeneracy,
		Message: fmt.Sprintf("non-finite %s value at index %d", component, index),
		Step:    step,
		Elapsed: elapsed,
		Details: map[string]string{
			"component": component,
			"index":     fmt.Sprintf("%d", index),
		},
	}
}

// NewStepUnderflowError creates a RuntimeError for a dt below the minimum.
func NewStepUnderflowError(step int64, elapsed, dt, minDt float64) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeStepUnderflow,
		Message: fmt.Sprintf("adaptive dt %g below minimum %g", dt, minDt),
		Step:    step,
		Elapsed: elapsed,
		Details: map[string]string{
			"dt":     fmt.Sprintf("%g", dt),
			"min_dt": fmt.Sprintf("%g", minDt),
		},
	}
}
