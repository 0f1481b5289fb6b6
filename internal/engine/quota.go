package engine

import (
	"errors"
	"fmt"
)

// StepBudget counts the iterations of one run and enforces a maximum.
//
// The adaptive dt can shrink without bound as the field grows, so the
// iteration count of a run is not bounded by total_time alone. The budget
// guarantees termination.
type StepBudget struct {
	maxSteps int64
	current  int64
}

// NewStepBudget creates a budget with the given limit.
func NewStepBudget(maxSteps int64) *StepBudget {
	return &StepBudget{maxSteps: maxSteps}
}

// Check increments the step counter and validates against the limit.
//
// Returns StepsExceededError if the budget is exceeded.
// This should be called before each step.
func (b *StepBudget) Check() error {
	b.current++
	if b.current > b.maxSteps {
		return &StepsExceededError{
			Steps: b.current,
			Limit: b.maxSteps,
		}
	}
	return nil
}

// Current returns the number of checks made so far.
func (b *StepBudget) Current() int64 {
	return b.current
}

// MaxSteps returns the limit.
func (b *StepBudget) MaxSteps() int64 {
	return b.maxSteps
}

// StepsExceededError is returned when a run exceeds its step budget.
type StepsExceededError struct {
	Steps int64 // Number of steps attempted
	Limit int64 // Maximum allowed steps
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("run exceeded max steps budget: %d steps > %d limit", e.Steps, e.Limit)
}

// RuntimeError converts the budget error into a RuntimeError with run context.
func (e *StepsExceededError) RuntimeError(step int64, elapsed float64) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeStepBudgetExceeded,
		Message: e.Error(),
		Step:    step,
		Elapsed: elapsed,
		Details: map[string]string{
			"max_steps": fmt.Sprintf("%d", e.Limit),
		},
	}
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
// Uses errors.As to handle wrapped errors.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
