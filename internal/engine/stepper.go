package engine

import (
	"math"

	"github.com/roach88/corona/internal/config"
)

// StepController computes the adaptive step size
//
//	dt = Base / (1 + max field strength)
//
// clamped above by MaxDt. A dt below MinDt is a step underflow.
type StepController struct {
	Base  float64
	MinDt float64
	MaxDt float64
}

// NewStepController builds a controller from configuration.
func NewStepController(s config.Step) StepController {
	return StepController{Base: s.Base, MinDt: s.MinDt, MaxDt: s.MaxDt}
}

// Raw returns the unclamped dt for the given field maximum.
func (c StepController) Raw(maxStrength float64) float64 {
	return c.Base / (1 + maxStrength)
}

// Next returns the dt for the next step.
//
// Returns ErrCodeNumericalDegeneracy for a non-finite or non-positive dt and
// ErrCodeStepUnderflow for a dt below MinDt. Step and Elapsed of the returned
// error are left for the caller to fill.
func (c StepController) Next(maxStrength float64) (float64, error) {
	dt := c.Raw(maxStrength)
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return 0, &RuntimeError{
			Code:    ErrCodeNumericalDegeneracy,
			Message: "adaptive dt is not a positive finite number",
			Details: map[string]string{"max_strength": formatFloat(maxStrength)},
		}
	}
	if dt > c.MaxDt {
		return c.MaxDt, nil
	}
	if dt < c.MinDt {
		return 0, NewStepUnderflowError(0, 0, dt, c.MinDt)
	}
	return dt, nil
}
