package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// FieldError describes one violated configuration bound.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigurationError is returned when a Config cannot start a run.
// It carries every problem found, not only the first.
type ConfigurationError struct {
	Problems []FieldError
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid configuration: " + e.Problems[0].String()
	}
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("invalid configuration (%d problems): %s", len(e.Problems), strings.Join(parts, "; "))
}

// Has reports whether a problem was recorded for the given field.
func (e *ConfigurationError) Has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

func (e *ConfigurationError) add(field, format string, args ...any) {
	e.Problems = append(e.Problems, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// IsConfigurationError returns true if err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// Validate checks every bound and returns a *ConfigurationError listing all
// violations, or nil.
func (c Config) Validate() error {
	e := &ConfigurationError{}

	if c.Particles <= 0 {
		e.add("particles", "must be positive, got %d", c.Particles)
	}
	if c.Cells < MinCells {
		e.add("cells", "must be at least %d for the 4th-order stencil, got %d", MinCells, c.Cells)
	}
	if !finitePositive(c.Dt) {
		e.add("dt", "must be a positive finite number, got %g", c.Dt)
	}
	if math.IsNaN(c.TotalTime) || math.IsInf(c.TotalTime, 0) || c.TotalTime < 0 {
		e.add("total_time", "must be a non-negative finite number, got %g", c.TotalTime)
	}
	if !finite(c.InitialField) {
		e.add("initial_field", "must be finite, got %g", c.InitialField)
	}
	if c.MaxSteps <= 0 {
		e.add("max_steps", "must be positive, got %d", c.MaxSteps)
	}

	r := c.Reconnection
	if !finite(r.Threshold) {
		e.add("reconnection.threshold", "must be finite, got %g", r.Threshold)
	}
	if !finite(r.Relaxation) {
		e.add("reconnection.relaxation", "must be finite, got %g", r.Relaxation)
	}
	if !finite(r.Boost) {
		e.add("reconnection.boost", "must be finite, got %g", r.Boost)
	}
	switch r.Coupling {
	case CouplingGlobal, CouplingLocal:
	default:
		e.add("reconnection.coupling", "must be %q or %q, got %q", CouplingGlobal, CouplingLocal, r.Coupling)
	}

	s := c.Step
	if !finitePositive(s.Base) {
		e.add("step.base", "must be a positive finite number, got %g", s.Base)
	}
	if !finitePositive(s.MinDt) {
		e.add("step.min_dt", "must be a positive finite number, got %g", s.MinDt)
	}
	if !finitePositive(s.MaxDt) {
		e.add("step.max_dt", "must be a positive finite number, got %g", s.MaxDt)
	}
	if finitePositive(s.MinDt) && finitePositive(s.MaxDt) && s.MinDt > s.MaxDt {
		e.add("step.min_dt", "must not exceed step.max_dt (%g > %g)", s.MinDt, s.MaxDt)
	}

	if !finitePositive(c.Sampling.Interval) {
		e.add("sampling.interval", "must be a positive finite number, got %g", c.Sampling.Interval)
	}
	switch c.Sampling.Policy {
	case SamplingPeriodic, SamplingLegacy:
	default:
		e.add("sampling.policy", "must be %q or %q, got %q", SamplingPeriodic, SamplingLegacy, c.Sampling.Policy)
	}

	w := c.Waves
	if w.Alfven < 0 {
		e.add("waves.alfven", "must be non-negative, got %d", w.Alfven)
	}
	if w.Acoustic < 0 {
		e.add("waves.acoustic", "must be non-negative, got %d", w.Acoustic)
	}
	if w.MagnetoAcoustic < 0 {
		e.add("waves.magneto_acoustic", "must be non-negative, got %d", w.MagnetoAcoustic)
	}
	if !finite(w.DecayRate) {
		e.add("waves.decay_rate", "must be finite, got %g", w.DecayRate)
	}
	if !finite(w.Forcing) {
		e.add("waves.forcing", "must be finite, got %g", w.Forcing)
	}

	p := c.Particle
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"particle.mass", p.Mass},
		{"particle.charge", p.Charge},
		{"particle.radius", p.Radius},
		{"particle.spin", p.Spin},
	} {
		if !finite(f.v) {
			e.add(f.name, "must be finite, got %g", f.v)
		}
	}

	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finitePositive(v float64) bool {
	return finite(v) && v > 0
}
