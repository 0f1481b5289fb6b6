package harness

import (
	"fmt"
	"math"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s steps=%d events=%d elapsed=%g\n",
			event.Seq, event.Action, event.Steps, event.Events, event.Elapsed)
	}

	return buf.String()
}

// evaluateAssertions evaluates all assertions against the final state.
// Returns a slice of error messages for failed assertions.
func (h *Harness) evaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, a := range assertions {
		if err := h.evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion[%d]: %s", i, err.Error()))
		}
	}

	return errs
}

func (h *Harness) evaluate(result *Result, a Assertion) error {
	snap := result.Snapshot
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Trace: result.Trace}
	}

	switch a.Type {
	case AssertEvents:
		return assertCount(fail, "events", *a.Count, snap.Events)
	case AssertSteps:
		return assertCount(fail, "steps", *a.Count, snap.Steps)
	case AssertFieldLength:
		return assertCount(fail, "field length", *a.Count, int64(len(snap.Field)))
	case AssertSampleCount:
		return assertCount(fail, "samples", *a.Count, int64(len(snap.Samples)))

	case AssertStatus:
		if snap.Status != a.Status {
			return fail(fmt.Sprintf("status %q", a.Status), fmt.Sprintf("status %q", snap.Status))
		}
		return nil

	case AssertErrorCode:
		if result.ErrorCode != *a.Code {
			return fail(fmt.Sprintf("error code %q", *a.Code),
				fmt.Sprintf("error code %q (%s)", result.ErrorCode, result.RunError))
		}
		return nil

	case AssertFieldCell:
		if a.Cell < 0 || a.Cell >= len(snap.Field) {
			return fail(fmt.Sprintf("cell %d", a.Cell), fmt.Sprintf("grid has %d cells", len(snap.Field)))
		}
		return assertValue(fail, fmt.Sprintf("field[%d]", a.Cell), *a.Value, snap.Field[a.Cell], a.Tolerance)

	case AssertParticleVelocity, AssertParticlePosition:
		if a.Particle < 0 || a.Particle >= len(snap.Particles) {
			return fail(fmt.Sprintf("particle %d", a.Particle), fmt.Sprintf("%d particles", len(snap.Particles)))
		}
		p := snap.Particles[a.Particle]
		if a.Type == AssertParticleVelocity {
			return assertValue(fail, fmt.Sprintf("particle[%d].velocity", a.Particle), *a.Value, p.Velocity, a.Tolerance)
		}
		return assertValue(fail, fmt.Sprintf("particle[%d].position", a.Particle), *a.Value, p.Position, a.Tolerance)

	case AssertParticlesUnchanged:
		current := h.sim.Particles().Particles
		if len(current) != len(h.initial.Particles) {
			return fail(fmt.Sprintf("%d particles", len(h.initial.Particles)), fmt.Sprintf("%d particles", len(current)))
		}
		for i := range current {
			if current[i] != h.initial.Particles[i] {
				return fail(fmt.Sprintf("particle[%d] = %+v", i, h.initial.Particles[i]),
					fmt.Sprintf("particle[%d] = %+v", i, current[i]))
			}
		}
		return nil

	case AssertWaveAmplitude:
		alfven := h.sim.Waves().Alfven
		if a.Index < 0 || a.Index >= len(alfven) {
			return fail(fmt.Sprintf("wave %d", a.Index), fmt.Sprintf("%d Alfvén waves", len(alfven)))
		}
		return assertValue(fail, fmt.Sprintf("alfven[%d].amplitude", a.Index), *a.Value, alfven[a.Index].Amplitude, a.Tolerance)

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertCount(fail func(string, string) error, what string, want, got int64) error {
	if want != got {
		return fail(fmt.Sprintf("%s = %d", what, want), fmt.Sprintf("%s = %d", what, got))
	}
	return nil
}

func assertValue(fail func(string, string) error, what string, want, got, tolerance float64) error {
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}
	if math.IsNaN(got) || math.Abs(want-got) > tolerance {
		return fail(fmt.Sprintf("%s = %g (±%g)", what, want, tolerance), fmt.Sprintf("%s = %g", what, got))
	}
	return nil
}
