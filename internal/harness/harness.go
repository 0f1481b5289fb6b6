package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/corona/internal/engine"
	"github.com/roach88/corona/internal/plasma"
)

// Harness is the scenario execution engine.
// It owns one simulation per scenario run.
type Harness struct {
	sim    *engine.Simulation
	logger *slog.Logger

	// initial is the particle set after setup, for particles_unchanged.
	initial *plasma.ParticleSet
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh simulation built from its config.
//
// Execution flow:
// 1. Build the simulation (seeded from config.seed)
// 2. Apply setup overrides
// 3. Execute actions, tracing counters after each
// 4. Evaluate assertions against the final state
//
// An action that stops with an engine error does not fail Run: the error is
// recorded on the result for error_code assertions and the remaining actions
// still execute. Run returns an error only if the scenario cannot start.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context for run actions.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	sim, err := engine.New(scenario.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	h := &Harness{
		sim:    sim,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	if err := h.applySetup(scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to apply setup: %w", err)
	}
	h.initial = sim.Particles().Clone()

	result := NewResult()
	h.executeActions(ctx, scenario.Actions, result)
	result.Snapshot = sim.Snapshot()

	for _, errMsg := range h.evaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// applySetup overrides seeded state.
func (h *Harness) applySetup(setup Setup) error {
	grid := h.sim.Grid()
	for i, cv := range setup.Field {
		if cv.Cell < 0 || cv.Cell >= grid.Len() {
			return fmt.Errorf("field[%d]: cell %d out of range", i, cv.Cell)
		}
		grid.Strength[cv.Cell] = cv.Value
	}

	if len(setup.Particles) > 0 {
		attrs := h.sim.Config().Particle
		ps := h.sim.Particles()
		ps.Particles = ps.Particles[:0]
		for _, pv := range setup.Particles {
			ps.Particles = append(ps.Particles, plasma.Particle{
				Position: pv.Position,
				Velocity: pv.Velocity,
				Mass:     attrs.Mass,
				Charge:   attrs.Charge,
				Radius:   attrs.Radius,
				Spin:     attrs.Spin,
			})
		}
	}

	if len(setup.Alfven) > 0 {
		w := h.sim.Waves()
		w.Alfven = w.Alfven[:0]
		for _, av := range setup.Alfven {
			w.Alfven = append(w.Alfven, plasma.AlfvenWave{
				Position:  av.Position,
				Amplitude: av.Amplitude,
				Phase:     av.Phase,
				Frequency: av.Frequency,
				Velocity:  av.Velocity,
			})
		}
	}

	h.logger.Info("setup applied",
		"cells", len(setup.Field),
		"particles", len(setup.Particles),
		"alfven", len(setup.Alfven),
	)
	return nil
}

// executeActions runs every action and records one trace event per action.
func (h *Harness) executeActions(ctx context.Context, actions []Action, result *Result) {
	for i, a := range actions {
		count := a.Count
		if count == 0 {
			count = 1
		}

		var err error
		switch a.Type {
		case ActionRun:
			_, err = h.sim.Run(ctx)
		case ActionStep:
			for n := 0; n < count && err == nil; n++ {
				err = h.sim.Step()
			}
		case ActionSolve:
			for n := 0; n < count; n++ {
				h.sim.Solve()
			}
		case ActionMove:
			for n := 0; n < count; n++ {
				h.sim.Move()
			}
		case ActionMonitor:
			for n := 0; n < count; n++ {
				h.sim.Monitor()
			}
		case ActionWaves:
			for n := 0; n < count; n++ {
				h.sim.AdvanceWaves()
			}
		}

		if err != nil {
			result.RunError = err.Error()
			result.ErrorCode = errorCode(err)
		}

		st := h.sim.State()
		result.AddTrace(a.Type, st.Steps, st.Events, st.Elapsed)

		h.logger.Info("action completed",
			"index", i,
			"action", a.Type,
			"count", count,
			"steps", st.Steps,
			"events", st.Events,
			"error", err,
		)
	}
}

// errorCode extracts the engine error code, or "" if err has none.
func errorCode(err error) string {
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "CANCELLED"
	}
	return ""
}
