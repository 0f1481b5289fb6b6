// Package engine implements the corona particle–field simulation engine.
//
// The engine advances a 1-D magnetic field grid, a set of charged particles
// and (in the wave-heating variant) an ensemble of Alfvén waves, and
// converts over-threshold field energy into particle kinetic energy through
// reconnection events.
//
// ARCHITECTURE:
//
// Single-Writer Step Loop:
// Simulation is the only mutator of its grid, particles and waves. Each
// iteration runs the same fixed sequence:
//
//  1. FieldSolver advances the field with a 4th-order stencil
//  2. WaveUpdater decays/advances Alfvén waves and forces the field (wave variant)
//  3. ParticleMover applies the force model and moves particles
//  4. ReconnectionMonitor detects and relaxes over-threshold cells
//  5. StepController computes the next dt from the field maximum
//  6. elapsed time advances by the new dt
//  7. Sampler records the time series on its cadence
//
// There is no concurrency and no I/O in the loop.
//
// Termination:
// Run stops when elapsed time reaches the configured total. It also stops on
// context cancellation, when the step budget is exhausted, or when a step
// produces non-finite state or a dt below the configured minimum. Every
// abnormal stop restores the state from before the failing step, so the
// returned snapshot never contains NaN or Inf.
//
// Determinism:
// All randomness is drawn once at construction from a source seeded by
// Config.Seed. Two simulations built from the same Config evolve identically.
package engine
