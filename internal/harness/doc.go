// Package harness provides a scenario testing framework for the corona engine.
//
// A scenario is a YAML file that configures a simulation, overrides parts of
// its seeded state, drives it with a list of actions and checks the outcome
// with assertions:
//
//	name: single_cell_reconnection
//	description: One over-threshold cell relaxes and boosts every particle
//	config:
//	  cells: 5
//	  particles: 1
//	setup:
//	  field:
//	    - {cell: 2, value: 2.0}
//	  particles:
//	    - {position: 0.5, velocity: 1.0}
//	actions:
//	  - type: monitor
//	assertions:
//	  - {type: events, count: 1}
//	  - {type: field_cell, cell: 2, value: 1.5}
//
// The config block is decoded over config.Default(), so a scenario lists only
// the options it changes.
//
// Actions drive the real engine:
//   - run: Simulation.Run to completion (or until it aborts)
//   - step: Simulation.Step, count times
//   - solve, move, monitor, waves: a single component pass, count times
//
// Every action appends one event to the result trace. RunWithGolden compares
// the trace and the final snapshot against testdata/golden/{name}.golden.
package harness
