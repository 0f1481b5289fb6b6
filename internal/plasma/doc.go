// Package plasma holds the state of a 1-D corona simulation: the magnetic
// field grid, the charged particles, and the wave ensemble of the
// wave-heating variant.
//
// These are plain data structures. They carry no step logic; the engine
// package mutates them. All randomness used to seed them comes from an
// explicit rand.Source so that runs are reproducible from a seed.
package plasma
