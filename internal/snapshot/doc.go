// Package snapshot is the read-only view of a simulation run handed to
// reporting collaborators (archive, renderer, CLI output).
//
// A Snapshot holds the final field grid, the final particle states, the
// cumulative reconnection-event count and the sampled time series, plus a
// Summary of the final state.
//
// # Canonical JSON
//
// Snapshots serialize to canonical JSON for content addressing:
//   - Object keys sorted by UTF-16 code units
//   - No HTML escaping, strings NFC normalized
//   - Floats in shortest round-trip form; NaN and ±Inf are rejected
//
// Digest hashes the canonical form with SHA-256 under a versioned domain
// prefix. Two runs with identical configuration and seed produce identical
// digests; replay relies on this.
package snapshot
