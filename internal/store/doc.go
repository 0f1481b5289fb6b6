// Package store provides SQLite-backed durable storage for simulation runs.
//
// The store is an append-only archive of finished runs:
//   - Runs: configuration, final status, counters, digest and snapshot
//   - Samples: the (time, average field strength) series of each run
//
// Archived runs are output records. A run is never resumed from the store;
// replay re-executes the archived configuration and compares digests.
//
// # Critical Patterns
//
// Logical Identity and Time
//   - Runs are ordered by seq INTEGER (assigned on write), NEVER timestamps
//   - Run IDs are UUIDv7 strings supplied by the caller
//
// Deterministic Query Results
//   - Run listings use ORDER BY seq ASC, id COLLATE BINARY ASC
//   - Samples use ORDER BY idx ASC
//
// Idempotent Writes
//   - Writing a run ID twice is a no-op that returns the original seq
//
// # Database Configuration
//
// Set through go-sqlite3 DSN parameters so every connection gets them:
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// PRAGMA user_version records SchemaVersion. Archives from a newer schema
// are refused.
//
// Snapshots are stored as canonical JSON produced by internal/snapshot.
package store
