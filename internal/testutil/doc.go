// Package testutil provides deterministic fixtures for tests: small
// configurations that run in milliseconds, config files on disk and
// predictable run IDs.
package testutil
