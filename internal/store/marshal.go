package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/corona/internal/config"
	"github.com/roach88/corona/internal/snapshot"
)

// marshalConfig converts a Config to JSON TEXT for storage.
// Uses json.Encoder with HTML escaping disabled so stored text matches
// what the CLI prints.
func marshalConfig(cfg config.Config) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalConfig parses JSON TEXT over config.Default().
func unmarshalConfig(data string) (config.Config, error) {
	cfg := config.Default()
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return config.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// marshalSnapshot converts a Snapshot to canonical JSON TEXT for storage.
func marshalSnapshot(s snapshot.Snapshot) (string, error) {
	data, err := s.Canonical()
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(data), nil
}

// unmarshalSnapshot parses canonical JSON TEXT to a Snapshot.
func unmarshalSnapshot(data string) (snapshot.Snapshot, error) {
	var s snapshot.Snapshot
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}

// Seeds are stored as decimal TEXT: SQLite integers cannot hold the full
// uint64 range.
func formatSeed(seed uint64) string {
	return strconv.FormatUint(seed, 10)
}

func parseSeed(s string) (uint64, error) {
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse seed %q: %w", s, err)
	}
	return seed, nil
}
