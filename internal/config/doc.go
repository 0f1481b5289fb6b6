// Package config defines the run configuration for the corona simulation engine.
//
// A Config is built from Default() and then optionally overlaid by a file:
//
//   - YAML (.yaml, .yml): decoded with gopkg.in/yaml.v3, unknown keys rejected.
//   - CUE (.cue): unified with the embedded #Config schema (schema.cue),
//     validated for concreteness and decoded.
//
// Validate reports every violated bound at once as a *ConfigurationError.
// Configuration errors are always reported before any simulation work begins.
package config
