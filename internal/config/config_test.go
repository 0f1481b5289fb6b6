package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 100, cfg.Particles)
	assert.Equal(t, 1000, cfg.Cells)
	assert.Equal(t, 0.01, cfg.Dt)
	assert.Equal(t, 1.5, cfg.Reconnection.Threshold)
	assert.Equal(t, 0.5, cfg.Reconnection.Relaxation)
	assert.Equal(t, 1.1, cfg.Reconnection.Boost)
	assert.Equal(t, CouplingGlobal, cfg.Reconnection.Coupling)
	assert.Equal(t, SamplingPeriodic, cfg.Sampling.Policy)
	assert.False(t, cfg.Waves.Enabled)
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"zero particles", func(c *Config) { c.Particles = 0 }, "particles"},
		{"negative particles", func(c *Config) { c.Particles = -3 }, "particles"},
		{"cells below stencil width", func(c *Config) { c.Cells = 4 }, "cells"},
		{"zero dt", func(c *Config) { c.Dt = 0 }, "dt"},
		{"nan dt", func(c *Config) { c.Dt = math.NaN() }, "dt"},
		{"negative total time", func(c *Config) { c.TotalTime = -1 }, "total_time"},
		{"infinite field", func(c *Config) { c.InitialField = math.Inf(1) }, "initial_field"},
		{"zero max steps", func(c *Config) { c.MaxSteps = 0 }, "max_steps"},
		{"unknown coupling", func(c *Config) { c.Reconnection.Coupling = "nearby" }, "reconnection.coupling"},
		{"min above max", func(c *Config) { c.Step.MinDt = 1; c.Step.MaxDt = 0.1 }, "step.min_dt"},
		{"zero interval", func(c *Config) { c.Sampling.Interval = 0 }, "sampling.interval"},
		{"unknown policy", func(c *Config) { c.Sampling.Policy = "hourly" }, "sampling.policy"},
		{"negative alfven", func(c *Config) { c.Waves.Alfven = -1 }, "waves.alfven"},
		{"negative acoustic", func(c *Config) { c.Waves.Acoustic = -1 }, "waves.acoustic"},
		{"negative magneto", func(c *Config) { c.Waves.MagnetoAcoustic = -1 }, "waves.magneto_acoustic"},
		{"nan spin", func(c *Config) { c.Particle.Spin = math.NaN() }, "particle.spin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))

			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.True(t, ce.Has(tt.field), "expected problem for %s, got %v", tt.field, ce.Problems)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Particles = 0
	cfg.Cells = 2
	cfg.Dt = -1

	err := cfg.Validate()
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Len(t, ce.Problems, 3)
	assert.Contains(t, err.Error(), "3 problems")
}

func TestValidate_ZeroTotalTimeAllowed(t *testing.T) {
	cfg := Default()
	cfg.TotalTime = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ZeroWaveCountsAllowed(t *testing.T) {
	cfg := Default()
	cfg.Waves.Enabled = true
	cfg.Waves.Alfven = 0
	cfg.Waves.Acoustic = 0
	cfg.Waves.MagnetoAcoustic = 0
	assert.NoError(t, cfg.Validate())
}

func TestConfigurationError_SingleProblemMessage(t *testing.T) {
	err := &ConfigurationError{Problems: []FieldError{{Field: "cells", Message: "too small"}}}
	assert.Equal(t, "invalid configuration: cells: too small", err.Error())
}

func TestSampleEvery(t *testing.T) {
	tests := []struct {
		dt, interval float64
		want         int
	}{
		{0.01, 0.1, 10},
		{0.03, 0.1, 3},
		{0.5, 0.1, 1},
		{0.001, 0.1, 100},
		{1e-300, 1e300, MaxSampleEvery},
		{1e-12, 1e6, MaxSampleEvery},
		{math.SmallestNonzeroFloat64, 1, MaxSampleEvery},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Dt = tt.dt
		cfg.Sampling.Interval = tt.interval
		assert.Equal(t, tt.want, cfg.SampleEvery(), "dt=%g interval=%g", tt.dt, tt.interval)
	}
}
