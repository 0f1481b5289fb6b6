package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/corona/internal/config"
	"github.com/roach88/corona/internal/plasma"
)

func gridOf(values ...float64) *plasma.FieldGrid {
	return &plasma.FieldGrid{Strength: append([]float64(nil), values...)}
}

func particlesOf(velocities ...float64) *plasma.ParticleSet {
	ps := &plasma.ParticleSet{}
	for i, v := range velocities {
		ps.Particles = append(ps.Particles, plasma.Particle{Position: float64(i), Velocity: v})
	}
	return ps
}

func TestFieldSolver_Stencil(t *testing.T) {
	g := gridOf(5, 7, 0, 1, 0, 7, 5)
	before := g.Strength

	FieldSolver{}.Advance(g, 0.5)

	// denom = 12 * 0.25 = 3
	assert.Equal(t, []float64{5, 7}, g.Strength[:2], "left boundary retained")
	assert.Equal(t, []float64{7, 5}, g.Strength[5:], "right boundary retained")
	assert.InDelta(t, 20.5, g.Strength[2], 1e-12)
	assert.InDelta(t, 1-22.0/3, g.Strength[3], 1e-12)
	assert.InDelta(t, 20.5, g.Strength[4], 1e-12)

	// The pre-step array is left untouched.
	assert.Equal(t, []float64{5, 7, 0, 1, 0, 7, 5}, before)
}

func TestFieldSolver_FixedPoints(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"zero field", 0},
		{"uniform field", 1},
		{"uniform non-integer field", 1.001},
		{"uniform large field", 12345.678},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := plasma.NewFieldGrid(20, tt.value)
			for i := 0; i < 100; i++ {
				FieldSolver{}.Advance(g, 0.01)
			}
			for i, b := range g.Strength {
				assert.Equal(t, tt.value, b, "cell %d", i)
			}
		})
	}
}

func TestFieldSolver_UniformFieldBitIdentical(t *testing.T) {
	g := plasma.NewFieldGrid(10, 1.001)

	FieldSolver{}.Advance(g, 0.005)

	for i, b := range g.Strength {
		assert.Equal(t, math.Float64bits(1.001), math.Float64bits(b), "cell %d", i)
	}
}

func TestFieldSolver_LengthInvariant(t *testing.T) {
	g := gridOf(1, 2, 3, 4, 5, 6, 7, 8)
	for i := 0; i < 10; i++ {
		FieldSolver{}.Advance(g, 0.01)
		require.Equal(t, 8, g.Len())
	}
}

func TestParticleMover_Linear(t *testing.T) {
	ps := &plasma.ParticleSet{Particles: []plasma.Particle{{Position: 1, Velocity: 2}}}
	g := plasma.NewFieldGrid(5, 0)

	var total float64
	for _, dt := range []float64{0.01, 0.005, 0.02, 0.003} {
		ParticleMover{Force: NoForce{}}.Advance(ps, g, dt)
		total += dt
	}

	assert.InDelta(t, 1+2*total, ps.Particles[0].Position, 1e-12)
	assert.Equal(t, 2.0, ps.Particles[0].Velocity)
}

// kick adds a fixed velocity before each move.
type kick struct{ dv float64 }

func (k kick) Apply(p *plasma.Particle, _ *plasma.FieldGrid, _ float64) {
	p.Velocity += k.dv
}

func TestParticleMover_ForceModel(t *testing.T) {
	ps := &plasma.ParticleSet{Particles: []plasma.Particle{{Position: 0, Velocity: 1}}}

	ParticleMover{Force: kick{dv: 1}}.Advance(ps, plasma.NewFieldGrid(5, 0), 0.5)

	assert.Equal(t, 2.0, ps.Particles[0].Velocity)
	assert.Equal(t, 1.0, ps.Particles[0].Position)
}

func TestParticleMover_NilForce(t *testing.T) {
	ps := &plasma.ParticleSet{Particles: []plasma.Particle{{Position: 0, Velocity: 3}}}

	ParticleMover{}.Advance(ps, plasma.NewFieldGrid(5, 0), 0.5)

	assert.Equal(t, 1.5, ps.Particles[0].Position)
}

func referenceMonitor() ReconnectionMonitor {
	return NewReconnectionMonitor(config.Default().Reconnection)
}

func TestReconnectionMonitor_SingleCell(t *testing.T) {
	g := plasma.NewFieldGrid(10, 1.0)
	g.Strength[5] = 2.0
	ps := particlesOf(0.5, -0.25)
	st := &State{}

	n := referenceMonitor().Process(g, ps, st)

	assert.Equal(t, int64(1), n)
	assert.Equal(t, int64(1), st.Events)
	assert.Equal(t, 1.5, g.Strength[5])
	for i, b := range g.Strength {
		if i != 5 {
			assert.Equal(t, 1.0, b, "cell %d", i)
		}
	}
	assert.InDelta(t, 0.55, ps.Particles[0].Velocity, 1e-15)
	assert.InDelta(t, -0.275, ps.Particles[1].Velocity, 1e-15)
}

func TestReconnectionMonitor_GlobalBoostCompounds(t *testing.T) {
	g := plasma.NewFieldGrid(10, 1.0)
	g.Strength[2] = 2.0
	g.Strength[7] = 1.6
	ps := particlesOf(1.0)
	st := &State{Events: 3}

	referenceMonitor().Process(g, ps, st)

	assert.Equal(t, int64(5), st.Events)
	assert.InDelta(t, 1.21, ps.Particles[0].Velocity, 1e-15)
	assert.InDelta(t, 1.1, g.Strength[7], 1e-12)
}

func TestReconnectionMonitor_HighThreshold(t *testing.T) {
	g := plasma.NewFieldGrid(10, 5.0)
	ps := particlesOf(1.0)
	st := &State{}
	m := referenceMonitor()
	m.Threshold = 1e9

	assert.Equal(t, int64(0), m.Process(g, ps, st))
	assert.Equal(t, int64(0), st.Events)
	assert.Equal(t, 1.0, ps.Particles[0].Velocity)
	assert.Equal(t, 5.0, g.Strength[0])
}

func TestReconnectionMonitor_ThresholdIsStrict(t *testing.T) {
	g := plasma.NewFieldGrid(10, 1.5)
	st := &State{}

	referenceMonitor().Process(g, particlesOf(1.0), st)

	assert.Equal(t, int64(0), st.Events)
}

func TestReconnectionMonitor_LocalCoupling(t *testing.T) {
	g := plasma.NewFieldGrid(10, 1.0)
	g.Strength[5] = 2.0
	ps := &plasma.ParticleSet{Particles: []plasma.Particle{
		{Position: 5.3, Velocity: 1},
		{Position: 2.0, Velocity: 1},
		{Position: 4.999, Velocity: 1},
	}}
	m := referenceMonitor()
	m.Coupling = LocalCoupling{}

	m.Process(g, ps, &State{})

	assert.Equal(t, 1.1, ps.Particles[0].Velocity)
	assert.Equal(t, 1.0, ps.Particles[1].Velocity)
	assert.Equal(t, 1.0, ps.Particles[2].Velocity)
}

func TestCouplingFor(t *testing.T) {
	assert.IsType(t, GlobalCoupling{}, CouplingFor(config.CouplingGlobal))
	assert.IsType(t, LocalCoupling{}, CouplingFor(config.CouplingLocal))
}

func TestWaveUpdater_AmplitudeDecay(t *testing.T) {
	const a0 = 0.8
	w := &plasma.WaveEnsemble{Alfven: []plasma.AlfvenWave{{Amplitude: a0, Frequency: 0.5}}}
	g := plasma.NewFieldGrid(5, 0)
	u := WaveUpdater{DecayRate: 0.1, Forcing: 0}

	const n = 50
	for i := 0; i < n; i++ {
		u.Advance(w, g, 0.01)
	}

	assert.InEpsilon(t, a0*math.Pow(0.999, n), w.Alfven[0].Amplitude, 1e-12)
	assert.InDelta(t, 2*math.Pi*0.5*0.01*n, w.Alfven[0].Phase, 1e-12)
	for _, b := range g.Strength {
		assert.Equal(t, 0.0, b)
	}
}

func TestWaveUpdater_Forcing(t *testing.T) {
	w := &plasma.WaveEnsemble{}
	g := plasma.NewFieldGrid(5, 1)

	WaveUpdater{DecayRate: 0.1, Forcing: 0.1}.Advance(w, g, 0.01)

	for _, b := range g.Strength {
		assert.InDelta(t, 1.001, b, 1e-12)
	}
}

func TestWaveUpdater_PhaseWrapped(t *testing.T) {
	w := &plasma.WaveEnsemble{Alfven: []plasma.AlfvenWave{{Amplitude: 1, Phase: 6, Frequency: 1}}}

	WaveUpdater{}.Advance(w, plasma.NewFieldGrid(5, 0), 0.1)

	// 6 + 2π*0.1 wraps past 2π.
	assert.InDelta(t, 6+2*math.Pi*0.1-2*math.Pi, w.Alfven[0].Phase, 1e-12)
}

func TestWaveUpdater_InertCollections(t *testing.T) {
	w := &plasma.WaveEnsemble{
		Acoustic:        []plasma.AcousticWave{{Position: 1, Velocity: 2}},
		MagnetoAcoustic: []plasma.MagnetoAcousticWave{{Position: 3, Velocity: 4}},
	}

	WaveUpdater{DecayRate: 0.1, Forcing: 0.1}.Advance(w, plasma.NewFieldGrid(5, 0), 0.01)

	assert.Equal(t, plasma.AcousticWave{Position: 1, Velocity: 2}, w.Acoustic[0])
	assert.Equal(t, plasma.MagnetoAcousticWave{Position: 3, Velocity: 4}, w.MagnetoAcoustic[0])
}

func TestWrapPhase(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1, 1},
		{-0.5, 2*math.Pi - 0.5},
		{7, 7 - 2*math.Pi},
		{2 * math.Pi, 0},
	}

	for _, tt := range tests {
		got := wrapPhase(tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, "wrapPhase(%v)", tt.in)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 2*math.Pi)
	}

	assert.True(t, math.IsNaN(wrapPhase(math.NaN())))
}

func TestStepController_Next(t *testing.T) {
	c := NewStepController(config.Default().Step)

	tests := []struct {
		name string
		max  float64
		want float64
	}{
		{"zero field", 0, 0.01},
		{"unit field", 1, 0.005},
		{"strong field", 9, 0.001},
		{"clamped to max_dt", -0.5, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := c.Next(tt.max)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, dt, 1e-15)
		})
	}
}

func TestStepController_Monotonic(t *testing.T) {
	c := NewStepController(config.Default().Step)

	prev := math.Inf(1)
	for _, max := range []float64{0, 0.5, 1, 2, 10, 100, 1e4} {
		dt, err := c.Next(max)
		require.NoError(t, err)
		assert.Less(t, dt, prev, "dt should shrink as max grows (max=%v)", max)
		prev = dt
	}
}

func TestStepController_Errors(t *testing.T) {
	c := StepController{Base: 0.01, MinDt: 1e-3, MaxDt: 0.01}

	tests := []struct {
		name string
		max  float64
		code RuntimeErrorCode
	}{
		{"underflow", 100, ErrCodeStepUnderflow},
		{"infinite dt", -1, ErrCodeNumericalDegeneracy},
		{"negative dt", -2, ErrCodeNumericalDegeneracy},
		{"nan max", math.NaN(), ErrCodeNumericalDegeneracy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Next(tt.max)
			require.Error(t, err)

			var re *RuntimeError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.code, re.Code)
			assert.True(t, IsDegeneracyError(err))
		})
	}
}

func TestPeriodicSampler(t *testing.T) {
	s := PeriodicSampler{Every: 2}
	g := plasma.NewFieldGrid(4, 2)
	st := &State{}

	for step := int64(1); step <= 5; step++ {
		st.Steps = step
		st.Elapsed = float64(step) * 0.01
		s.Observe(st, g)
	}
	s.Finish(st, g, 0.05)

	require.Len(t, st.Samples, 2)
	assert.InDelta(t, 0.02, st.Samples[0].Time, 1e-15)
	assert.InDelta(t, 0.04, st.Samples[1].Time, 1e-15)
	assert.Equal(t, 2.0, st.Samples[0].Average)
}

func TestLegacySampler(t *testing.T) {
	s := LegacySampler{Every: 1}
	g := plasma.NewFieldGrid(5, 2)
	st := &State{}

	for step := int64(1); step <= 2; step++ {
		st.Steps = step
		s.Observe(st, g)
	}
	assert.Empty(t, st.Samples, "legacy sampler emits only at the end")
	assert.Equal(t, 20.0, st.SampleSum)
	assert.Equal(t, int64(2), st.SampleCount)

	s.Finish(st, g, 10)

	require.Len(t, st.Samples, 1)
	assert.Equal(t, 10.0, st.Samples[0].Time)
	assert.Equal(t, 2.0, st.Samples[0].Average)
}

func TestLegacySampler_NoObservations(t *testing.T) {
	st := &State{}

	LegacySampler{Every: 10}.Finish(st, plasma.NewFieldGrid(5, 1), 1)

	assert.Empty(t, st.Samples)
}

func TestSamplerFor(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, PeriodicSampler{Every: 10}, SamplerFor(cfg))

	cfg.Sampling.Policy = config.SamplingLegacy
	assert.Equal(t, LegacySampler{Every: 10}, SamplerFor(cfg))
}
