package engine

import (
	"github.com/roach88/corona/internal/config"
	"github.com/roach88/corona/internal/plasma"
	"github.com/roach88/corona/internal/snapshot"
)

// Sampler builds the (elapsed time, average field strength) series.
//
// Observe is called after every completed step. Finish is called once when a
// run ends, with the time the final point should carry.
type Sampler interface {
	Observe(st *State, g *plasma.FieldGrid)
	Finish(st *State, g *plasma.FieldGrid, endTime float64)
}

// PeriodicSampler emits one sample of the mean strength every Every steps.
type PeriodicSampler struct {
	Every int64
}

// Observe implements Sampler.
func (s PeriodicSampler) Observe(st *State, g *plasma.FieldGrid) {
	if !onCadence(st.Steps, s.Every) {
		return
	}
	st.Samples = append(st.Samples, snapshot.Sample{Time: st.Elapsed, Average: g.Mean()})
}

// Finish implements Sampler. Periodic samples are already emitted.
func (PeriodicSampler) Finish(*State, *plasma.FieldGrid, float64) {}

// LegacySampler accumulates the total strength every Every steps and emits a
// single point at the end: sum / (count * cells). Nothing is emitted when no
// step was accumulated.
type LegacySampler struct {
	Every int64
}

// Observe implements Sampler.
func (s LegacySampler) Observe(st *State, g *plasma.FieldGrid) {
	if !onCadence(st.Steps, s.Every) {
		return
	}
	st.SampleSum += g.Total()
	st.SampleCount++
}

// Finish implements Sampler.
func (LegacySampler) Finish(st *State, g *plasma.FieldGrid, endTime float64) {
	if st.SampleCount == 0 || g.Len() == 0 {
		return
	}
	avg := st.SampleSum / (float64(st.SampleCount) * float64(g.Len()))
	st.Samples = append(st.Samples, snapshot.Sample{Time: endTime, Average: avg})
}

func onCadence(steps, every int64) bool {
	if every < 1 {
		every = 1
	}
	return steps > 0 && steps%every == 0
}

// SamplerFor builds the sampler selected by configuration.
func SamplerFor(cfg config.Config) Sampler {
	every := int64(cfg.SampleEvery())
	if cfg.Sampling.Policy == config.SamplingLegacy {
		return LegacySampler{Every: every}
	}
	return PeriodicSampler{Every: every}
}
