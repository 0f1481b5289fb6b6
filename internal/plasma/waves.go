package plasma

import (
	"math"
	"math/rand/v2"
)

// Seeding ranges for the wave ensemble.
const (
	wavePositionMax  = 100.0
	waveAmplitudeMax = 1.0
	waveFrequencyMax = 1.0
)

// AlfvenWave is an oscillator entry that decays and advances its phase each step.
type AlfvenWave struct {
	Position  float64
	Amplitude float64
	Phase     float64
	Frequency float64
	Velocity  float64
}

// AcousticWave is seeded but not advanced.
type AcousticWave struct {
	Position float64
	Velocity float64
}

// MagnetoAcousticWave is seeded but not advanced.
type MagnetoAcousticWave struct {
	Position float64
	Velocity float64
}

// WaveCounts sizes each collection of a WaveEnsemble.
type WaveCounts struct {
	Alfven          int
	Acoustic        int
	MagnetoAcoustic int
}

// WaveEnsemble holds the three independent wave collections.
type WaveEnsemble struct {
	Alfven          []AlfvenWave
	Acoustic        []AcousticWave
	MagnetoAcoustic []MagnetoAcousticWave
}

// SeedWaves draws every collection from uniform distributions:
// positions in [0, 100), amplitudes in [0, 1), phases in [0, 2π),
// frequencies in [0, 1), velocities in [-1, 1).
// Alfvén waves are drawn first, then acoustic, then magneto-acoustic.
func SeedWaves(src rand.Source, counts WaveCounts) *WaveEnsemble {
	pos := uniform(src, 0, wavePositionMax)
	amp := uniform(src, 0, waveAmplitudeMax)
	phase := uniform(src, 0, 2*math.Pi)
	freq := uniform(src, 0, waveFrequencyMax)
	vel := uniform(src, -1, 1)

	w := &WaveEnsemble{
		Alfven:          make([]AlfvenWave, counts.Alfven),
		Acoustic:        make([]AcousticWave, counts.Acoustic),
		MagnetoAcoustic: make([]MagnetoAcousticWave, counts.MagnetoAcoustic),
	}
	for i := range w.Alfven {
		w.Alfven[i] = AlfvenWave{
			Position:  pos.Rand(),
			Amplitude: amp.Rand(),
			Phase:     phase.Rand(),
			Frequency: freq.Rand(),
			Velocity:  vel.Rand(),
		}
	}
	for i := range w.Acoustic {
		w.Acoustic[i] = AcousticWave{Position: pos.Rand(), Velocity: vel.Rand()}
	}
	for i := range w.MagnetoAcoustic {
		w.MagnetoAcoustic[i] = MagnetoAcousticWave{Position: pos.Rand(), Velocity: vel.Rand()}
	}
	return w
}

// Clone returns a deep copy.
func (w *WaveEnsemble) Clone() *WaveEnsemble {
	c := &WaveEnsemble{}
	c.CopyFrom(w)
	return c
}

// CopyFrom overwrites w with src, reusing backing arrays when possible.
func (w *WaveEnsemble) CopyFrom(src *WaveEnsemble) {
	w.Alfven = append(w.Alfven[:0], src.Alfven...)
	w.Acoustic = append(w.Acoustic[:0], src.Acoustic...)
	w.MagnetoAcoustic = append(w.MagnetoAcoustic[:0], src.MagnetoAcoustic...)
}

// Finite returns the index of the first Alfvén wave with a non-finite
// amplitude or phase, or -1. The other collections never change after seeding.
func (w *WaveEnsemble) Finite() int {
	for i, a := range w.Alfven {
		if !isFinite(a.Amplitude) || !isFinite(a.Phase) {
			return i
		}
	}
	return -1
}

// MaxAmplitude returns the largest Alfvén amplitude, or 0 without Alfvén waves.
func (w *WaveEnsemble) MaxAmplitude() float64 {
	if len(w.Alfven) == 0 {
		return 0
	}
	max := math.Inf(-1)
	for _, a := range w.Alfven {
		max = math.Max(max, a.Amplitude)
	}
	return max
}

// MeanAmplitude returns the average Alfvén amplitude, or 0 without Alfvén waves.
func (w *WaveEnsemble) MeanAmplitude() float64 {
	if len(w.Alfven) == 0 {
		return 0
	}
	var sum float64
	for _, a := range w.Alfven {
		sum += a.Amplitude
	}
	return sum / float64(len(w.Alfven))
}
