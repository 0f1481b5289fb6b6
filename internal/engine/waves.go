package engine

import (
	"math"

	"github.com/roach88/corona/internal/plasma"
)

const twoPi = 2 * math.Pi

// WaveUpdater advances the wave-heating variant by one step.
//
// Alfvén amplitudes decay by (1 - DecayRate*dt) without a floor, so a large
// DecayRate*dt flips their sign. Phases advance by 2π*frequency*dt and are
// wrapped into [0, 2π). Every cell gains Forcing*dt regardless of wave state.
// Acoustic and magneto-acoustic waves are inert.
type WaveUpdater struct {
	DecayRate float64
	Forcing   float64
}

// Advance updates w and g in place.
func (u WaveUpdater) Advance(w *plasma.WaveEnsemble, g *plasma.FieldGrid, dt float64) {
	decay := 1 - u.DecayRate*dt
	for i := range w.Alfven {
		a := &w.Alfven[i]
		a.Amplitude *= decay
		a.Phase = wrapPhase(a.Phase + twoPi*a.Frequency*dt)
	}

	inc := u.Forcing * dt
	for i := range g.Strength {
		g.Strength[i] += inc
	}
}

// wrapPhase maps p into [0, 2π). Non-finite input is returned unchanged so
// the degeneracy check can see it.
func wrapPhase(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return p
	}
	p = math.Mod(p, twoPi)
	if p < 0 {
		p += twoPi
	}
	if p >= twoPi {
		p = 0
	}
	return p
}
