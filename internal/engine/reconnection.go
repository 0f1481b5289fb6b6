package engine

import (
	"math"

	"github.com/roach88/corona/internal/config"
	"github.com/roach88/corona/internal/plasma"
)

// Coupling decides which particles a reconnection event in a cell accelerates.
type Coupling interface {
	// Boost multiplies the velocity of the affected particles by factor.
	Boost(ps *plasma.ParticleSet, cell int, factor float64)
}

// GlobalCoupling accelerates every particle for every over-threshold cell.
// With k cells over threshold in one step, velocities grow by factor^k.
type GlobalCoupling struct{}

// Boost implements Coupling.
func (GlobalCoupling) Boost(ps *plasma.ParticleSet, _ int, factor float64) {
	for i := range ps.Particles {
		ps.Particles[i].Velocity *= factor
	}
}

// LocalCoupling accelerates only particles whose cell index, the floor of
// the position, equals the triggering cell.
type LocalCoupling struct{}

// Boost implements Coupling.
func (LocalCoupling) Boost(ps *plasma.ParticleSet, cell int, factor float64) {
	for i := range ps.Particles {
		p := &ps.Particles[i]
		if cellOf(p.Position) == cell {
			p.Velocity *= factor
		}
	}
}

func cellOf(position float64) int {
	f := math.Floor(position)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return -1
	}
	return int(f)
}

// CouplingFor maps a configured coupling name to its policy.
// Unknown names fall back to GlobalCoupling; Config.Validate rejects them first.
func CouplingFor(c config.Coupling) Coupling {
	if c == config.CouplingLocal {
		return LocalCoupling{}
	}
	return GlobalCoupling{}
}

// ReconnectionMonitor converts over-threshold field energy into particle
// kinetic energy.
//
// Each step it makes two full passes over the grid:
//   - Detect counts every cell whose strength exceeds Threshold.
//   - Respond subtracts Relaxation from every cell still over Threshold and
//     boosts particle velocities through the coupling policy.
//
// The event count is a running total of cell-step occurrences, not of
// distinct physical events.
type ReconnectionMonitor struct {
	Threshold  float64
	Relaxation float64
	Boost      float64
	Coupling   Coupling
}

// NewReconnectionMonitor builds a monitor from configuration.
func NewReconnectionMonitor(r config.Reconnection) ReconnectionMonitor {
	return ReconnectionMonitor{
		Threshold:  r.Threshold,
		Relaxation: r.Relaxation,
		Boost:      r.Boost,
		Coupling:   CouplingFor(r.Coupling),
	}
}

// Detect returns the number of cells over threshold.
func (m ReconnectionMonitor) Detect(g *plasma.FieldGrid) int64 {
	var n int64
	for _, b := range g.Strength {
		if b > m.Threshold {
			n++
		}
	}
	return n
}

// Respond relaxes every over-threshold cell and applies the velocity boost
// once per relaxed cell.
func (m ReconnectionMonitor) Respond(g *plasma.FieldGrid, ps *plasma.ParticleSet) {
	coupling := m.Coupling
	if coupling == nil {
		coupling = GlobalCoupling{}
	}
	for i, b := range g.Strength {
		if b > m.Threshold {
			g.Strength[i] = b - m.Relaxation
			coupling.Boost(ps, i, m.Boost)
		}
	}
}

// Process runs Detect then Respond and adds the detected count to st.Events.
// It returns the number of events detected in this pass.
func (m ReconnectionMonitor) Process(g *plasma.FieldGrid, ps *plasma.ParticleSet, st *State) int64 {
	n := m.Detect(g)
	st.Events += n
	m.Respond(g, ps)
	return n
}
