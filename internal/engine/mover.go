package engine

import "github.com/roach88/corona/internal/plasma"

// ForceModel changes a particle's velocity before it moves.
//
// The mover's contract does not depend on the force law, so Lorentz or drag
// models plug in here without touching ParticleMover.
type ForceModel interface {
	Apply(p *plasma.Particle, g *plasma.FieldGrid, dt float64)
}

// NoForce leaves velocities unchanged. It is the reference force model.
type NoForce struct{}

// Apply implements ForceModel.
func (NoForce) Apply(*plasma.Particle, *plasma.FieldGrid, float64) {}

// ParticleMover applies the force model, then moves every particle by
// velocity*dt. Positions are neither wrapped nor reflected.
type ParticleMover struct {
	Force ForceModel
}

// Advance moves every particle in place.
func (m ParticleMover) Advance(ps *plasma.ParticleSet, g *plasma.FieldGrid, dt float64) {
	force := m.Force
	if force == nil {
		force = NoForce{}
	}
	for i := range ps.Particles {
		p := &ps.Particles[i]
		force.Apply(p, g, dt)
		p.Position += p.Velocity * dt
	}
}
