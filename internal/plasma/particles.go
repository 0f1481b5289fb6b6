package plasma

import (
	"math"
	"math/rand/v2"
)

// Particle is a charged particle on the 1-D domain.
//
// Mass, Charge, Radius and Spin are carried for future force laws; nothing
// consumes them yet. Position is not confined to [0, cells): no boundary
// reflection or wrap is applied.
type Particle struct {
	Position float64
	Velocity float64
	Mass     float64
	Charge   float64
	Radius   float64
	Spin     float64
}

// Attributes are the extended properties assigned to seeded particles.
type Attributes struct {
	Mass, Charge, Radius, Spin float64
}

// ParticleSet owns the particles of one simulation.
type ParticleSet struct {
	Particles []Particle
}

// SeedParticles draws n particles with positions uniform in [0, cells) and
// velocities uniform in [-1, 1). Draws alternate position, velocity per particle.
func SeedParticles(src rand.Source, n, cells int, attrs Attributes) *ParticleSet {
	posDist := uniform(src, 0, float64(cells))
	velDist := uniform(src, -1, 1)

	ps := &ParticleSet{Particles: make([]Particle, n)}
	for i := range ps.Particles {
		ps.Particles[i] = Particle{
			Position: posDist.Rand(),
			Velocity: velDist.Rand(),
			Mass:     attrs.Mass,
			Charge:   attrs.Charge,
			Radius:   attrs.Radius,
			Spin:     attrs.Spin,
		}
	}
	return ps
}

// Len returns the number of particles.
func (ps *ParticleSet) Len() int {
	return len(ps.Particles)
}

// Clone returns a deep copy.
func (ps *ParticleSet) Clone() *ParticleSet {
	c := &ParticleSet{}
	c.CopyFrom(ps)
	return c
}

// CopyFrom overwrites ps with src, reusing the backing array when possible.
func (ps *ParticleSet) CopyFrom(src *ParticleSet) {
	ps.Particles = append(ps.Particles[:0], src.Particles...)
}

// Finite returns the index of the first particle with a non-finite position
// or velocity, or -1.
func (ps *ParticleSet) Finite() int {
	for i, p := range ps.Particles {
		if !isFinite(p.Position) || !isFinite(p.Velocity) {
			return i
		}
	}
	return -1
}

// MaxVelocity returns the largest velocity, or 0 for an empty set.
func (ps *ParticleSet) MaxVelocity() float64 {
	if len(ps.Particles) == 0 {
		return 0
	}
	max := math.Inf(-1)
	for _, p := range ps.Particles {
		max = math.Max(max, p.Velocity)
	}
	return max
}

// MeanVelocity returns the average velocity, or 0 for an empty set.
func (ps *ParticleSet) MeanVelocity() float64 {
	if len(ps.Particles) == 0 {
		return 0
	}
	var sum float64
	for _, p := range ps.Particles {
		sum += p.Velocity
	}
	return sum / float64(len(ps.Particles))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
