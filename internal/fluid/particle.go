package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a point mass in world units. Velocity is in units per second.
type Particle struct {
	Position r2.Vec
	Velocity r2.Vec
	Mass     float64
}

// IsValid reports whether every component is finite.
func (p Particle) IsValid() bool {
	return finite(p.Position.X) && finite(p.Position.Y) &&
		finite(p.Velocity.X) && finite(p.Velocity.Y) &&
		finite(p.Mass)
}

func (p Particle) Speed() float64 {
	return r2.Norm(p.Velocity)
}

// Clone returns an independent copy of particles.
func Clone(particles []Particle) []Particle {
	c := make([]Particle, len(particles))
	copy(c, particles)
	return c
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
