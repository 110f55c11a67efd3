package fluid

// Force adjusts a particle's velocity between integration and wall
// resolution. It is the extension point for gravity and for a future
// density-driven pressure force.
type Force interface {
	Apply(p *Particle, dt float64)
}

// gravityScale converts GravityStrength into world units per second squared.
const gravityScale = 200.0

// Gravity pulls particles toward -y. It is a no-op unless Enabled.
type Gravity struct {
	Strength float64
	Enabled  bool
}

func (g Gravity) Apply(p *Particle, dt float64) {
	if !g.Enabled {
		return
	}
	p.Velocity.Y -= g.Strength * gravityScale * dt
}
