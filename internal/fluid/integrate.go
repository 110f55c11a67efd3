package fluid

import (
	"fmt"
	"math"
)

// CheckTimeStep rejects NaN, infinite and negative time deltas.
func CheckTimeStep(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: dt=%v", ErrInvalidTimeStep, dt)
	}
	return nil
}

// Integrate advances p by one explicit step: position += velocity * dt.
// Velocity is untouched. An invalid dt leaves p unchanged.
func Integrate(p *Particle, dt float64) error {
	if err := CheckTimeStep(dt); err != nil {
		return err
	}
	advance(p, dt)
	return nil
}

func advance(p *Particle, dt float64) {
	p.Position.X += p.Velocity.X * dt
	p.Position.Y += p.Velocity.Y * dt
}
