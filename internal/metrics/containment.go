package metrics

import (
	"github.com/san-kum/fluidsim/internal/fluid"
)

// Containment counts particles outside the bounds grown by margin. Value is
// the fraction of ticks with every particle contained.
type Containment struct {
	name       string
	bounds     fluid.Bounds
	margin     float64
	current    float64
	violations int
	samples    int
}

func NewContainment(bounds fluid.Bounds, margin float64) *Containment {
	return &Containment{
		name:   "containment",
		bounds: bounds,
		margin: margin,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(ps []fluid.Particle, t float64) {
	c.samples++
	escaped := 0
	for i := range ps {
		if !c.bounds.Contains(ps[i].Position, c.margin) {
			escaped++
		}
	}
	c.current = float64(escaped)
	if escaped > 0 {
		c.violations++
	}
}

func (c *Containment) Current() float64 { return c.current }

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.current = 0
	c.violations = 0
	c.samples = 0
}
