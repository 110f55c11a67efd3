package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// KineticEnergy tracks sum(0.5 * m * |v|^2). Value is the mean over samples.
type KineticEnergy struct {
	name    string
	current float64
	samples []float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(ps []fluid.Particle, t float64) {
	e.current = Kinetic(ps)
	e.samples = append(e.samples, e.current)
}

func (e *KineticEnergy) Current() float64 { return e.current }

func (e *KineticEnergy) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return stat.Mean(e.samples, nil)
}

func (e *KineticEnergy) Reset() {
	e.current = 0
	e.samples = e.samples[:0]
}

// Kinetic is the total kinetic energy of ps.
func Kinetic(ps []fluid.Particle) float64 {
	total := 0.0
	for i := range ps {
		total += 0.5 * ps[i].Mass * r2.Norm2(ps[i].Velocity)
	}
	return total
}
