package metrics

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// ProbeDensity samples the density field at a fixed point every tick and
// logs it at debug level every logEvery samples.
type ProbeDensity struct {
	name     string
	field    fluid.DensityField
	point    r2.Vec
	logger   *slog.Logger
	logEvery int
	current  float64
	samples  []float64
}

func NewProbeDensity(field fluid.DensityField, point r2.Vec, logger *slog.Logger, logEvery int) *ProbeDensity {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProbeDensity{
		name:     "probe_density",
		field:    field,
		point:    point,
		logger:   logger,
		logEvery: logEvery,
	}
}

func (d *ProbeDensity) Name() string { return d.name }

func (d *ProbeDensity) Observe(ps []fluid.Particle, t float64) {
	d.current = d.field.At(d.point, ps)
	d.samples = append(d.samples, d.current)
	if d.logEvery > 0 && len(d.samples)%d.logEvery == 0 {
		d.logger.Debug("density probe", "t", t, "x", d.point.X, "y", d.point.Y, "density", d.current)
	}
}

func (d *ProbeDensity) Current() float64 { return d.current }

func (d *ProbeDensity) Value() float64 {
	if len(d.samples) == 0 {
		return 0
	}
	return stat.Mean(d.samples, nil)
}

func (d *ProbeDensity) Reset() {
	d.current = 0
	d.samples = d.samples[:0]
}
