package fluid_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var _ = Describe("DensityAt", func() {
	const (
		h    = 40.0
		mass = 1.0
	)

	It("is zero for no particles", func() {
		Expect(fluid.DensityAt(r2.Vec{X: 12, Y: -7}, nil, mass, h)).To(BeZero())
		Expect(fluid.DensityAt(r2.Vec{}, []fluid.Particle{}, mass, h)).To(BeZero())
	})

	It("gives m*h^3/(pi*h^2) for one particle at the query point", func() {
		ps := []fluid.Particle{{Position: r2.Vec{X: 3, Y: 4}}}
		want := mass * h * h * h / (math.Pi * h * h)
		Expect(fluid.DensityAt(r2.Vec{X: 3, Y: 4}, ps, mass, h)).To(BeNumerically("~", want, 1e-9))
	})

	It("scales with mass", func() {
		ps := []fluid.Particle{{Position: r2.Vec{}}}
		one := fluid.DensityAt(r2.Vec{}, ps, 1, h)
		Expect(fluid.DensityAt(r2.Vec{}, ps, 2.5, h)).To(BeNumerically("~", 2.5*one, 1e-9))
	})

	It("sums contributions at Euclidean distance", func() {
		ps := []fluid.Particle{
			{Position: r2.Vec{X: 6, Y: 8}},
			{Position: r2.Vec{X: -6, Y: -8}},
			{Position: r2.Vec{X: 100, Y: 0}},
		}
		want := 2 * 30.0 * 30.0 * 30.0 / (math.Pi * h * h)
		Expect(fluid.DensityAt(r2.Vec{}, ps, mass, h)).To(BeNumerically("~", want, 1e-9))
	})

	It("is zero without a positive smoothing radius", func() {
		ps := []fluid.Particle{{Position: r2.Vec{}}}
		Expect(fluid.DensityAt(r2.Vec{}, ps, mass, 0)).To(BeZero())
		Expect(fluid.DensityAt(r2.Vec{}, ps, mass, -3)).To(BeZero())
		Expect(fluid.DensityAt(r2.Vec{}, ps, mass, math.NaN())).To(BeZero())
	})

	It("does not mutate the particles", func() {
		ps := []fluid.Particle{
			{Position: r2.Vec{X: 1, Y: 2}, Velocity: r2.Vec{X: 3, Y: 4}, Mass: 1},
		}
		before := fluid.Clone(ps)
		fluid.DensityAt(r2.Vec{}, ps, mass, h)
		Expect(ps).To(Equal(before))
	})
})

var _ = Describe("DensityField", func() {
	It("honours a custom normalizer", func() {
		f := fluid.DensityField{Mass: 1, SmoothingRadius: 10, Normalize: func(float64) float64 { return 1 }}
		ps := []fluid.Particle{{Position: r2.Vec{X: 5}}}
		Expect(f.At(r2.Vec{}, ps)).To(BeNumerically("~", 125, 1e-9))
	})

	Describe("Grid", func() {
		box := r2.Box{Min: r2.Vec{X: -10, Y: -10}, Max: r2.Vec{X: 10, Y: 10}}

		It("samples cell centres with row 0 at the top", func() {
			f := fluid.DensityField{Mass: 1, SmoothingRadius: 5}
			ps := []fluid.Particle{{Position: r2.Vec{X: -5, Y: 5}}}
			grid := f.Grid(ps, box, 2, 2)

			Expect(grid).To(HaveLen(2))
			Expect(grid[0]).To(HaveLen(2))
			Expect(grid[0][0]).To(BeNumerically("~", 125/(math.Pi*25), 1e-9))
			Expect(grid[0][1]).To(BeZero())
			Expect(grid[1][0]).To(BeZero())
			Expect(grid[1][1]).To(BeZero())
		})

		It("returns nil for an empty lattice", func() {
			f := fluid.DensityField{Mass: 1, SmoothingRadius: 5}
			Expect(f.Grid(nil, box, 0, 3)).To(BeNil())
		})
	})
})
