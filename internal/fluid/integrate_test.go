package fluid_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var _ = Describe("Integrate", func() {
	It("advances position by velocity*dt and keeps velocity", func() {
		p := fluid.Particle{Velocity: r2.Vec{X: 2, Y: 0}, Mass: 1}
		Expect(fluid.Integrate(&p, 0.5)).To(Succeed())
		Expect(p.Position).To(Equal(r2.Vec{X: 1, Y: 0}))
		Expect(p.Velocity).To(Equal(r2.Vec{X: 2, Y: 0}))
	})

	It("accepts a zero step", func() {
		p := fluid.Particle{Position: r2.Vec{X: 4, Y: 4}, Velocity: r2.Vec{X: 9, Y: 9}}
		Expect(fluid.Integrate(&p, 0)).To(Succeed())
		Expect(p.Position).To(Equal(r2.Vec{X: 4, Y: 4}))
	})

	DescribeTable("rejects invalid dt without touching the particle",
		func(dt float64) {
			p := fluid.Particle{Position: r2.Vec{X: 1, Y: 1}, Velocity: r2.Vec{X: 2, Y: 2}}
			err := fluid.Integrate(&p, dt)
			Expect(err).To(MatchError(fluid.ErrInvalidTimeStep))
			Expect(p.Position).To(Equal(r2.Vec{X: 1, Y: 1}))
		},
		Entry("NaN", math.NaN()),
		Entry("negative", -0.01),
		Entry("+Inf", math.Inf(1)),
		Entry("-Inf", math.Inf(-1)),
	)
})
