package fluid_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fluidsim/internal/fluid"
)

type countingForce struct{ calls int }

func (c *countingForce) Apply(p *fluid.Particle, dt float64) { c.calls++ }

var _ = Describe("Step", func() {
	const dt = 1.0 / 60

	var (
		walls  []fluid.Wall
		params fluid.Params
	)

	BeforeEach(func() {
		var err error
		walls, err = fluid.NewBoxWalls(fluid.DefaultBounds(), thickness)
		Expect(err).NotTo(HaveOccurred())
		params = fluid.Params{ParticleRadius: radius, WallThickness: thickness, Restitution: restitution}
	})

	It("rejects an invalid dt before mutating anything", func() {
		ps := []fluid.Particle{{Position: r2.Vec{X: 1}, Velocity: r2.Vec{X: 5}}}
		before := fluid.Clone(ps)
		Expect(fluid.Step(ps, walls, params, math.NaN())).To(MatchError(fluid.ErrInvalidTimeStep))
		Expect(fluid.Step(ps, walls, params, -dt)).To(MatchError(fluid.ErrInvalidTimeStep))
		Expect(ps).To(Equal(before))
	})

	It("fails visibly on a corrupted particle", func() {
		ps := []fluid.Particle{
			{Position: r2.Vec{X: 1}, Velocity: r2.Vec{X: 5}},
			{Position: r2.Vec{X: 2}, Velocity: r2.Vec{X: math.NaN()}},
		}
		before := fluid.Clone(ps)

		err := fluid.Step(ps, walls, params, dt)
		Expect(err).To(MatchError(fluid.ErrInvalidState))

		var stepErr *fluid.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Particle).To(Equal(1))
		Expect(ps[0]).To(Equal(before[0]))
	})

	It("resolves walls against post-integration positions", func() {
		ps := []fluid.Particle{{Position: r2.Vec{X: -292}, Velocity: r2.Vec{X: -120}}}
		Expect(fluid.Step(ps, walls, params, dt)).To(Succeed())
		Expect(ps[0].Velocity.X).To(BeNumerically("~", 48, 1e-9))
		Expect(ps[0].Position.X).To(BeNumerically("~", -294+thickness, 1e-9))
	})

	It("integrates without touching velocity when nothing collides", func() {
		ps := []fluid.Particle{{Velocity: r2.Vec{X: 60, Y: -30}}}
		Expect(fluid.Step(ps, walls, params, 0.5)).To(Succeed())
		Expect(ps[0].Position).To(Equal(r2.Vec{X: 30, Y: -15}))
		Expect(ps[0].Velocity).To(Equal(r2.Vec{X: 60, Y: -30}))
	})

	Context("gravity hook", func() {
		It("is a no-op while disabled", func() {
			params.Gravity = fluid.Gravity{Strength: 1}
			ps := []fluid.Particle{{}}
			Expect(fluid.Step(ps, walls, params, dt)).To(Succeed())
			Expect(ps[0].Velocity).To(Equal(r2.Vec{}))
		})

		It("accelerates downward once enabled", func() {
			params.Gravity = fluid.Gravity{Strength: 1, Enabled: true}
			ps := []fluid.Particle{{}}
			Expect(fluid.Step(ps, walls, params, dt)).To(Succeed())
			Expect(ps[0].Velocity.Y).To(BeNumerically("~", -200*dt, 1e-12))
			Expect(ps[0].Position.Y).To(BeZero())
		})
	})

	It("runs extra forces once per particle", func() {
		f := &countingForce{}
		params.Forces = []fluid.Force{f}
		ps := make([]fluid.Particle, 5)
		Expect(fluid.Step(ps, walls, params, dt)).To(Succeed())
		Expect(f.calls).To(Equal(5))
	})

	Describe("a full run", func() {
		bounds := fluid.DefaultBounds()

		run := func(ps []fluid.Particle, ticks int) {
			for i := 0; i < ticks; i++ {
				Expect(fluid.Step(ps, walls, params, dt)).To(Succeed())
			}
		}

		It("keeps a resting grid in place", func() {
			ps := fluid.SpawnGrid(fluid.SpawnOptions{Count: 36, Radius: radius, Spacing: 0.5, Mass: 1})
			before := fluid.Clone(ps)
			run(ps, 100)
			Expect(ps).To(Equal(before))
		})

		It("stays inside the walls without gaining energy", func() {
			ps := fluid.SpawnGrid(fluid.SpawnOptions{
				Count: 36, Radius: radius, Spacing: 0.5, Mass: 1,
				InitialSpeed: 240, Seed: 7,
			})
			initial := make([]float64, len(ps))
			for i := range ps {
				initial[i] = ps[i].Speed()
			}

			for tick := 0; tick < 100; tick++ {
				run(ps, 1)
				for i := range ps {
					Expect(bounds.Contains(ps[i].Position, thickness)).To(BeTrue(),
						"tick %d particle %d at %v", tick, i, ps[i].Position)
					Expect(ps[i].Speed()).To(BeNumerically("<=", initial[i]+1e-9))
				}
			}
		})
	})
})
