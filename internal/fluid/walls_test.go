package fluid_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fluidsim/internal/fluid"
)

const (
	radius      = 5.0
	thickness   = 5.0
	restitution = 0.4
)

func box(minX, minY, maxX, maxY float64) r2.Box {
	return r2.Box{Min: r2.Vec{X: minX, Y: minY}, Max: r2.Vec{X: maxX, Y: maxY}}
}

var _ = Describe("NewWall", func() {
	DescribeTable("rejects degenerate half-extents",
		func(he r2.Vec) {
			_, err := fluid.NewWall(fluid.Left, r2.Vec{}, he)
			Expect(err).To(MatchError(fluid.ErrDegenerateGeometry))
		},
		Entry("zero width", r2.Vec{X: 0, Y: 1}),
		Entry("zero height", r2.Vec{X: 1, Y: 0}),
		Entry("negative", r2.Vec{X: -1, Y: 1}),
		Entry("NaN", r2.Vec{X: math.NaN(), Y: 1}),
		Entry("Inf", r2.Vec{X: 1, Y: math.Inf(1)}),
	)

	It("keeps valid geometry", func() {
		w, err := fluid.NewWall(fluid.Top, r2.Vec{Y: 10}, r2.Vec{X: 3, Y: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Box()).To(Equal(box(-3, 9, 3, 11)))
	})
})

var _ = Describe("NewBoxWalls", func() {
	It("builds four walls in resolution order", func() {
		walls, err := fluid.NewBoxWalls(fluid.DefaultBounds(), thickness)
		Expect(err).NotTo(HaveOccurred())
		Expect(walls).To(HaveLen(4))

		sides := []fluid.Side{walls[0].Side, walls[1].Side, walls[2].Side, walls[3].Side}
		Expect(sides).To(Equal([]fluid.Side{fluid.Left, fluid.Right, fluid.Top, fluid.Bottom}))

		Expect(walls[0].Center).To(Equal(r2.Vec{X: -300, Y: 0}))
		Expect(walls[0].HalfExtent).To(Equal(r2.Vec{X: 2.5, Y: 252.5}))
		Expect(walls[1].Center).To(Equal(r2.Vec{X: 300, Y: 0}))
		Expect(walls[2].Center).To(Equal(r2.Vec{X: 0, Y: 250}))
		Expect(walls[2].HalfExtent).To(Equal(r2.Vec{X: 302.5, Y: 2.5}))
		Expect(walls[3].Center).To(Equal(r2.Vec{X: 0, Y: -250}))
	})

	It("rejects zero thickness", func() {
		_, err := fluid.NewBoxWalls(fluid.DefaultBounds(), 0)
		Expect(err).To(MatchError(fluid.ErrDegenerateGeometry))
	})

	It("rejects inverted bounds", func() {
		_, err := fluid.NewBoxWalls(fluid.Bounds{Left: 10, Right: -10, Bottom: -1, Top: 1}, thickness)
		Expect(err).To(MatchError(fluid.ErrDegenerateGeometry))
	})
})

var _ = Describe("Classify", func() {
	leftWall := box(-302.5, -252.5, -297.5, 252.5)
	rightWall := box(297.5, -252.5, 302.5, 252.5)
	topWall := box(-302.5, 247.5, 302.5, 252.5)
	bottomWall := box(-302.5, -252.5, 302.5, -247.5)

	DescribeTable("names the penetrated face",
		func(pos r2.Vec, wall r2.Box, want fluid.Face) {
			Expect(fluid.Classify(fluid.ParticleBox(pos, radius), wall)).To(Equal(want))
		},
		Entry("clear of the wall", r2.Vec{}, leftWall, fluid.FaceNone),
		Entry("edges just touching", r2.Vec{X: -292.5}, leftWall, fluid.FaceNone),
		Entry("left", r2.Vec{X: -293.5}, leftWall, fluid.FaceLeft),
		Entry("right", r2.Vec{X: 293.5}, rightWall, fluid.FaceRight),
		Entry("top", r2.Vec{Y: 243.5}, topWall, fluid.FaceTop),
		Entry("bottom", r2.Vec{Y: -243.5}, bottomWall, fluid.FaceBottom),
		Entry("straddling the wall", r2.Vec{X: -300}, leftWall, fluid.FaceInside),
	)

	It("prefers the axis with the smaller penetration", func() {
		wall := box(0, 0, 10, 10)
		Expect(fluid.Classify(box(-5, 9, 2, 12), wall)).To(Equal(fluid.FaceBottom))
		Expect(fluid.Classify(box(-5, 8, 3, 12), wall)).To(Equal(fluid.FaceBottom))
		Expect(fluid.Classify(box(-5, 7, 2, 12), wall)).To(Equal(fluid.FaceRight))
	})

	It("breaks exact ties toward x", func() {
		Expect(fluid.Classify(box(-5, 8, 2, 12), box(0, 0, 10, 10))).To(Equal(fluid.FaceRight))
	})
})

var _ = Describe("ResolveCollisions", func() {
	var walls []fluid.Wall

	BeforeEach(func() {
		var err error
		walls, err = fluid.NewBoxWalls(fluid.DefaultBounds(), thickness)
		Expect(err).NotTo(HaveOccurred())
	})

	resolve := func(p fluid.Particle) fluid.Particle {
		fluid.ResolveCollisions(&p, radius, walls, thickness, restitution)
		return p
	}

	It("bounces off the left wall with restitution", func() {
		p := resolve(fluid.Particle{Position: r2.Vec{X: -293.5}, Velocity: r2.Vec{X: -10}})
		Expect(p.Velocity.X).To(BeNumerically("~", 4.0, 1e-12))
		Expect(p.Velocity.Y).To(BeZero())
		Expect(p.Position.X).To(Equal(-293.5 + thickness))
	})

	It("pushes back from the right wall", func() {
		p := resolve(fluid.Particle{Position: r2.Vec{X: 293.5}, Velocity: r2.Vec{X: 10}})
		Expect(p.Velocity.X).To(BeNumerically("~", -4.0, 1e-12))
		Expect(p.Position.X).To(Equal(293.5 - thickness))
	})

	It("pushes back from the top wall", func() {
		p := resolve(fluid.Particle{Position: r2.Vec{Y: 243.5}, Velocity: r2.Vec{Y: 10}})
		Expect(p.Velocity.Y).To(BeNumerically("~", -4.0, 1e-12))
		Expect(p.Position.Y).To(Equal(243.5 - thickness))
	})

	It("pushes right and top hits inward, never out through the wall", func() {
		b := fluid.DefaultBounds()
		for _, start := range []fluid.Particle{
			{Position: r2.Vec{X: 293.5}, Velocity: r2.Vec{X: 10}},
			{Position: r2.Vec{Y: 243.5}, Velocity: r2.Vec{Y: 10}},
		} {
			p := resolve(start)
			Expect(r2.Norm(r2.Sub(p.Position, r2.Vec{}))).To(BeNumerically("<", r2.Norm(start.Position)))
			Expect(b.Contains(p.Position, 0)).To(BeTrue())
		}
	})

	It("pushes back from the bottom wall", func() {
		p := resolve(fluid.Particle{Position: r2.Vec{Y: -243.5}, Velocity: r2.Vec{Y: -10}})
		Expect(p.Velocity.Y).To(BeNumerically("~", 4.0, 1e-12))
		Expect(p.Position.Y).To(Equal(-243.5 + thickness))
	})

	It("corrects both axes in a corner", func() {
		p := resolve(fluid.Particle{Position: r2.Vec{X: -293.5, Y: -243.5}, Velocity: r2.Vec{X: -10, Y: -10}})
		Expect(p.Velocity.X).To(BeNumerically("~", 4.0, 1e-12))
		Expect(p.Velocity.Y).To(BeNumerically("~", 4.0, 1e-12))
		Expect(p.Position).To(Equal(r2.Vec{X: -288.5, Y: -238.5}))
	})

	It("leaves a particle far from every wall unchanged", func() {
		in := fluid.Particle{Position: r2.Vec{X: 12, Y: -30}, Velocity: r2.Vec{X: 3, Y: 4}, Mass: 1}
		Expect(resolve(in)).To(Equal(in))
	})

	It("does not touch a particle already moving away", func() {
		in := fluid.Particle{Position: r2.Vec{X: -293.5}, Velocity: r2.Vec{X: 10, Y: 1}}
		Expect(resolve(in)).To(Equal(in))
	})

	It("ignores a particle straddling a wall", func() {
		in := fluid.Particle{Position: r2.Vec{X: -300}, Velocity: r2.Vec{X: -10}}
		Expect(resolve(in)).To(Equal(in))
	})

	It("stops the reflected axis with zero restitution", func() {
		p := fluid.Particle{Position: r2.Vec{X: -293.5}, Velocity: r2.Vec{X: -10, Y: 2}}
		fluid.ResolveCollisions(&p, radius, walls, thickness, 0)
		Expect(p.Velocity.X).To(BeNumerically("==", 0))
		Expect(p.Velocity.Y).To(Equal(2.0))
	})

	It("accepts restitution above one", func() {
		p := fluid.Particle{Position: r2.Vec{X: -293.5}, Velocity: r2.Vec{X: -10}}
		fluid.ResolveCollisions(&p, radius, walls, thickness, 1.5)
		Expect(p.Velocity.X).To(BeNumerically("~", 15, 1e-12))
	})

	It("matches WallSystem.ResolveAll", func() {
		ps := []fluid.Particle{
			{Position: r2.Vec{X: -293.5}, Velocity: r2.Vec{X: -10}},
			{Position: r2.Vec{Y: 243.5}, Velocity: r2.Vec{Y: 10}},
		}
		ws := fluid.WallSystem{Walls: walls, Thickness: thickness, Restitution: restitution, ParticleRadius: radius}
		ws.ResolveAll(ps)
		Expect(ps[0]).To(Equal(resolve(fluid.Particle{Position: r2.Vec{X: -293.5}, Velocity: r2.Vec{X: -10}})))
		Expect(ps[1]).To(Equal(resolve(fluid.Particle{Position: r2.Vec{Y: 243.5}, Velocity: r2.Vec{Y: 10}})))
	})
})
