package fluid_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var _ = Describe("SpawnGrid", func() {
	opts := fluid.SpawnOptions{Count: 36, Radius: 5, Spacing: 0.5, Mass: 1}

	It("lays out the default 6x6 grid", func() {
		ps := fluid.SpawnGrid(opts)
		Expect(ps).To(HaveLen(36))
		Expect(ps[0].Position).To(Equal(r2.Vec{X: -30, Y: 30}))
		Expect(ps[5].Position).To(Equal(r2.Vec{X: -45, Y: 30}))
		Expect(ps[35].Position).To(Equal(r2.Vec{X: -45, Y: -45}))
	})

	It("places every particle at rest with the configured mass", func() {
		for _, p := range fluid.SpawnGrid(opts) {
			Expect(p.Velocity).To(Equal(r2.Vec{}))
			Expect(p.Mass).To(Equal(1.0))
		}
	})

	It("never stacks two particles", func() {
		seen := map[r2.Vec]bool{}
		for _, p := range fluid.SpawnGrid(opts) {
			Expect(seen).NotTo(HaveKey(p.Position))
			seen[p.Position] = true
		}
	})

	It("is deterministic", func() {
		withSpeed := opts
		withSpeed.InitialSpeed = 50
		withSpeed.Seed = 3
		Expect(fluid.SpawnGrid(withSpeed)).To(Equal(fluid.SpawnGrid(withSpeed)))
	})

	It("bounds the initial velocity", func() {
		withSpeed := opts
		withSpeed.InitialSpeed = 50
		for _, p := range fluid.SpawnGrid(withSpeed) {
			Expect(p.Velocity.X).To(BeNumerically("<=", 50))
			Expect(p.Velocity.X).To(BeNumerically(">=", -50))
			Expect(p.Velocity.Y).To(BeNumerically("<=", 50))
			Expect(p.Velocity.Y).To(BeNumerically(">=", -50))
		}
	})

	It("returns nothing for a zero count", func() {
		Expect(fluid.SpawnGrid(fluid.SpawnOptions{Radius: 5})).To(BeEmpty())
	})
})

var _ = Describe("SpawnExtent", func() {
	It("covers the default grid exactly", func() {
		box := fluid.SpawnExtent(fluid.SpawnOptions{Count: 36, Radius: 5, Spacing: 0.5})
		Expect(box.Min).To(Equal(r2.Vec{X: -45, Y: -45}))
		Expect(box.Max).To(Equal(r2.Vec{X: 30, Y: 30}))
	})

	DescribeTable("matches the spawned positions",
		func(count int, spacing float64) {
			opts := fluid.SpawnOptions{Count: count, Radius: 5, Spacing: spacing}
			box := fluid.SpawnExtent(opts)
			ps := fluid.SpawnGrid(opts)

			minX, minY := ps[0].Position.X, ps[0].Position.Y
			maxX, maxY := minX, minY
			for _, p := range ps {
				minX, maxX = min(minX, p.Position.X), max(maxX, p.Position.X)
				minY, maxY = min(minY, p.Position.Y), max(maxY, p.Position.Y)
			}
			Expect(box.Min).To(Equal(r2.Vec{X: minX, Y: minY}))
			Expect(box.Max).To(Equal(r2.Vec{X: maxX, Y: maxY}))
		},
		Entry("single particle", 1, 0.5),
		Entry("ragged last row", 10, 0.5),
		Entry("dense preset", 400, 0.1),
		Entry("oversized grid", 2000, 0.5),
	)

	It("is the zero box for a zero count", func() {
		Expect(fluid.SpawnExtent(fluid.SpawnOptions{Radius: 5})).To(Equal(r2.Box{}))
	})
})
