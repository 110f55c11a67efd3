package fluid_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/fluid"
)

var _ = Describe("Influence", func() {
	const h = 40.0

	It("peaks at h^3 for zero distance", func() {
		Expect(fluid.Influence(0, h)).To(Equal(h * h * h))
	})

	DescribeTable("is zero at and beyond the smoothing radius",
		func(d float64) {
			Expect(fluid.Influence(d, h)).To(BeZero())
		},
		Entry("at the radius", h),
		Entry("just past", h+1e-9),
		Entry("far away", 1e6),
	)

	It("falls off monotonically inside the radius", func() {
		prev := fluid.Influence(0, h)
		for d := 0.25; d < h; d += 0.25 {
			cur := fluid.Influence(d, h)
			Expect(cur).To(BeNumerically("<=", prev), "d=%v", d)
			Expect(cur).To(BeNumerically(">=", 0))
			prev = cur
		}
	})

	It("uses the linear clamped distance", func() {
		Expect(fluid.Influence(30, h)).To(BeNumerically("~", 1000, 1e-9))
	})
})
