package orbit_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbsim/internal/orbit"
)

var _ = Describe("Cycle", func() {
	var (
		f *orbit.Field
		s orbit.Sampler
		b orbit.Bounds
	)

	BeforeEach(func() {
		var err error
		f, err = orbit.NewField(8, 0.005)
		Expect(err).NotTo(HaveOccurred())
		s = orbit.NewRandSampler(5)
		b = orbit.Bounds{Width: 768, Height: 768}
	})

	It("derives the threshold from frame rate and seconds", func() {
		Expect(orbit.ThresholdFor(60, 8)).To(Equal(480))
		Expect(orbit.ThresholdFor(30, 0.5)).To(Equal(15))
		Expect(orbit.ThresholdFor(60, math.NaN())).To(Equal(0))
		Expect(orbit.ThresholdFor(60, math.Inf(1))).To(Equal(orbit.MaxThreshold))
		Expect(orbit.ThresholdFor(60, 1e300)).To(Equal(orbit.MaxThreshold))
	})

	It("resets on the very first frame", func() {
		c := orbit.NewCycle(10)
		Expect(c.Due()).To(BeTrue())
		Expect(c.Advance(f, s, b)).To(BeTrue())
		Expect(c.Counter()).To(Equal(0))
	})

	It("runs exactly threshold+1 updates between consecutive resets", func() {
		const threshold = 5
		c := orbit.NewCycle(threshold)

		var resets []int
		for frame := 0; frame < 60; frame++ {
			if c.Advance(f, s, b) {
				resets = append(resets, frame)
			}
		}

		Expect(len(resets)).To(BeNumerically(">", 3))
		Expect(resets[0]).To(Equal(0))
		for i := 1; i < len(resets); i++ {
			updates := resets[i] - resets[i-1] - 1
			Expect(updates).To(Equal(threshold + 1))
		}
	})

	It("counts down the remaining update frames", func() {
		c := orbit.NewCycle(3)
		c.Advance(f, s, b)
		Expect(c.Remaining()).To(Equal(4))
		c.Advance(f, s, b)
		Expect(c.Remaining()).To(Equal(3))
		for c.Remaining() > 0 {
			Expect(c.Advance(f, s, b)).To(BeFalse())
		}
		Expect(c.Due()).To(BeTrue())
	})

	It("resets early when forced", func() {
		c := orbit.NewCycle(100)
		c.Advance(f, s, b)
		c.Advance(f, s, b)
		Expect(f.At(0).Vel).NotTo(Equal(orbit.Vec2{}))

		c.Force()

		Expect(c.Advance(f, s, b)).To(BeTrue())
		Expect(f.At(0).Vel).To(Equal(orbit.Vec2{}))
	})

	It("treats a negative threshold as zero", func() {
		c := orbit.NewCycle(-4)
		Expect(c.Threshold()).To(Equal(0))
		Expect(c.Advance(f, s, b)).To(BeTrue())
		Expect(c.Advance(f, s, b)).To(BeFalse())
		Expect(c.Advance(f, s, b)).To(BeTrue())
	})
})
