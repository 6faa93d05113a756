package orbit_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbsim/internal/orbit"
)

func randomOrbiters(n int, seed int64) []orbit.Orbiter {
	f, err := orbit.NewField(n, 0)
	Expect(err).NotTo(HaveOccurred())
	f.Reset(orbit.NewRandSampler(seed), orbit.Bounds{Width: 768, Height: 768})
	return f.Orbiters()
}

var _ = Describe("Field", func() {
	Describe("NewField", func() {
		It("rejects an empty field", func() {
			_, err := orbit.NewField(0, 0.005)
			Expect(err).To(MatchError(orbit.ErrEmptyField))
		})

		It("rejects a negative increment", func() {
			_, err := orbit.NewField(4, -1)
			Expect(err).To(MatchError(orbit.ErrIncrement))
		})

		It("starts with zeroed orbiters in repel mode", func() {
			f, err := orbit.NewField(32, 0.005)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Len()).To(Equal(32))
			Expect(f.Mode()).To(Equal(orbit.Repel))
			Expect(f.Stepper().Name()).To(Equal("accumulate"))
			for _, o := range f.Orbiters() {
				Expect(o).To(Equal(orbit.Orbiter{}))
			}
		})
	})

	Describe("Update", func() {
		It("nudges two orbiters apart on x", func() {
			f, err := orbit.FromOrbiters([]orbit.Orbiter{
				{Pos: orbit.Vec2{X: 10, Y: 0}},
				{Pos: orbit.Vec2{X: 20, Y: 0}},
			}, 0.0065)
			Expect(err).NotTo(HaveOccurred())

			f.Update()

			Expect(f.At(0).Vel).To(Equal(orbit.Vec2{X: -0.0065, Y: 0}))
			Expect(f.At(1).Vel).To(Equal(orbit.Vec2{X: 0.0065, Y: 0}))
			Expect(f.At(0).Pos.X).To(BeNumerically("~", 9.9935, 1e-12))
			Expect(f.At(1).Pos.X).To(BeNumerically("~", 20.0065, 1e-12))
			Expect(f.At(0).Pos.Y).To(Equal(0.0))
			Expect(f.At(1).Pos.Y).To(Equal(0.0))
		})

		It("applies the increment once per ordered neighbour on each axis", func() {
			const d = 0.005
			before := randomOrbiters(16, 7)
			f, err := orbit.FromOrbiters(before, d)
			Expect(err).NotTo(HaveOccurred())

			f.Update()

			for i, o := range before {
				var want orbit.Vec2
				for _, p := range before {
					switch {
					case o.Pos.X > p.Pos.X:
						want.X += d
					case o.Pos.X < p.Pos.X:
						want.X -= d
					}
					switch {
					case o.Pos.Y > p.Pos.Y:
						want.Y += d
					case o.Pos.Y < p.Pos.Y:
						want.Y -= d
					}
				}
				got := f.At(i).Vel.Sub(o.Vel)
				Expect(got.X).To(BeNumerically("~", want.X, 1e-12), "orbiter %d x", i)
				Expect(got.Y).To(BeNumerically("~", want.Y, 1e-12), "orbiter %d y", i)
			}
		})

		It("integrates position exactly by the post-update velocity", func() {
			before := randomOrbiters(32, 11)
			before[3].Vel = orbit.Vec2{X: 1.25, Y: -0.5}
			f, err := orbit.FromOrbiters(before, 0.005)
			Expect(err).NotTo(HaveOccurred())

			f.Update()

			for i, o := range before {
				after := f.At(i)
				Expect(after.Pos.X).To(Equal(o.Pos.X + after.Vel.X))
				Expect(after.Pos.Y).To(Equal(o.Pos.Y + after.Vel.Y))
			}
		})

		It("leaves tied coordinates alone", func() {
			f, err := orbit.FromOrbiters([]orbit.Orbiter{
				{Pos: orbit.Vec2{X: 5, Y: 1}},
				{Pos: orbit.Vec2{X: 5, Y: 2}},
			}, 0.01)
			Expect(err).NotTo(HaveOccurred())

			f.Update()

			Expect(f.At(0).Vel.X).To(Equal(0.0))
			Expect(f.At(1).Vel.X).To(Equal(0.0))
			Expect(f.At(0).Vel.Y).To(Equal(-0.01))
			Expect(f.At(1).Vel.Y).To(Equal(0.01))
		})

		It("pulls orbiters together in attract mode", func() {
			f, err := orbit.FromOrbiters([]orbit.Orbiter{
				{Pos: orbit.Vec2{X: 10, Y: 0}},
				{Pos: orbit.Vec2{X: 20, Y: 0}},
			}, 0.005)
			Expect(err).NotTo(HaveOccurred())
			f.SetMode(orbit.Attract)

			f.Update()

			Expect(f.At(0).Vel.X).To(Equal(0.005))
			Expect(f.At(1).Vel.X).To(Equal(-0.005))
		})

		It("does not clamp positions to any bounds", func() {
			f, err := orbit.FromOrbiters([]orbit.Orbiter{
				{Pos: orbit.Vec2{X: 767, Y: 767}, Vel: orbit.Vec2{X: 10, Y: 10}},
			}, 0.005)
			Expect(err).NotTo(HaveOccurred())

			f.Update()

			Expect(f.At(0).Pos).To(Equal(orbit.Vec2{X: 777, Y: 777}))
			Expect(f.Len()).To(Equal(1))
		})
	})

	Describe("Reset", func() {
		It("zeroes velocity and draws positions within bounds", func() {
			b := orbit.Bounds{Width: 768, Height: 400}
			f, err := orbit.FromOrbiters(randomOrbiters(32, 3), 0.005)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 100; i++ {
				f.Update()
			}

			f.Reset(orbit.NewRandSampler(99), b)

			Expect(f.Len()).To(Equal(32))
			for _, o := range f.Orbiters() {
				Expect(o.Vel).To(Equal(orbit.Vec2{}))
				Expect(b.Contains(o.Pos)).To(BeTrue(), "position %v", o.Pos)
			}
		})
	})

	Describe("Snapshot", func() {
		It("is detached from the live field", func() {
			f, err := orbit.FromOrbiters(randomOrbiters(4, 1), 0.005)
			Expect(err).NotTo(HaveOccurred())

			snap := f.Snapshot(12, false)
			f.Update()

			Expect(snap.Frame).To(Equal(12))
			Expect(snap.Orbiters[0].Vel).To(Equal(orbit.Vec2{}))
			Expect(f.At(0).Vel).NotTo(Equal(orbit.Vec2{}))
		})
	})
})

var _ = Describe("Geometry", func() {
	It("computes trail tails and boxes", func() {
		o := orbit.Orbiter{Pos: orbit.Vec2{X: 10, Y: 10}, Vel: orbit.Vec2{X: -1, Y: 2}}
		Expect(o.Tail(4)).To(Equal(orbit.Vec2{X: 6, Y: 18}))
		lo, hi := o.Box(4)
		Expect(lo).To(Equal(orbit.Vec2{X: 6, Y: 10}))
		Expect(hi).To(Equal(orbit.Vec2{X: 10, Y: 18}))
	})

	It("measures spread around the centroid", func() {
		os := []orbit.Orbiter{
			{Pos: orbit.Vec2{X: 0, Y: 0}},
			{Pos: orbit.Vec2{X: 2, Y: 0}},
		}
		Expect(orbit.Centroid(os)).To(Equal(orbit.Vec2{X: 1, Y: 0}))
		Expect(orbit.Spread(os)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(orbit.Spread(nil)).To(Equal(0.0))
	})

	It("validates bounds", func() {
		Expect(orbit.Bounds{Width: 768, Height: 768}.Validate()).To(Succeed())
		Expect(orbit.Bounds{Width: 0, Height: 768}.Validate()).To(MatchError(orbit.ErrBounds))
	})

	It("parses coupling modes", func() {
		m, err := orbit.ParseMode("attract")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(orbit.Attract))

		m, err = orbit.ParseMode("")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(orbit.Repel))

		_, err = orbit.ParseMode("sideways")
		Expect(err).To(MatchError(orbit.ErrUnknownMode))
	})
})
