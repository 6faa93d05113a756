package metrics

import (
	"github.com/san-kum/orbsim/internal/orbit"
)

// Containment is the fraction of observed orbiter positions that lie inside
// the reset bounds. Positions are never clamped, so repelling fields drift
// out over a cycle.
type Containment struct {
	name    string
	bounds  orbit.Bounds
	inside  int
	samples int
}

func NewContainment(b orbit.Bounds) *Containment {
	return &Containment{
		name:   "containment",
		bounds: b,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f *orbit.Field, frame int, reset bool) {
	for i := 0; i < f.Len(); i++ {
		c.samples++
		if c.bounds.Contains(f.At(i).Pos) {
			c.inside++
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return float64(c.inside) / float64(c.samples)
}

func (c *Containment) Reset() {
	c.inside = 0
	c.samples = 0
}

type Resets struct {
	name  string
	count int
}

func NewResets() *Resets {
	return &Resets{name: "resets"}
}

func (r *Resets) Name() string { return r.name }

func (r *Resets) Observe(f *orbit.Field, frame int, reset bool) {
	if reset {
		r.count++
	}
}

func (r *Resets) Value() float64 { return float64(r.count) }
func (r *Resets) Reset()         { r.count = 0 }
