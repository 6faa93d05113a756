package metrics

import (
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
)

// Spread is the RMS distance of the orbiters from their centroid, averaged
// over observed frames.
type Spread struct {
	name    string
	samples int
	total   float64
	current float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(f *orbit.Field, frame int, reset bool) {
	s.current = orbit.Spread(f.Orbiters())
	s.total += s.current
	s.samples++
}

func (s *Spread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *Spread) Current() float64 { return s.current }

func (s *Spread) Reset() {
	s.samples = 0
	s.total = 0
	s.current = 0
}

type MaxSpread struct {
	name string
	max  float64
}

func NewMaxSpread() *MaxSpread {
	return &MaxSpread{name: "max_spread"}
}

func (m *MaxSpread) Name() string { return m.name }

func (m *MaxSpread) Observe(f *orbit.Field, frame int, reset bool) {
	m.max = math.Max(m.max, orbit.Spread(f.Orbiters()))
}

func (m *MaxSpread) Value() float64 { return m.max }
func (m *MaxSpread) Reset()         { m.max = 0 }
