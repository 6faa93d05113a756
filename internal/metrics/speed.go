package metrics

import (
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
)

// MeanSpeed averages orbiter speed over every orbiter and frame observed.
type MeanSpeed struct {
	name    string
	samples int
	total   float64
	current float64
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(f *orbit.Field, frame int, reset bool) {
	n := f.Len()
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += f.At(i).Vel.Len()
	}
	m.current = sum / float64(n)
	m.total += sum
	m.samples += n
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanSpeed) Current() float64 { return m.current }

func (m *MeanSpeed) Reset() {
	m.samples = 0
	m.total = 0
	m.current = 0
}

type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(f *orbit.Field, frame int, reset bool) {
	for i := 0; i < f.Len(); i++ {
		m.max = math.Max(m.max, f.At(i).Vel.Len())
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }
