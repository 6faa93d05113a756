package orbit

import (
	"fmt"
	"math"
)

// Field is a fixed-length set of orbiters. Its length never changes after
// construction: Update mutates it in place and Reset overwrites every slot.
type Field struct {
	orbiters  []Orbiter
	increment float64
	mode      Mode
	stepper   Stepper
}

func NewField(n int, increment float64) (*Field, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrEmptyField, n)
	}
	if increment < 0 || math.IsNaN(increment) || math.IsInf(increment, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrIncrement, increment)
	}
	return &Field{
		orbiters:  make([]Orbiter, n),
		increment: increment,
		mode:      Repel,
		stepper:   NewAccumulate(),
	}, nil
}

// FromOrbiters builds a field holding a copy of os.
func FromOrbiters(os []Orbiter, increment float64) (*Field, error) {
	f, err := NewField(len(os), increment)
	if err != nil {
		return nil, err
	}
	copy(f.orbiters, os)
	return f, nil
}

func (f *Field) Len() int             { return len(f.orbiters) }
func (f *Field) At(i int) Orbiter     { return f.orbiters[i] }
func (f *Field) Increment() float64   { return f.increment }
func (f *Field) Mode() Mode           { return f.mode }
func (f *Field) SetMode(m Mode)       { f.mode = m }
func (f *Field) Stepper() Stepper     { return f.stepper }
func (f *Field) SetStepper(s Stepper) { f.stepper = s }

// Orbiters returns a copy of the current orbiters.
func (f *Field) Orbiters() []Orbiter {
	c := make([]Orbiter, len(f.orbiters))
	copy(c, f.orbiters)
	return c
}

func (f *Field) Snapshot(frame int, reset bool) Snapshot {
	return Snapshot{Frame: frame, Reset: reset, Orbiters: f.Orbiters()}
}

// Update runs one pairwise velocity pass and then integrates every position
// by its post-update velocity.
func (f *Field) Update() {
	f.stepper.Step(f.orbiters, f.mode.sign()*f.increment)
	for i := range f.orbiters {
		o := &f.orbiters[i]
		o.Pos.X += o.Vel.X
		o.Pos.Y += o.Vel.Y
	}
}

// Reset draws every position uniformly over b and zeroes every velocity.
// Draw order is x then y per orbiter, slot by slot.
func (f *Field) Reset(s Sampler, b Bounds) {
	for i := range f.orbiters {
		x := s.Uniform(0, b.Width)
		y := s.Uniform(0, b.Height)
		f.orbiters[i] = Orbiter{Pos: Vec2{x, y}}
	}
}

// IsValid reports whether every coordinate is finite.
func (f *Field) IsValid() bool {
	for _, o := range f.orbiters {
		if !o.Pos.IsValid() || !o.Vel.IsValid() {
			return false
		}
	}
	return true
}

// nudge returns the velocity change for the orbiter at a when compared with
// the orbiter at b. The orbiter at b receives the negation.
func nudge(a, b, d float64) float64 {
	switch {
	case a < b:
		return -d
	case b < a:
		return d
	}
	return 0
}
