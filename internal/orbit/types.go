package orbit

import (
	"fmt"
	"math"
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsValid() bool        { return !isBad(v.X) && !isBad(v.Y) }
func (v Vec2) String() string       { return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y) }
func isBad(x float64) bool          { return math.IsNaN(x) || math.IsInf(x, 0) }

// Orbiter is a point with a velocity. It has no identity beyond its slot.
type Orbiter struct {
	Pos Vec2
	Vel Vec2
}

// Tail is the far end of the orbiter's trail segment.
func (o Orbiter) Tail(trail float64) Vec2 {
	return o.Pos.Add(o.Vel.Scale(trail))
}

// Box returns the axis-aligned corners enclosing the trail segment.
func (o Orbiter) Box(trail float64) (lo, hi Vec2) {
	t := o.Tail(trail)
	lo = Vec2{math.Min(o.Pos.X, t.X), math.Min(o.Pos.Y, t.Y)}
	hi = Vec2{math.Max(o.Pos.X, t.X), math.Max(o.Pos.Y, t.Y)}
	return lo, hi
}

// Bounds is the coordinate range positions are drawn from on reset.
type Bounds struct {
	Width  float64
	Height float64
}

func (b Bounds) Validate() error {
	if !(b.Width > 0) || !(b.Height > 0) {
		return fmt.Errorf("%w: got %gx%g", ErrBounds, b.Width, b.Height)
	}
	return nil
}

func (b Bounds) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Mode selects which way a pairwise comparison pushes the two orbiters.
type Mode int

const (
	// Repel moves the orbiter with the smaller coordinate further down the axis.
	Repel Mode = iota
	// Attract moves the orbiter with the smaller coordinate toward the larger one.
	Attract
)

func (m Mode) String() string {
	switch m {
	case Repel:
		return "repel"
	case Attract:
		return "attract"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "repel":
		return Repel, nil
	case "attract":
		return Attract, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

func (m Mode) sign() float64 {
	if m == Attract {
		return -1
	}
	return 1
}

// Style describes how a frontend draws a field.
type Style struct {
	Trail     float64
	Thickness float64
	Tracked   int // -1 for none
}

func (s Style) IsTracked(i int) bool { return s.Tracked >= 0 && s.Tracked == i }

// Snapshot is an immutable copy of a field at a frame.
type Snapshot struct {
	Frame    int
	Reset    bool
	Orbiters []Orbiter
}

// Centroid returns the mean position of the orbiters.
func Centroid(os []Orbiter) Vec2 {
	if len(os) == 0 {
		return Vec2{}
	}
	var c Vec2
	for _, o := range os {
		c = c.Add(o.Pos)
	}
	return c.Scale(1 / float64(len(os)))
}

// Spread is the RMS distance of the orbiters from their centroid.
func Spread(os []Orbiter) float64 {
	if len(os) == 0 {
		return 0
	}
	c := Centroid(os)
	sum := 0.0
	for _, o := range os {
		d := o.Pos.Sub(c)
		sum += d.X*d.X + d.Y*d.Y
	}
	return math.Sqrt(sum / float64(len(os)))
}
