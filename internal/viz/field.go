package viz

import (
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
)

// DrawField draws every orbiter as its trail segment. The tracked orbiter
// also gets its segment box outlined. Segments are clipped to the canvas.
func DrawField(c *Canvas, f *orbit.Field, b orbit.Bounds, style orbit.Style) {
	w, h := float64(c.DotWidth()), float64(c.DotHeight())
	for i := 0; i < f.Len(); i++ {
		o := f.At(i)
		tail := o.Tail(style.Trail)
		if !o.Pos.IsValid() || !tail.IsValid() {
			continue
		}
		fx0, fy0 := toDots(c, b, o.Pos)
		fx1, fy1 := toDots(c, b, tail)
		fx0, fy0, fx1, fy1, ok := clipSegment(fx0, fy0, fx1, fy1, w, h)
		if !ok {
			continue
		}
		c.DrawLine(floor(fx0), floor(fy0), floor(fx1), floor(fy1))

		if style.IsTracked(i) {
			lo, hi := o.Box(style.Trail)
			bx0, by0 := toDots(c, b, lo)
			bx1, by1 := toDots(c, b, hi)
			// edges pinned just outside the canvas stay invisible
			c.DrawRect(
				floor(clamp(bx0, 0, w+1))-1, floor(clamp(by0, 0, h+1))-1,
				floor(clamp(bx1, -1, w))+1, floor(clamp(by1, -1, h))+1,
			)
		}
	}
}

// toDots maps a world position inside b to canvas dot coordinates.
func toDots(c *Canvas, b orbit.Bounds, p orbit.Vec2) (float64, float64) {
	return p.X / b.Width * float64(c.DotWidth()), p.Y / b.Height * float64(c.DotHeight())
}

func floor(v float64) int { return int(math.Floor(v)) }

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

// clipSegment clips a segment to [0, w] x [0, h] (Liang-Barsky). ok is false
// when nothing of it is inside.
func clipSegment(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0, w - x0, y0, h - y0}

	t0, t1 := 0.0, 1.0
	for k := range p {
		if p[k] == 0 {
			if q[k] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[k] / p[k]
		if p[k] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
