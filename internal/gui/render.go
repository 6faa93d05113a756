package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orbsim/internal/orbit"
)

// Segment is one orbiter's trail in window coordinates.
type Segment struct {
	From, To rl.Vector2
	Box      rl.Rectangle
	Tracked  bool
}

// Segments converts a field into drawable segments. Window coordinates equal
// field coordinates; positions outside the window are kept and clipped by
// raylib.
func Segments(f *orbit.Field, style orbit.Style) []Segment {
	segs := make([]Segment, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		o := f.At(i)
		tail := o.Tail(style.Trail)
		seg := Segment{
			From:    rl.NewVector2(float32(o.Pos.X), float32(o.Pos.Y)),
			To:      rl.NewVector2(float32(tail.X), float32(tail.Y)),
			Tracked: style.IsTracked(i),
		}
		if seg.Tracked {
			lo, hi := o.Box(style.Trail)
			pad := float32(max(style.Thickness, 1)) + 2
			seg.Box = rl.NewRectangle(
				float32(lo.X)-pad,
				float32(lo.Y)-pad,
				float32(hi.X-lo.X)+2*pad,
				float32(hi.Y-lo.Y)+2*pad,
			)
		}
		segs = append(segs, seg)
	}
	return segs
}

func drawSegment(seg Segment, style orbit.Style) {
	col := ColLine
	if seg.Tracked {
		col = ColAccent
	}

	if style.Thickness <= 1 {
		rl.DrawLineV(seg.From, seg.To, col)
	} else {
		rl.DrawLineEx(seg.From, seg.To, float32(style.Thickness), col)
	}

	if seg.Tracked {
		rl.DrawRectangleLinesEx(seg.Box, 1, rl.Fade(ColAccent, 0.6))
	}
}
