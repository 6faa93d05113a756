package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/san-kum/orbsim/internal/orbit"
)

var ErrNoOrbiter = errors.New("export: orbiter index out of range")

type Options struct {
	Scale      float64
	Style      orbit.Style
	Background string
	Foreground string
	Accent     string
}

// DefaultOptions draws light segments on the window's dark background.
func DefaultOptions(style orbit.Style) Options {
	return Options{
		Scale:      1,
		Style:      style,
		Background: "fill:rgb(40,40,40)",
		Foreground: "rgb(245,245,245)",
		Accent:     "rgb(255,110,64)",
	}
}

// errWriter keeps the first write error; svgo itself discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, nil
}

func px(v, scale float64) int { return int(math.Round(v * scale)) }

func start(w io.Writer, b orbit.Bounds, opt Options, title string) (*svg.SVG, *errWriter) {
	if opt.Scale <= 0 {
		opt.Scale = 1
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	width, height := px(b.Width, opt.Scale), px(b.Height, opt.Scale)
	canvas.Start(width, height)
	canvas.Title(title)
	canvas.Rect(0, 0, width, height, opt.Background)
	return canvas, ew
}

// SnapshotSVG draws every orbiter of snap as its trail segment. The tracked
// orbiter, if any, is drawn in the accent color with its box outlined.
func SnapshotSVG(w io.Writer, snap orbit.Snapshot, b orbit.Bounds, opt Options) error {
	if opt.Scale <= 0 {
		opt.Scale = 1
	}
	canvas, ew := start(w, b, opt, fmt.Sprintf("frame %d", snap.Frame))

	thickness := math.Max(opt.Style.Thickness*opt.Scale, 1)
	canvas.Gstyle(fmt.Sprintf("stroke:%s; stroke-width:%.1f; stroke-linecap:round", opt.Foreground, thickness))
	for i, o := range snap.Orbiters {
		if opt.Style.IsTracked(i) {
			continue
		}
		tail := o.Tail(opt.Style.Trail)
		canvas.Line(px(o.Pos.X, opt.Scale), px(o.Pos.Y, opt.Scale), px(tail.X, opt.Scale), px(tail.Y, opt.Scale))
	}
	canvas.Gend()

	if t := opt.Style.Tracked; t >= 0 && t < len(snap.Orbiters) {
		o := snap.Orbiters[t]
		tail := o.Tail(opt.Style.Trail)
		canvas.Line(px(o.Pos.X, opt.Scale), px(o.Pos.Y, opt.Scale), px(tail.X, opt.Scale), px(tail.Y, opt.Scale),
			fmt.Sprintf("stroke:%s; stroke-width:%.1f", opt.Accent, thickness))

		lo, hi := o.Box(opt.Style.Trail)
		pad := thickness
		x, y := px(lo.X, opt.Scale)-int(pad), px(lo.Y, opt.Scale)-int(pad)
		bw := px(hi.X, opt.Scale) - px(lo.X, opt.Scale) + 2*int(pad)
		bh := px(hi.Y, opt.Scale) - px(lo.Y, opt.Scale) + 2*int(pad)
		canvas.Rect(x, y, bw, bh, fmt.Sprintf("fill:none; stroke:%s; stroke-width:1", opt.Accent))
	}

	canvas.End()
	return ew.err
}

// TrajectorySVG draws the path of one orbiter across snaps. A reset starts a
// new polyline since positions jump.
func TrajectorySVG(w io.Writer, snaps []orbit.Snapshot, idx int, b orbit.Bounds, opt Options) error {
	if opt.Scale <= 0 {
		opt.Scale = 1
	}
	for _, snap := range snaps {
		if idx < 0 || idx >= len(snap.Orbiters) {
			return fmt.Errorf("%w: %d of %d at frame %d", ErrNoOrbiter, idx, len(snap.Orbiters), snap.Frame)
		}
	}

	canvas, ew := start(w, b, opt, fmt.Sprintf("orbiter %d", idx))
	canvas.Gstyle(fmt.Sprintf("fill:none; stroke:%s; stroke-width:1", opt.Accent))

	var xs, ys []int
	flush := func() {
		if len(xs) > 1 {
			canvas.Polyline(xs, ys)
		}
		xs, ys = nil, nil
	}
	for _, snap := range snaps {
		if snap.Reset {
			flush()
		}
		p := snap.Orbiters[idx].Pos
		xs = append(xs, px(p.X, opt.Scale))
		ys = append(ys, px(p.Y, opt.Scale))
	}
	flush()
	canvas.Gend()

	for _, snap := range snaps {
		if snap.Reset {
			p := snap.Orbiters[idx].Pos
			canvas.Circle(px(p.X, opt.Scale), px(p.Y, opt.Scale), 3, "fill:"+opt.Foreground)
		}
	}

	canvas.End()
	return ew.err
}
