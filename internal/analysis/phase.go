package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/orbsim/internal/orbit"
)

var (
	ErrAxis    = errors.New("analysis: axis must be x or y")
	ErrOrbiter = errors.New("analysis: orbiter index out of range")
)

// PhasePoint is one recorded (position, velocity) pair on a single axis.
type PhasePoint struct {
	Frame int
	Pos   float64
	Vel   float64
	Reset bool
}

type Portrait struct {
	Index  int
	Axis   string
	Points []PhasePoint
}

// PhasePortrait collects the position and velocity of orbiter idx along axis
// ("x" or "y") from every snapshot.
func PhasePortrait(snaps []orbit.Snapshot, idx int, axis string) (*Portrait, error) {
	if axis != "x" && axis != "y" {
		return nil, fmt.Errorf("%w, got %q", ErrAxis, axis)
	}

	p := &Portrait{
		Index:  idx,
		Axis:   axis,
		Points: make([]PhasePoint, 0, len(snaps)),
	}
	for _, snap := range snaps {
		if idx < 0 || idx >= len(snap.Orbiters) {
			return nil, fmt.Errorf("%w: %d of %d at frame %d", ErrOrbiter, idx, len(snap.Orbiters), snap.Frame)
		}
		o := snap.Orbiters[idx]
		pt := PhasePoint{Frame: snap.Frame, Pos: o.Pos.X, Vel: o.Vel.X, Reset: snap.Reset}
		if axis == "y" {
			pt.Pos, pt.Vel = o.Pos.Y, o.Vel.Y
		}
		p.Points = append(p.Points, pt)
	}
	return p, nil
}

// Cycles splits the portrait at resets, since position jumps there.
func (p *Portrait) Cycles() [][]PhasePoint {
	var cycles [][]PhasePoint
	start := 0
	for i, pt := range p.Points {
		if pt.Reset && i > start {
			cycles = append(cycles, p.Points[start:i])
			start = i
		}
	}
	if start < len(p.Points) {
		cycles = append(cycles, p.Points[start:])
	}
	return cycles
}

// ASCII plots position across and velocity up. Points are drawn '.', 'o' and
// '●' by thirds of the recording so direction is visible.
func (p *Portrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].Pos, p.Points[0].Pos
	minY, maxY := p.Points[0].Vel, p.Points[0].Vel
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.Pos), max(maxX, pt.Pos)
		minY, maxY = min(minY, pt.Vel), max(maxY, pt.Vel)
	}
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// zero velocity line
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := range canvas[row] {
			canvas[row][col] = '─'
		}
	}

	n := len(p.Points)
	for i, pt := range p.Points {
		col := int((pt.Pos - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Vel-minY)/rangeY*float64(height-1))
		switch {
		case i < n/3:
			canvas[row][col] = '.'
		case i < 2*n/3:
			canvas[row][col] = 'o'
		default:
			canvas[row][col] = '●'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
