package sim

import (
	"fmt"
	"io"
	"time"
)

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Pacer holds a loop to a fixed frame rate by sleeping whatever is left of
// the frame period after the frame's work.
type Pacer struct {
	clock  Clock
	period time.Duration
	start  time.Time
}

// NewPacer returns a pacer for fps frames per second. A non-positive fps
// disables pacing.
func NewPacer(fps int, clock Clock) *Pacer {
	if clock == nil {
		clock = SystemClock
	}
	var period time.Duration
	if fps > 0 {
		period = time.Second / time.Duration(fps)
	}
	return &Pacer{clock: clock, period: period}
}

func (p *Pacer) Period() time.Duration { return p.period }

// Begin marks the start of a frame.
func (p *Pacer) Begin() { p.start = p.clock.Now() }

// Wait sleeps the rest of the frame period measured from Begin and returns
// the time slept. A frame that overran its period does not sleep.
func (p *Pacer) Wait() time.Duration {
	if p.period <= 0 {
		return 0
	}
	elapsed := time.Duration(0)
	if !p.start.IsZero() {
		elapsed = p.clock.Now().Sub(p.start)
	}
	rem := p.period - elapsed
	if rem <= 0 {
		return 0
	}
	p.clock.Sleep(rem)
	return rem
}

// FPSMeter counts frames and rewrites a single console line with the measured
// rate about once per second.
type FPSMeter struct {
	w      io.Writer
	clock  Clock
	window time.Duration
	start  time.Time
	frames int
	rate   float64
}

func NewFPSMeter(w io.Writer, clock Clock) *FPSMeter {
	if clock == nil {
		clock = SystemClock
	}
	return &FPSMeter{w: w, clock: clock, window: time.Second}
}

// Tick records one frame and prints when a full window has elapsed.
func (m *FPSMeter) Tick() {
	now := m.clock.Now()
	if m.start.IsZero() {
		m.start = now
	}
	m.frames++

	elapsed := now.Sub(m.start)
	if elapsed < m.window {
		return
	}
	m.rate = float64(m.frames) / elapsed.Seconds()
	if m.w != nil {
		fmt.Fprintf(m.w, "\rfps: %6.1f", m.rate)
	}
	m.frames = 0
	m.start = now
}

// FPS is the rate measured over the last full window.
func (m *FPSMeter) FPS() float64 { return m.rate }
