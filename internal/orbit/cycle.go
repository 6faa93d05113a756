package orbit

import "math"

// Cycle decides, frame by frame, whether a field is updated or reset.
//
// The counter counts update frames since the last reset. Once it exceeds the
// threshold the next frame resets instead, so exactly threshold+1 update
// frames separate two resets. A new cycle starts past the threshold, making
// the first frame a reset.
type Cycle struct {
	threshold int
	counter   int
}

func NewCycle(threshold int) *Cycle {
	if threshold < 0 {
		threshold = 0
	}
	return &Cycle{threshold: threshold, counter: threshold + 1}
}

// MaxThreshold bounds the frames between resets.
const MaxThreshold = math.MaxInt32

// ThresholdFor converts a reset interval in seconds at a frame rate to a
// frame count, clamped to [0, MaxThreshold].
func ThresholdFor(fps int, seconds float64) int {
	v := float64(fps) * seconds
	switch {
	case !(v >= 0):
		return 0
	case v > MaxThreshold:
		return MaxThreshold
	}
	return int(v)
}

func (c *Cycle) Threshold() int { return c.threshold }
func (c *Cycle) Counter() int   { return c.counter }

// Due reports whether the next Advance resets.
func (c *Cycle) Due() bool { return c.counter > c.threshold }

// Remaining is the number of update frames left before the next reset.
func (c *Cycle) Remaining() int {
	if c.Due() {
		return 0
	}
	return c.threshold + 1 - c.counter
}

// Force makes the next Advance reset.
func (c *Cycle) Force() { c.counter = c.threshold + 1 }

// Advance resets f when due and updates it otherwise. It reports whether a
// reset happened.
func (c *Cycle) Advance(f *Field, s Sampler, b Bounds) bool {
	if c.Due() {
		f.Reset(s, b)
		c.counter = 0
		return true
	}
	f.Update()
	c.counter++
	return false
}
