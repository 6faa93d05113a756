// Package audio plays sound driven by the field: a short chime on every
// reset, or a continuous pad whose brightness follows the spread.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/san-kum/orbsim/internal/orbit"
)

const cueRate = beep.SampleRate(44100)

// Cue is a sim observer that chimes once per reset.
type Cue struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	freq        float64
	length      time.Duration
	initialized bool
	played      int
}

func NewCue(freq float64, length time.Duration) *Cue {
	return &Cue{
		mixer:  &beep.Mixer{},
		freq:   freq,
		length: length,
	}
}

// Initialize opens the speaker. Until it succeeds resets are counted but
// silent.
func (c *Cue) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(cueRate, cueRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

func (c *Cue) OnFrame(f *orbit.Field, frame int, reset bool) {
	if !reset {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.played++
	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Add(beep.Take(cueRate.N(c.length), NewChime(cueRate, c.freq, c.length)))
	speaker.Unlock()
}

// Played is the number of resets observed.
func (c *Cue) Played() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played
}

func (c *Cue) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}

// Chime is a sine with a short attack and an exponential decay over length.
type Chime struct {
	sr    beep.SampleRate
	freq  float64
	total int
	pos   int
}

func NewChime(sr beep.SampleRate, freq float64, length time.Duration) *Chime {
	return &Chime{sr: sr, freq: freq, total: max(1, sr.N(length))}
}

func (g *Chime) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		attack := math.Min(t/0.005, 1.0)
		decay := math.Exp(-5 * float64(g.pos) / float64(g.total))
		sample := 0.25 * attack * decay * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Chime) Err() error {
	return nil
}
