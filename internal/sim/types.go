package sim

import (
	"fmt"

	"github.com/san-kum/orbsim/internal/orbit"
)

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(f *orbit.Field, frame int, reset bool)
	Value() float64
	Reset()
}

// Series is a Metric that also reports a per-frame value, recorded into
// Result.Series by Run.
type Series interface {
	Metric
	Current() float64
}

type Observer interface {
	OnFrame(f *orbit.Field, frame int, reset bool)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *orbit.Field, frame int, reset bool)

func (fn ObserverFunc) OnFrame(f *orbit.Field, frame int, reset bool) { fn(f, frame, reset) }

// Frontend polls input and draws the field once per frame. Poll returns false
// when the user asked to quit.
type Frontend interface {
	Poll() bool
	Draw(f *orbit.Field) error
}

type Config struct {
	Frames int
	Stride int // record a snapshot every Stride frames; 0 records none
}

type Result struct {
	Frames      int
	Resets      int
	ResetFrames []int // every frame that reset, regardless of stride
	Snapshots   []orbit.Snapshot
	Metrics     map[string]float64
	Series      map[string][]float64
}

type SimError struct {
	Frame   int
	Message string
	Err     error
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d: %s", e.Frame, e.Message)
}

func (e SimError) Unwrap() error { return e.Err }
