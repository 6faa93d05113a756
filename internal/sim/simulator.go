package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/orbsim/internal/orbit"
)

// Simulator advances one field through its reset cycle. It is not safe for
// concurrent use.
type Simulator struct {
	field     *orbit.Field
	cycle     *orbit.Cycle
	sampler   orbit.Sampler
	bounds    orbit.Bounds
	frame     int
	resets    int
	metrics   []Metric
	observers []Observer
}

func New(f *orbit.Field, c *orbit.Cycle, s orbit.Sampler, b orbit.Bounds) *Simulator {
	return &Simulator{
		field:     f,
		cycle:     c,
		sampler:   s,
		bounds:    b,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Field() *orbit.Field  { return s.field }
func (s *Simulator) Cycle() *orbit.Cycle  { return s.cycle }
func (s *Simulator) Bounds() orbit.Bounds { return s.bounds }
func (s *Simulator) Frame() int           { return s.frame }
func (s *Simulator) Resets() int          { return s.resets }

// ForceReset makes the next Step reset the field.
func (s *Simulator) ForceReset() { s.cycle.Force() }

// Step advances the field by one frame, resetting it when the cycle is due.
// It reports whether the frame was a reset.
func (s *Simulator) Step() bool {
	reset := s.cycle.Advance(s.field, s.sampler, s.bounds)
	if reset {
		s.resets++
	}
	for _, m := range s.metrics {
		m.Observe(s.field, s.frame, reset)
	}
	for _, obs := range s.observers {
		obs.OnFrame(s.field, s.frame, reset)
	}
	s.frame++
	return reset
}

// Run advances cfg.Frames frames with no frontend attached. On cancellation
// it returns the partial result together with the context error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Metrics: make(map[string]float64),
		Series:  make(map[string][]float64),
	}
	if cfg.Stride > 0 {
		result.Snapshots = make([]orbit.Snapshot, 0, cfg.Frames/cfg.Stride+1)
	}

	series := make([]Series, 0)
	for _, m := range s.metrics {
		m.Reset()
		if sm, ok := m.(Series); ok {
			series = append(series, sm)
			result.Series[m.Name()] = make([]float64, 0, cfg.Frames)
		}
	}

	pending := false
	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		frame := s.frame
		reset := s.Step()
		result.Frames++
		if reset {
			result.Resets++
			result.ResetFrames = append(result.ResetFrames, frame)
			pending = true
		}

		if !s.field.IsValid() {
			s.collect(result)
			return result, SimError{Frame: frame, Message: "non-finite orbiter state", Err: ErrInvalidField}
		}

		// a snapshot is flagged when any reset happened since the previous one
		if cfg.Stride > 0 && i%cfg.Stride == 0 {
			result.Snapshots = append(result.Snapshots, s.field.Snapshot(frame, pending))
			pending = false
		}
		for _, sm := range series {
			result.Series[sm.Name()] = append(result.Series[sm.Name()], sm.Current())
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Loop drives an interactive frontend: poll, advance, draw, count, pace. It
// returns nil once the frontend reports quit. pacer and meter may be nil.
func (s *Simulator) Loop(ctx context.Context, fe Frontend, pacer *Pacer, meter *FPSMeter) error {
	for {
		if pacer != nil {
			pacer.Begin()
		}
		if !fe.Poll() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Step()
		if err := fe.Draw(s.field); err != nil {
			return fmt.Errorf("draw frame %d: %w", s.frame-1, err)
		}

		if meter != nil {
			meter.Tick()
		}
		if pacer != nil {
			pacer.Wait()
		}
	}
}

func validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("%w, got %d", ErrFrames, cfg.Frames)
	}
	if cfg.Stride < 0 {
		return fmt.Errorf("%w, got %d", ErrStride, cfg.Stride)
	}
	return nil
}
