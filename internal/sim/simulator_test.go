package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/orbsim/internal/orbit"
)

var testBounds = orbit.Bounds{Width: 768, Height: 768}

type seqSampler struct{ n float64 }

func (s *seqSampler) Uniform(lo, hi float64) float64 {
	s.n++
	return lo + math.Mod(s.n*37, hi-lo)
}

type nanSampler struct{}

func (nanSampler) Uniform(lo, hi float64) float64 { return math.NaN() }

type frameCounter struct {
	frames int
	resets int
	last   float64
}

func (c *frameCounter) Name() string { return "frames" }
func (c *frameCounter) Observe(f *orbit.Field, frame int, reset bool) {
	c.frames++
	c.last = float64(frame)
	if reset {
		c.resets++
	}
}
func (c *frameCounter) Value() float64   { return float64(c.frames) }
func (c *frameCounter) Reset()           { *c = frameCounter{} }
func (c *frameCounter) Current() float64 { return c.last }

func newTestSim(t *testing.T, n, threshold int) *Simulator {
	t.Helper()
	f, err := orbit.NewField(n, 0.005)
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	return New(f, orbit.NewCycle(threshold), &seqSampler{}, testBounds)
}

func TestSimulatorRun(t *testing.T) {
	s := newTestSim(t, 8, 10)
	m := &frameCounter{}
	s.AddMetric(m)

	result, err := s.Run(context.Background(), Config{Frames: 25, Stride: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Frames != 25 {
		t.Errorf("expected 25 frames, got %d", result.Frames)
	}
	// frames 0, 12 and 24 reset with a threshold of 10
	if result.Resets != 3 {
		t.Errorf("expected 3 resets, got %d", result.Resets)
	}
	if len(result.Snapshots) != 5 {
		t.Errorf("expected 5 snapshots, got %d", len(result.Snapshots))
	}
	if !result.Snapshots[0].Reset || result.Snapshots[0].Frame != 0 {
		t.Errorf("first snapshot should be the reset frame, got %+v", result.Snapshots[0])
	}
	if result.Metrics["frames"] != 25 {
		t.Errorf("expected metric 25, got %f", result.Metrics["frames"])
	}
	series := result.Series["frames"]
	if len(series) != 25 || series[24] != 24 {
		t.Errorf("unexpected series %v", series)
	}
}

func TestSimulatorRunRecordsResetsBetweenSnapshots(t *testing.T) {
	s := newTestSim(t, 4, 5)

	result, err := s.Run(context.Background(), Config{Frames: 30, Stride: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	wantResets := []int{0, 7, 14, 21, 28}
	if len(result.ResetFrames) != len(wantResets) {
		t.Fatalf("expected reset frames %v, got %v", wantResets, result.ResetFrames)
	}
	for i := range wantResets {
		if result.ResetFrames[i] != wantResets[i] {
			t.Errorf("reset %d: expected frame %d, got %d", i, wantResets[i], result.ResetFrames[i])
		}
	}

	// frame 28 resets after the last snapshot at 27
	var flagged []int
	for _, snap := range result.Snapshots {
		if snap.Reset {
			flagged = append(flagged, snap.Frame)
		}
	}
	wantFlagged := []int{0, 9, 15, 21}
	if len(flagged) != len(wantFlagged) {
		t.Fatalf("expected flagged snapshots %v, got %v", wantFlagged, flagged)
	}
	for i := range wantFlagged {
		if flagged[i] != wantFlagged[i] {
			t.Errorf("flag %d: expected frame %d, got %d", i, wantFlagged[i], flagged[i])
		}
	}
}

func TestSimulatorResetPeriod(t *testing.T) {
	const threshold = 4
	s := newTestSim(t, 4, threshold)

	var resets []int
	s.AddObserver(ObserverFunc(func(f *orbit.Field, frame int, reset bool) {
		if reset {
			resets = append(resets, frame)
		}
	}))

	for i := 0; i < 20; i++ {
		s.Step()
	}

	want := []int{0, 6, 12, 18}
	if len(resets) != len(want) {
		t.Fatalf("expected resets at %v, got %v", want, resets)
	}
	for i := range want {
		if resets[i] != want[i] {
			t.Errorf("reset %d: expected frame %d, got %d", i, want[i], resets[i])
		}
	}
	if s.Resets() != 4 || s.Frame() != 20 {
		t.Errorf("expected 4 resets over 20 frames, got %d over %d", s.Resets(), s.Frame())
	}
}

func TestSimulatorForceReset(t *testing.T) {
	s := newTestSim(t, 4, 100)
	s.Step()
	s.Step()

	s.ForceReset()
	if !s.Step() {
		t.Error("expected forced reset on next step")
	}
	if s.Step() {
		t.Error("expected update after forced reset")
	}
}

func TestSimulatorCancellation(t *testing.T) {
	s := newTestSim(t, 4, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, Config{Frames: 100})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Frames != 0 {
		t.Errorf("expected empty partial result, got %+v", result)
	}
}

func TestSimulatorInvalidField(t *testing.T) {
	f, _ := orbit.NewField(4, 0.005)
	s := New(f, orbit.NewCycle(10), nanSampler{}, testBounds)

	_, err := s.Run(context.Background(), Config{Frames: 10})

	var simErr SimError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimError, got %v", err)
	}
	if simErr.Frame != 0 || !errors.Is(err, ErrInvalidField) {
		t.Errorf("unexpected error %v", simErr)
	}
}

func TestRunValidation(t *testing.T) {
	s := newTestSim(t, 4, 10)

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero frames", Config{Frames: 0}, ErrFrames},
		{"negative stride", Config{Frames: 10, Stride: -1}, ErrStride},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

type scriptedFrontend struct {
	polls   int
	limit   int
	draws   int
	drawErr error
}

func (fe *scriptedFrontend) Poll() bool {
	fe.polls++
	return fe.polls <= fe.limit
}

func (fe *scriptedFrontend) Draw(f *orbit.Field) error {
	fe.draws++
	return fe.drawErr
}

func TestLoopStopsOnQuit(t *testing.T) {
	s := newTestSim(t, 4, 10)
	fe := &scriptedFrontend{limit: 5}
	clock := &fakeClock{}
	pacer := NewPacer(60, clock)

	if err := s.Loop(context.Background(), fe, pacer, nil); err != nil {
		t.Fatalf("loop failed: %v", err)
	}
	if fe.draws != 5 || s.Frame() != 5 {
		t.Errorf("expected 5 frames drawn, got %d draws %d frames", fe.draws, s.Frame())
	}
	if len(clock.sleeps) != 5 {
		t.Errorf("expected one pacing sleep per frame, got %d", len(clock.sleeps))
	}
}

func TestLoopDrawError(t *testing.T) {
	s := newTestSim(t, 4, 10)
	boom := errors.New("boom")
	fe := &scriptedFrontend{limit: 5, drawErr: boom}

	err := s.Loop(context.Background(), fe, nil, nil)
	if !errors.Is(err, boom) {
		t.Errorf("expected draw error, got %v", err)
	}
	if fe.draws != 1 {
		t.Errorf("expected loop to stop after first draw, got %d", fe.draws)
	}
}

func TestLoopCancellation(t *testing.T) {
	s := newTestSim(t, 4, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Loop(ctx, &scriptedFrontend{limit: 100}, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEnsemble(t *testing.T) {
	factory := func(idx int) (*Simulator, error) {
		f, err := orbit.NewField(4+idx, 0.005)
		if err != nil {
			return nil, err
		}
		return New(f, orbit.NewCycle(10), &seqSampler{n: float64(idx)}, testBounds), nil
	}

	results, err := NewEnsemble(factory, 4).Run(context.Background(), Config{Frames: 30, Stride: 10})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Frames != 30 {
			t.Errorf("run %d: expected 30 frames, got %d", i, r.Frames)
		}
		if got := len(r.Snapshots[0].Orbiters); got != 4+i {
			t.Errorf("run %d: expected %d orbiters, got %d", i, 4+i, got)
		}
	}
}

func TestEnsembleFactoryError(t *testing.T) {
	bad := errors.New("no field")
	factory := func(idx int) (*Simulator, error) {
		if idx == 2 {
			return nil, bad
		}
		f, _ := orbit.NewField(4, 0.005)
		return New(f, orbit.NewCycle(10), &seqSampler{}, testBounds), nil
	}

	if _, err := NewEnsemble(factory, 3).Run(context.Background(), Config{Frames: 5}); !errors.Is(err, bad) {
		t.Errorf("expected factory error, got %v", err)
	}
}
