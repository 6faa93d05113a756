package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/sim"
)

func testField(t *testing.T) *orbit.Field {
	t.Helper()
	f, err := orbit.FromOrbiters([]orbit.Orbiter{
		{Pos: orbit.Vec2{X: 0, Y: 0}, Vel: orbit.Vec2{X: 3, Y: 4}},
		{Pos: orbit.Vec2{X: 2, Y: 0}, Vel: orbit.Vec2{X: 0, Y: 0}},
		{Pos: orbit.Vec2{X: 900, Y: 10}, Vel: orbit.Vec2{X: 0, Y: 1}},
		{Pos: orbit.Vec2{X: 10, Y: -5}, Vel: orbit.Vec2{X: 0, Y: 0}},
	}, 0.005)
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	return f
}

func TestSpread(t *testing.T) {
	f := testField(t)
	m := NewSpread()

	want := orbit.Spread(f.Orbiters())
	m.Observe(f, 0, false)
	m.Observe(f, 1, false)

	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected spread %f, got %f", want, m.Value())
	}
	if m.Current() != want {
		t.Errorf("expected current %f, got %f", want, m.Current())
	}

	m.Reset()
	if m.Value() != 0 || m.Current() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestSpeed(t *testing.T) {
	f := testField(t)

	mean := NewMeanSpeed()
	mean.Observe(f, 0, false)
	if math.Abs(mean.Value()-1.5) > 1e-12 {
		t.Errorf("expected mean speed 1.5, got %f", mean.Value())
	}
	if math.Abs(mean.Current()-1.5) > 1e-12 {
		t.Errorf("expected current speed 1.5, got %f", mean.Current())
	}

	top := NewMaxSpeed()
	top.Observe(f, 0, false)
	if top.Value() != 5 {
		t.Errorf("expected max speed 5, got %f", top.Value())
	}
	top.Reset()
	if top.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestContainment(t *testing.T) {
	f := testField(t)
	m := NewContainment(orbit.Bounds{Width: 768, Height: 768})

	if m.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", m.Value())
	}

	m.Observe(f, 0, false)
	if m.Value() != 0.5 {
		t.Errorf("expected half the orbiters inside, got %f", m.Value())
	}
}

func TestResets(t *testing.T) {
	f := testField(t)
	m := NewResets()

	m.Observe(f, 0, true)
	m.Observe(f, 1, false)
	m.Observe(f, 2, true)

	if m.Value() != 2 {
		t.Errorf("expected 2 resets, got %f", m.Value())
	}
}

func TestDefaultMetricsInRun(t *testing.T) {
	b := orbit.Bounds{Width: 768, Height: 768}
	f, _ := orbit.NewField(16, 0.005)
	s := sim.New(f, orbit.NewCycle(30), orbit.NewRandSampler(7), b)
	for _, m := range Default(b) {
		s.AddMetric(m)
	}

	result, err := s.Run(t.Context(), sim.Config{Frames: 64})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, name := range []string{"spread", "max_spread", "mean_speed", "max_speed", "containment", "resets"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if result.Metrics["resets"] != 2 {
		t.Errorf("expected 2 resets in 64 frames, got %f", result.Metrics["resets"])
	}
	if result.Metrics["max_spread"] < result.Metrics["spread"] {
		t.Error("max spread below mean spread")
	}
	if len(result.Series["spread"]) != 64 || len(result.Series["mean_speed"]) != 64 {
		t.Error("expected per-frame series for spread and mean speed")
	}
	if _, ok := result.Series["max_speed"]; ok {
		t.Error("max speed should not record a series")
	}
}
