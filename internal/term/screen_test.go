package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/san-kum/orbsim/internal/orbit"
)

func newTestScreen(t *testing.T, opts Options) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	s, err := New(sim, opts)
	if err != nil {
		t.Fatalf("new screen: %v", err)
	}
	sim.SetSize(40, 21)
	t.Cleanup(s.Close)
	return s, sim
}

func testOpts() Options {
	return Options{
		Bounds: orbit.Bounds{Width: 80, Height: 80},
		Style:  orbit.Style{Trail: 4, Thickness: 1, Tracked: -1},
	}
}

func TestScreenDraw(t *testing.T) {
	opts := testOpts()
	opts.Status = func() string { return "frame 1" }
	s, sim := newTestScreen(t, opts)

	f, err := orbit.FromOrbiters([]orbit.Orbiter{
		{Pos: orbit.Vec2{X: 0, Y: 0}},
		{Pos: orbit.Vec2{X: 40, Y: 40}},
	}, 0.005)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Draw(f); err != nil {
		t.Fatalf("draw: %v", err)
	}

	if s.Canvas().Width != 40 || s.Canvas().Height != 20 {
		t.Errorf("expected 40x20 canvas, got %dx%d", s.Canvas().Width, s.Canvas().Height)
	}
	if s.Canvas().Count() != 2 {
		t.Errorf("expected 2 dots, got %d", s.Canvas().Count())
	}

	r, _, _, _ := sim.GetContent(0, 0)
	if r != 0x2801 {
		t.Errorf("expected braille dot at origin, got %U", r)
	}
	r, _, _, _ = sim.GetContent(0, 20)
	if r != 'f' {
		t.Errorf("expected status line on last row, got %q", r)
	}
}

func TestScreenStatusRunes(t *testing.T) {
	opts := testOpts()
	opts.Status = func() string { return "σπιν ok" }
	s, sim := newTestScreen(t, opts)

	f, err := orbit.NewField(1, 0.005)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(f); err != nil {
		t.Fatalf("draw: %v", err)
	}

	for x, want := range []rune("σπιν ok") {
		if r, _, _, _ := sim.GetContent(x, 20); r != want {
			t.Errorf("column %d: expected %q, got %q", x, want, r)
		}
	}
}

func TestScreenKeys(t *testing.T) {
	resets := 0
	opts := testOpts()
	opts.OnReset = func() { resets++ }
	s, _ := newTestScreen(t, opts)

	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want bool
	}{
		{"escape", tcell.KeyEscape, 0, false},
		{"ctrl-c", tcell.KeyCtrlC, 0, false},
		{"q", tcell.KeyRune, 'q', false},
		{"r", tcell.KeyRune, 'r', true},
		{"other", tcell.KeyRune, 'x', true},
		{"enter", tcell.KeyEnter, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.handleKey(tt.key, tt.r); got != tt.want {
				t.Errorf("handleKey = %v, want %v", got, tt.want)
			}
		})
	}
	if resets != 1 {
		t.Errorf("expected 1 reset, got %d", resets)
	}
}

func TestScreenResize(t *testing.T) {
	s, sim := newTestScreen(t, testOpts())

	sim.SetSize(20, 11)
	if !s.handle(tcell.NewEventResize(20, 11)) {
		t.Fatal("resize should not quit")
	}
	if s.Canvas().Width != 20 || s.Canvas().Height != 10 {
		t.Errorf("expected 20x10 canvas, got %dx%d", s.Canvas().Width, s.Canvas().Height)
	}
}

func TestScreenPollWithoutEvents(t *testing.T) {
	s, _ := newTestScreen(t, testOpts())
	if !s.Poll() {
		t.Error("expected poll to continue with no events")
	}
}
