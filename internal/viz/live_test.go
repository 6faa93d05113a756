package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/sim"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.GetPreset("pcg")
	cfg.Seed = 7
	s, _, err := sim.FromConfig(cfg, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return NewModel(s, cfg)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTickSteps(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(100, 0)

	var model tea.Model = m
	for i := 0; i < 5; i++ {
		var cmd tea.Cmd
		model, cmd = model.Update(TickMsg(start.Add(time.Duration(i) * time.Second / 60)))
		if cmd == nil {
			t.Fatal("expected tick to schedule the next tick")
		}
	}

	m = model.(Model)
	if m.Simulator().Frame() != 5 {
		t.Errorf("expected 5 frames, got %d", m.Simulator().Frame())
	}
	if m.Simulator().Resets() != 1 {
		t.Errorf("expected the first frame to reset, got %d resets", m.Simulator().Resets())
	}
	if len(m.spread) != 5 {
		t.Errorf("expected 5 spread samples, got %d", len(m.spread))
	}
}

func TestModelPause(t *testing.T) {
	var model tea.Model = newTestModel(t)

	model, _ = model.Update(key(" "))
	if model.(Model).Running() {
		t.Fatal("expected paused after space")
	}

	model, _ = model.Update(TickMsg(time.Now()))
	if f := model.(Model).Simulator().Frame(); f != 0 {
		t.Errorf("expected no frames while paused, got %d", f)
	}
}

func TestModelResetKey(t *testing.T) {
	var model tea.Model = newTestModel(t)
	for i := 0; i < 3; i++ {
		model, _ = model.Update(TickMsg(time.Now()))
	}

	model, _ = model.Update(key("r"))
	model, _ = model.Update(TickMsg(time.Now()))

	if r := model.(Model).Simulator().Resets(); r != 2 {
		t.Errorf("expected forced reset, got %d resets", r)
	}
}

func TestModelThemeCycle(t *testing.T) {
	m := newTestModel(t)
	first := m.Theme().Name

	model, _ := m.Update(key("t"))
	if model.(Model).Theme().Name == first {
		t.Error("expected theme to change")
	}
}

func TestModelQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{key("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := newTestModel(t).Update(msg)
		if cmd == nil {
			t.Errorf("%s: expected quit command", msg)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", msg)
		}
	}
}

func TestModelView(t *testing.T) {
	var model tea.Model = newTestModel(t)
	model, _ = model.Update(TickMsg(time.Now()))
	model, _ = model.Update(TickMsg(time.Now()))

	view := model.View()
	for _, want := range []string{"PCG", "Frame", "Resets", "Next reset", "FPS"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	model, _ = model.Update(key("?"))
	if !strings.Contains(model.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help overlay")
	}
}

func TestPickerStartsLive(t *testing.T) {
	var model tea.Model = NewPicker()

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p := model.(picker)
	if p.state != stateConfig || p.cfg == nil {
		t.Fatalf("expected config screen, got state %d", p.state)
	}
	if p.cfg.Variant != config.ListPresets()[0] {
		t.Errorf("expected first preset, got %s", p.cfg.Variant)
	}

	model, _ = model.Update(key("l"))
	if c := model.(picker).cfg.Count; c != 33 {
		t.Errorf("expected count bumped to 33, got %d", c)
	}

	model, cmd := model.Update(key("s"))
	if model.(picker).state != stateSim || cmd == nil {
		t.Fatal("expected live view started")
	}
	if n := model.(picker).live.Simulator().Field().Len(); n != 33 {
		t.Errorf("expected 33 orbiters, got %d", n)
	}
}

func TestPickerInvalidConfig(t *testing.T) {
	var model tea.Model = NewPicker()
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for i := 0; i < 40; i++ {
		model, _ = model.Update(key("h"))
	}

	model, _ = model.Update(key("s"))
	p := model.(picker)
	if p.state != stateConfig || p.err == nil {
		t.Error("expected validation error to keep the config screen")
	}
}
