package gui

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orbsim/internal/orbit"
)

var ErrWindow = errors.New("gui: window not ready")

var (
	ColBg     = rl.NewColor(40, 40, 40, 255)
	ColLine   = rl.NewColor(245, 245, 245, 255)
	ColAccent = rl.NewColor(255, 110, 64, 255)
	ColText   = rl.NewColor(140, 140, 140, 255)
)

// Window is a raylib frontend for the frame loop. Escape or closing the
// window ends the loop; R resets the field.
type Window struct {
	bounds  orbit.Bounds
	style   orbit.Style
	hud     bool
	onReset func()
}

type Options struct {
	Title   string
	Bounds  orbit.Bounds
	Style   orbit.Style
	HUD     bool   // draw raylib's FPS counter in the corner
	OnReset func() // called when R is pressed
}

// Open creates the window sized to the field bounds. Pacing is left to the
// caller, so raylib's own frame limiter stays off.
func Open(opts Options) (*Window, error) {
	if err := opts.Bounds.Validate(); err != nil {
		return nil, err
	}
	title := opts.Title
	if title == "" {
		title = "orbsim"
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Bounds.Width), int32(opts.Bounds.Height), title)
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("%w: %s %.0fx%.0f", ErrWindow, title, opts.Bounds.Width, opts.Bounds.Height)
	}
	rl.SetTargetFPS(0)

	return &Window{
		bounds:  opts.Bounds,
		style:   opts.Style,
		hud:     opts.HUD,
		onReset: opts.OnReset,
	}, nil
}

func (w *Window) Poll() bool {
	if rl.WindowShouldClose() {
		return false
	}
	if rl.IsKeyPressed(rl.KeyR) && w.onReset != nil {
		w.onReset()
	}
	return true
}

func (w *Window) Draw(f *orbit.Field) error {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	rl.BeginBlendMode(rl.BlendAlpha)

	for _, seg := range Segments(f, w.style) {
		drawSegment(seg, w.style)
	}

	if w.hud {
		rl.DrawFPS(10, 10)
	}
	rl.EndBlendMode()
	rl.EndDrawing()
	return nil
}

func (w *Window) Close() {
	rl.CloseWindow()
}
