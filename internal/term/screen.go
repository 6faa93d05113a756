// Package term runs the frame loop on a raw terminal screen, drawing the
// field as braille dots.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/viz"
)

type Options struct {
	Bounds  orbit.Bounds
	Style   orbit.Style
	OnReset func()
	Status  func() string // optional text for the bottom line
}

// Screen is a tcell frontend. Escape, Ctrl-C or q quits; r resets.
type Screen struct {
	screen tcell.Screen
	canvas *viz.Canvas
	opts   Options
	events chan tcell.Event
	done   chan struct{}
	dots   tcell.Style
	status tcell.Style
	closed bool
}

// New initializes screen, or a new terminal screen when screen is nil, and
// starts forwarding its events.
func New(screen tcell.Screen, opts Options) (*Screen, error) {
	if err := opts.Bounds.Validate(); err != nil {
		return nil, err
	}
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, fmt.Errorf("create screen: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}

	bg := tcell.NewRGBColor(40, 40, 40)
	s := &Screen{
		screen: screen,
		canvas: viz.NewCanvas(1, 1),
		opts:   opts,
		events: make(chan tcell.Event, 64),
		done:   make(chan struct{}),
		dots:   tcell.StyleDefault.Foreground(tcell.NewRGBColor(245, 245, 245)).Background(bg),
		status: tcell.StyleDefault.Foreground(tcell.ColorGray).Background(bg),
	}
	screen.SetStyle(tcell.StyleDefault.Background(bg))
	screen.Clear()
	s.fit()

	go s.forward()
	return s, nil
}

func (s *Screen) forward() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// fit sizes the canvas to the screen, keeping the last row for status.
func (s *Screen) fit() {
	w, h := s.screen.Size()
	rows := max(1, h-1)
	if w != s.canvas.Width || rows != s.canvas.Height {
		s.canvas.Resize(w, rows)
	}
}

// Poll drains pending events without blocking.
func (s *Screen) Poll() bool {
	for {
		select {
		case ev := <-s.events:
			if !s.handle(ev) {
				return false
			}
		default:
			return true
		}
	}
}

func (s *Screen) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return s.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		s.screen.Sync()
		s.fit()
	}
	return true
}

func (s *Screen) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case 'r':
			if s.opts.OnReset != nil {
				s.opts.OnReset()
			}
		}
	}
	return true
}

func (s *Screen) Draw(f *orbit.Field) error {
	s.fit()
	s.canvas.Clear()
	viz.DrawField(s.canvas, f, s.opts.Bounds, s.opts.Style)

	for y, row := range s.canvas.Grid {
		for x, r := range row {
			s.screen.SetContent(x, y, r, nil, s.dots)
		}
	}

	w, h := s.screen.Size()
	var line []rune
	if s.opts.Status != nil {
		line = []rune(s.opts.Status())
	}
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = line[x]
		}
		s.screen.SetContent(x, h-1, r, nil, s.status)
	}

	s.screen.Show()
	return nil
}

// Canvas exposes the dot canvas of the last drawn frame.
func (s *Screen) Canvas() *viz.Canvas { return s.canvas }

func (s *Screen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	s.screen.Fini()
}
