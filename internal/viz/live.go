package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/sim"
)

const (
	defaultCols     = 48
	defaultRows     = 24
	statsWidth      = 44
	historyCapacity = 240
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model runs a simulator inside a bubbletea program, one frame per tick.
type Model struct {
	sim       *sim.Simulator
	cfg       *config.Config
	style     orbit.Style
	canvas    *Canvas
	period    time.Duration
	running   bool
	showHelp  bool
	theme     int
	spread    []float64
	speed     []float64
	lastTick  time.Time
	fps       float64
	lastReset bool
}

func NewModel(s *sim.Simulator, cfg *config.Config) Model {
	period := time.Second / 60
	if cfg.FPS > 0 {
		period = time.Second / time.Duration(cfg.FPS)
	}
	return Model{
		sim:     s,
		cfg:     cfg,
		style:   cfg.RenderStyle(),
		canvas:  NewCanvas(defaultCols, defaultRows),
		period:  period,
		running: true,
		theme:   ThemeIndex(cfg.Theme),
		spread:  make([]float64, 0, historyCapacity),
		speed:   make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Running() bool             { return m.running }
func (m Model) Theme() Theme              { return Themes[m.theme] }
func (m Model) Simulator() *sim.Simulator { return m.sim }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sim.ForceReset()
			if !m.running {
				m.step()
			}
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		cols := max(16, msg.Width-statsWidth-8)
		rows := max(8, msg.Height-4)
		m.canvas.Resize(cols, rows)
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
				m.fps = 0.9*m.fps + 0.1/dt
			}
		}
		m.lastTick = now
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.lastReset = m.sim.Step()
	os := m.sim.Field().Orbiters()
	m.spread = pushHistory(m.spread, orbit.Spread(os))

	speed := 0.0
	for _, o := range os {
		speed += o.Vel.Len()
	}
	m.speed = pushHistory(m.speed, speed/float64(len(os)))
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m Model) View() string {
	t := m.Theme()
	m.canvas.Clear()
	DrawField(m.canvas, m.sim.Field(), m.sim.Bounds(), m.style)
	canvasView := canvasStyle.Foreground(t.Primary).Render(m.canvas.String())

	var s strings.Builder
	header := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
	s.WriteString(header.Render(strings.ToUpper(m.cfg.Variant)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.lastReset {
		status += " · RESET"
	}
	s.WriteString(status + "\n\n")

	cyc := m.sim.Cycle()
	done := 1.0
	if span := cyc.Threshold() + 1; span > 0 {
		done = 1 - float64(cyc.Remaining())/float64(span)
	}
	s.WriteString(labelStyle.Render("Cycle") + ProgressBar(done, 20, t) + "\n")
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Frame())) + "\n")
	s.WriteString(labelStyle.Render("Resets") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Resets())) + "\n")
	s.WriteString(labelStyle.Render("Next reset") + valueStyle.Render(fmt.Sprintf("%d frames", cyc.Remaining())) + "\n")
	s.WriteString(labelStyle.Render("Orbiters") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Field().Len())) + "\n")
	s.WriteString(labelStyle.Render("Mode") + valueStyle.Render(m.sim.Field().Mode().String()) + "\n")
	s.WriteString(labelStyle.Render("Stepper") + valueStyle.Render(m.sim.Field().Stepper().Name()) + "\n")
	if m.cfg.ShowFPS {
		s.WriteString(labelStyle.Render("FPS") + valueStyle.Render(fmt.Sprintf("%.1f", m.fps)) + "\n")
	}

	if n := len(m.spread); n > 0 {
		s.WriteString(labelStyle.Render("Spread") + valueStyle.Render(fmt.Sprintf("%.2f", m.spread[n-1])) + "\n")
	}
	if len(m.spread) > 1 {
		chart := asciigraph.Plot(m.spread, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("Spread"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Accent).Render(chart) + "\n")
	}
	if len(m.speed) > 0 {
		s.WriteString("\n" + labelStyle.Render("Speed") + Sparkline(m.speed, 28) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(36, t) + "\nSP:Pause R:Reset Q:Quit\nT:Theme  ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset orbiters now       ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q / Esc  - Quit                     ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

// RunLive runs the live view until the user quits.
func RunLive(s *sim.Simulator, cfg *config.Config) error {
	_, err := tea.NewProgram(NewModel(s, cfg), tea.WithAltScreen()).Run()
	return err
}
