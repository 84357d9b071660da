// Package view provides the interactive terminal front end. The
// bubbletea program plays the role of the host: its tick messages are
// the frame callbacks, and the simulator decides whether each one
// becomes a simulation pass.
package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/arvheim/boxsim/pkg/render"
	"github.com/arvheim/boxsim/pkg/sim"
)

const historyCapacity = 120

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// TickMsg is one frame callback from the terminal's clock.
type TickMsg time.Time

// Model contains the simulator, its ASCII surface, and UI context.
type Model struct {
	sim     *sim.Simulator
	surface *render.ASCIISurface
	period  time.Duration

	epoch     time.Time
	chain     bool
	lastFrame time.Time
	intervals []float64
	showHelp  bool
}

// NewModel wraps a simulator whose surface must be the given ASCII
// surface; the view reads rendered frames back out of it.
func NewModel(simulator *sim.Simulator, surface *render.ASCIISurface, period time.Duration) Model {
	return Model{
		sim:       simulator,
		surface:   surface,
		period:    period,
		epoch:     time.Now(),
		chain:     true,
		intervals: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	m.sim.Start()
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and delivers frame callbacks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.sim.Stop()
			return m, tea.Quit
		case " ":
			if m.sim.State() == sim.Running {
				m.sim.Stop()
				return m, nil
			}
			// Resume opens a fresh frame chain with its own epoch.
			m.epoch = time.Now()
			m.chain = true
			m.sim.Start()
			return m, m.tick()
		case "n":
			m.sim.Spawn()
		case "up", "k":
			m.sim.Engine().UpdateGravity(m.sim.Engine().Gravity() + 1)
		case "down", "j":
			m.sim.Engine().UpdateGravity(m.sim.Engine().Gravity() - 1)
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case TickMsg:
		if !m.chain {
			return m, nil
		}
		before := m.sim.FrameCount()
		cont := m.sim.Frame(time.Since(m.epoch))
		if m.sim.FrameCount() > before {
			m.recordInterval(time.Time(msg))
		}
		if !cont {
			m.chain = false
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

// recordInterval tracks the wall-clock spacing of rendered frames for
// the pacing graph.
func (m *Model) recordInterval(now time.Time) {
	if !m.lastFrame.IsZero() {
		m.intervals = append(m.intervals, float64(now.Sub(m.lastFrame).Milliseconds()))
		if len(m.intervals) > historyCapacity {
			m.intervals = m.intervals[1:]
		}
	}
	m.lastFrame = now
}

// View renders the TUI interface.
func (m Model) View() string {
	status := "PAUSED"
	if m.sim.State() == sim.Running {
		status = "RUNNING"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("BOXSIM") + "\n")
	s.WriteString(status + "\n\n")
	if len(m.intervals) > 1 {
		chart := asciigraph.Plot(m.intervals, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("frame spacing (ms)"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", m.sim.FrameCount())) + "\n")
	s.WriteString(labelStyle.Render("Entities") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Engine().Len())) + "\n")
	s.WriteString(labelStyle.Render("Gravity") + valueStyle.Render(fmt.Sprintf("%.2f", m.sim.Engine().Gravity())) + "\n")
	s.WriteString(helpStyle.Render("SP:Pause N:Spawn ↑↓:Gravity Q:Quit ?:Help"))

	canvasView := canvasStyle.Render(m.surface.String())
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space  - Pause/Resume the simulation
  N      - Spawn a rectangle at the origin
  Up/K   - Increase gravity
  Down/J - Decrease gravity
  Q      - Quit
  ?      - Toggle this help
`
