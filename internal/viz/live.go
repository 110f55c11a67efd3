package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fluidsim/internal/metrics"
	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	width           = 72
	height          = 24
	historyCapacity = 240
	kickSpeed       = 120.0
)

type TickMsg time.Time

// Model drives a Simulator from bubbletea ticks and draws it.
type Model struct {
	sim           *sim.Simulator
	name          string
	fps           int
	canvas        *Canvas
	proj          Projection
	running       bool
	showDensity   bool
	energyHistory []float64
	densityProbe  r2.Vec
	err           error
}

func NewModel(s *sim.Simulator, name string, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	canvas := NewCanvas(width, height)
	cfg := s.Config()
	return Model{
		sim:           s,
		name:          name,
		fps:           fps,
		canvas:        canvas,
		proj:          NewProjection(cfg.WorldBounds(), canvas),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		densityProbe:  r2.Vec{X: cfg.DensityProbe.X, Y: cfg.DensityProbe.Y},
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sim.Reset()
			m.energyHistory = m.energyHistory[:0]
			m.err = nil
		case "k":
			m.sim.Kick(kickSpeed)
		case "g":
			m.sim.SetGravity(!m.sim.GravityEnabled())
		case "d":
			m.showDensity = !m.showDensity
		case "s":
			if !m.running {
				m.step()
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.err != nil {
		return
	}
	if err := m.sim.Step(); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.energyHistory = append(m.energyHistory, metrics.Kinetic(m.sim.Particles()))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m Model) View() string {
	var body string
	if m.showDensity {
		body = Heatmap(m.sim.DensityGrid(width, height))
	} else {
		m.canvas.Clear()
		m.canvas.DrawBox(m.proj)
		m.canvas.DrawParticles(m.proj, m.sim.Particles())
		body = m.canvas.String()
	}

	var s strings.Builder
	s.WriteString(Header(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(StatusFailed.Render("FAILED") + "\n" + m.err.Error() + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(20), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	energy := 0.0
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}
	gravity := "off"
	if m.sim.GravityEnabled() {
		gravity = "on"
	}
	s.WriteString(Row("Tick", fmt.Sprintf("%d", m.sim.Tick())) + "\n")
	s.WriteString(Row("Time", fmt.Sprintf("%.2fs", m.sim.Time())) + "\n")
	s.WriteString(Row("Particles", fmt.Sprintf("%d", len(m.sim.Particles()))) + "\n")
	s.WriteString(Row("Energy", fmt.Sprintf("%.2f", energy)) + "\n")
	s.WriteString(Row("Probe density", fmt.Sprintf("%.4f", m.sim.Density(m.densityProbe))) + "\n")
	s.WriteString(Row("Gravity", gravity) + "\n")
	s.WriteString(helpStyle.Render("space pause · s step · k kick · g gravity · d density · r reset · q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(body), statsStyle.Render(s.String()))
}

// Run starts the live view on the terminal.
func Run(s *sim.Simulator, name string, fps int) error {
	_, err := tea.NewProgram(NewModel(s, name, fps), tea.WithAltScreen()).Run()
	return err
}
