// Package viz renders the body set live in the terminal on a braille
// canvas.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/gravity"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	trailCapacity   = 2000
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

type bodyState struct {
	position [3]float64
	velocity [3]float64
}

// Model steps the engine at frame rate and projects body positions onto
// the XY plane.
type Model struct {
	engine        *gravity.Engine
	scenario      string
	dt            float64
	stepsPerFrame int
	t             float64
	running       bool
	canvas        *Canvas
	trail         []struct{ x, y int }
	energyHistory []float64
	initial       []bodyState
}

func NewModel(engine *gravity.Engine, scenario string, dt float64) Model {
	stepsPerFrame := int(1.0 / 60.0 / dt)
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	bodies := engine.Registry().Bodies()
	initial := make([]bodyState, len(bodies))
	for i, b := range bodies {
		initial[i] = bodyState{
			position: [3]float64{b.Position[0], b.Position[1], b.Position[2]},
			velocity: [3]float64{b.Velocity[0], b.Velocity[1], b.Velocity[2]},
		}
	}

	return Model{
		engine:        engine,
		scenario:      scenario,
		dt:            dt,
		stepsPerFrame: stepsPerFrame,
		running:       true,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		trail:         make([]struct{ x, y int }, 0, trailCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		initial:       initial,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "a":
			m.engine.UseApproximation = !m.engine.UseApproximation
		case "up", "k":
			m.engine.Theta = math.Min(m.engine.Theta+0.05, 1.0)
		case "down", "j":
			m.engine.Theta = math.Max(m.engine.Theta-0.05, 0.05)
		case "+", "=":
			m.stepsPerFrame++
		case "-", "_":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame--
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.stepsPerFrame; i++ {
		m.engine.Step(m.dt)
		m.t += m.dt
	}
	m.energyHistory = append(m.energyHistory, m.engine.TotalEnergy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) reset() {
	bodies := m.engine.Registry().Bodies()
	for i, b := range bodies {
		if i >= len(m.initial) {
			break
		}
		b.Position[0], b.Position[1], b.Position[2] = m.initial[i].position[0], m.initial[i].position[1], m.initial[i].position[2]
		b.Velocity[0], b.Velocity[1], b.Velocity[2] = m.initial[i].velocity[0], m.initial[i].velocity[1], m.initial[i].velocity[2]
	}
	m.t = 0
	m.trail = m.trail[:0]
	m.energyHistory = m.energyHistory[:0]
}

// draw projects positions onto the XY plane, centered on the body set.
func (m *Model) draw() {
	m.canvas.Clear()
	bodies := m.engine.Registry().Bodies()
	if len(bodies) == 0 {
		return
	}

	cw, ch := canvasWidth*2, canvasHeight*4
	cx, cy := 0.0, 0.0
	extent := 1.0
	for _, b := range bodies {
		cx += b.Position[0]
		cy += b.Position[1]
	}
	cx /= float64(len(bodies))
	cy /= float64(len(bodies))
	for _, b := range bodies {
		extent = math.Max(extent, math.Abs(b.Position[0]-cx))
		extent = math.Max(extent, math.Abs(b.Position[1]-cy))
	}
	scale := float64(ch) / (2.2 * extent)

	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}

	for _, b := range bodies {
		px := cw/2 + int((b.Position[0]-cx)*scale)
		py := ch/2 - int((b.Position[1]-cy)*scale)

		m.trail = append(m.trail, struct{ x, y int }{px, py})

		radius := 1
		if b.Static || b.Mass > 100 {
			radius = 2
		}
		m.canvas.Blob(px, py, radius)
	}
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[len(m.trail)-trailCapacity:]
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString("PAUSED\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	evaluator := "direct"
	if m.engine.UseApproximation {
		evaluator = "barnes-hut"
	}
	energy := 0.0
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.engine.Registry().Len())) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.3f", energy)) + "\n")
	s.WriteString(labelStyle.Render("Evaluator") + valueStyle.Render(evaluator) + "\n")
	s.WriteString(labelStyle.Render("Theta") + valueStyle.Render(fmt.Sprintf("%.2f", m.engine.Theta)) + "\n")
	s.WriteString(labelStyle.Render("G") + valueStyle.Render(fmt.Sprintf("%.3f", m.engine.G)) + "\n")
	s.WriteString(labelStyle.Render("Steps/frame") + valueStyle.Render(fmt.Sprintf("%d", m.stepsPerFrame)) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nA:Evaluator ↑↓:Theta +-:Speed"))
	statsView := statsStyle.Render(s.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
