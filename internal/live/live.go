package live

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/model"
)

const (
	graphWidth   = 70
	graphHeight  = 10
	historyLimit = 600
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type TickMsg time.Time

// Model is the bubbletea state for a live solve: it advances the cell
// model a few steps per frame and streams the voltage and temperature
// traces.
type Model struct {
	cellModel *model.Model
	sys       cell.System
	stepper   cell.Stepper
	cfg       cell.SolveConfig

	x       cell.State
	t       float64
	running bool
	done    bool
	event   string

	voltage     []float64
	temperature []float64
	frameSteps  int
	fps         int
}

func NewModel(m *model.Model, stepper cell.Stepper, cfg cell.SolveConfig, fps int) (Model, error) {
	sys, err := m.System()
	if err != nil {
		return Model{}, err
	}
	if fps <= 0 {
		fps = 30
	}
	totalSteps := int((cfg.TEnd - cfg.TStart) / cfg.Dt)
	frameSteps := totalSteps / historyLimit
	if frameSteps < 1 {
		frameSteps = 1
	}
	return Model{
		cellModel:  m,
		sys:        sys,
		stepper:    stepper,
		cfg:        cfg,
		x:          m.InitialState.Clone(),
		t:          cfg.TStart,
		running:    true,
		frameSteps: frameSteps,
		fps:        fps,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
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
			m.x = m.cellModel.InitialState.Clone()
			m.t = m.cfg.TStart
			m.voltage = nil
			m.temperature = nil
			m.done = false
			m.event = ""
			m.running = true
		}
		return m, nil

	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.frameSteps; i++ {
		if m.t >= m.cfg.TEnd {
			m.done = true
			break
		}
		m.x = m.stepper.Step(m.sys, m.x, m.t, m.cfg.Dt)
		m.t += m.cfg.Dt
		if !m.x.IsValid() {
			m.done = true
			m.event = "invalid state"
			break
		}
	}

	env, err := m.cellModel.Evaluate(m.x, m.t)
	if err != nil {
		m.done = true
		return
	}
	v := model.Voltage(env)
	m.voltage = append(m.voltage, v)
	m.temperature = append(m.temperature, env.Get("temperature"))
	if len(m.voltage) > historyLimit {
		m.voltage = m.voltage[1:]
		m.temperature = m.temperature[1:]
	}

	for _, ev := range m.cellModel.Events {
		if ev.F(env) <= 0 {
			m.done = true
			m.event = ev.Name
			return
		}
	}
}

func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("cellsim live: %s", m.cellModel.Name))

	var body string
	if len(m.voltage) > 1 {
		body = graphStyle.Render(asciigraph.Plot(m.voltage,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("terminal voltage [V]"),
		))
		body += "\n" + graphStyle.Render(asciigraph.Plot(m.temperature,
			asciigraph.Height(graphHeight/2),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("temperature [K]"),
		))
	} else {
		body = "\n  warming up...\n"
	}

	stats := labelStyle.Render("time") + valueStyle.Render(fmt.Sprintf("%.1f s", m.t)) + "\n"
	if len(m.voltage) > 0 {
		stats += labelStyle.Render("voltage") +
			valueStyle.Render(fmt.Sprintf("%.4f V", m.voltage[len(m.voltage)-1])) + "\n"
		stats += labelStyle.Render("temperature") +
			valueStyle.Render(fmt.Sprintf("%.2f K", m.temperature[len(m.temperature)-1])) + "\n"
	}

	status := ""
	if m.done {
		reason := "final time"
		if m.event != "" {
			reason = m.event
		}
		status = doneStyle.Render(fmt.Sprintf("terminated: %s", reason)) + "\n"
	} else if !m.running {
		status = doneStyle.Render("paused") + "\n"
	}

	help := helpStyle.Render("space pause · r reset · q quit")
	return header + "\n" + body + "\n" + stats + status + help + "\n"
}

// Run launches the live view and blocks until the user quits.
func Run(m *model.Model, stepper cell.Stepper, cfg cell.SolveConfig, fps int) error {
	tm, err := NewModel(m, stepper, cfg, fps)
	if err != nil {
		return err
	}
	p := tea.NewProgram(tm)
	_, err = p.Run()
	return err
}
