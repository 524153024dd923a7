package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/borrowlab/lifetime/tracker"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	scenarioStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	groupStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelect modelState = iota
	stateResult
)

type interactiveModel struct {
	err      error
	tr       *tracker.Tracker
	steps    []string
	output   viewport.Model
	selected int
	width    int
	height   int
	ready    bool
	state    modelState
}

type scenarioDoneMsg struct {
	err   error
	steps []string
	tr    *tracker.Tracker
}

func newInteractiveModel() *interactiveModel {
	return &interactiveModel{state: stateSelect}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func runScenario(s scenario) tea.Cmd {
	return func() tea.Msg {
		tr := tracker.New()
		var steps []string
		report := func(format string, args ...any) {
			steps = append(steps, fmt.Sprintf(format, args...))
		}
		err := s.run(tr, report)
		return scenarioDoneMsg{err: err, steps: steps, tr: tr}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.output = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.output.Width = msg.Width
			m.output.Height = msg.Height - 6
		}
		return m, nil

	case scenarioDoneMsg:
		m.err = msg.err
		m.steps = msg.steps
		m.tr = msg.tr
		m.state = stateResult
		m.output.SetContent(m.resultContent())
		m.output.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.state == stateSelect && m.selected < len(scenarios)-1 {
				m.selected++
			}
		case "enter":
			if m.state == stateSelect {
				return m, runScenario(scenarios[m.selected])
			}
		case "esc":
			if m.state == stateResult {
				m.state = stateSelect
			}
		}
	}

	if m.state == stateResult {
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) resultContent() string {
	var b strings.Builder

	for _, step := range m.steps {
		b.WriteString(stepStyle.Render("  " + step))
		b.WriteByte('\n')
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("  error: " + m.err.Error()))
		b.WriteByte('\n')
	}

	if m.tr != nil {
		b.WriteString("\n")
		b.WriteString(groupStyle.Render("  Tracked groups:"))
		b.WriteByte('\n')
		m.tr.Each(func(g tracker.GroupStat) bool {
			state := "live"
			if g.Released {
				state = "released"
			}
			line := fmt.Sprintf("    %-14s %-8s members=%d owner=%d mutator=%d violations=%d",
				g.Label, state, g.Members, g.Owner, g.Mutator, g.Violations)
			b.WriteString(groupStyle.Render(line))
			b.WriteByte('\n')
			return true
		})
	}
	return b.String()
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("lifetime — ownership scenarios"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect:
		for i, s := range scenarios {
			line := fmt.Sprintf("%-22s %s", s.name, s.desc)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + scenarioStyle.Render(s.name) +
					strings.Repeat(" ", max(1, 21-len(s.name))) +
					descStyle.Render(s.desc))
			}
			b.WriteByte('\n')
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select · enter run · q quit"))

	case stateResult:
		b.WriteString(scenarioStyle.Render(scenarios[m.selected].name))
		b.WriteByte('\n')
		if m.ready {
			b.WriteString(m.output.View())
		} else {
			b.WriteString(m.resultContent())
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back · ↑/↓ scroll · q quit"))
	}
	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
