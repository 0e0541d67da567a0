// Package tui is a terminal front end for the quiz.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/saaquiz/internal/quiz"
)

// QuestionSource returns question n of the loaded list, clamped to its bounds
type QuestionSource interface {
	Question(ctx context.Context, n int) (quiz.Entry, error)
}

// Options configures the terminal quiz.
type Options struct {
	NoColor      bool
	ShowScenario bool
}

// Model is the Bubble Tea model of one quiz session.
type Model struct {
	ctx    context.Context
	source QuestionSource

	entry        quiz.Entry
	round        *quiz.Round
	cursor       int
	showScenario bool
	loading      bool
	err          error
	noColor      bool
}

// NewModel constructs a quiz model over source.
func NewModel(ctx context.Context, source QuestionSource, opts Options) Model {
	return Model{
		ctx:          ctx,
		source:       source,
		showScenario: opts.ShowScenario,
		loading:      true,
		noColor:      opts.NoColor,
	}
}

// questionMsg delivers a loaded question.
type questionMsg struct {
	entry quiz.Entry
	round *quiz.Round
	err   error
}

// Init loads the first question.
func (m Model) Init() tea.Cmd {
	return loadQuestion(m.ctx, m.source, 0)
}

// loadQuestion fetches question n and prepares it for grading.
func loadQuestion(ctx context.Context, source QuestionSource, n int) tea.Cmd {
	return func() tea.Msg {
		entry, err := source.Question(ctx, n)
		if err != nil {
			return questionMsg{err: err}
		}
		round, err := quiz.NewRound(entry.Index, entry.Question)
		return questionMsg{entry: entry, round: round, err: err}
	}
}

// Update handles key presses and loaded questions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case questionMsg:
		m.loading = false
		m.cursor = 0
		m.err = typed.err
		m.round = typed.round
		if typed.err == nil || isIntegrity(typed.err) {
			m.entry = typed.entry
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "s":
		m.showScenario = !m.showScenario
		return m, nil
	}

	if m.loading {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.round != nil && m.cursor < len(m.round.Question.Choices)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.round != nil && m.round.State() == quiz.Unanswered {
			if _, err := m.round.Submit(m.cursor); err != nil {
				m.err = err
			}
		}
	case "n", "right":
		if m.entry.Index < m.entry.Total-1 {
			m.loading = true
			return m, loadQuestion(m.ctx, m.source, m.entry.Index+1)
		}
	case "p", "left":
		if m.entry.Index > 0 {
			m.loading = true
			return m, loadQuestion(m.ctx, m.source, m.entry.Index-1)
		}
	}
	return m, nil
}

// View renders the current question, or its outcome once graded.
func (m Model) View() string {
	header := renderHeader(m.entry, m.noColor)
	footer := renderFooter(m.noColor)

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header, "Loading question...", footer)
	}
	if m.round == nil {
		msg := "No question loaded."
		if m.err != nil {
			msg = "Error: " + m.err.Error()
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, stylize(msg, m.noColor, colorWrong), footer)
	}

	parts := []string{header}
	if m.showScenario {
		parts = append(parts, renderScenario(m.entry.Question.Scenario, m.noColor))
	}
	parts = append(parts, renderQuestion(m.round.Question.Question, m.noColor))

	if out := m.round.Outcome(); out != nil {
		parts = append(parts, renderOutcome(out, m.noColor))
	} else {
		parts = append(parts, renderChoices(m.round, m.cursor, m.noColor))
	}
	if m.err != nil {
		parts = append(parts, stylize("Error: "+m.err.Error(), m.noColor, colorWrong))
	}

	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func isIntegrity(err error) bool {
	var integrity *quiz.IntegrityError
	return errors.As(err, &integrity)
}
