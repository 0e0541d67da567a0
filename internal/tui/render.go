package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/saaquiz/internal/quiz"
)

var (
	colorHeader = lipgloss.Color("33")
	colorMuted  = lipgloss.Color("242")
	colorRight  = lipgloss.Color("42")
	colorWrong  = lipgloss.Color("196")
)

// stylize applies foreground color unless colors are disabled.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func renderHeader(entry quiz.Entry, noColor bool) string {
	line := "AWS Solutions Architect Associate Quiz"
	if entry.Total > 0 {
		line += fmt.Sprintf(" | Question %d of %d", entry.Index+1, entry.Total)
	}
	if noColor {
		return line
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colorHeader).Render(line)
}

func renderFooter(noColor bool) string {
	return stylize("↑/↓ move · enter submit · n/p next/previous · s scenario · q quit", noColor, colorMuted)
}

func renderScenario(scenario string, noColor bool) string {
	return stylize("Scenario: "+scenario, noColor, colorMuted)
}

func renderQuestion(text string, noColor bool) string {
	if noColor {
		return "\n" + text + "\n"
	}
	return "\n" + lipgloss.NewStyle().Bold(true).Render(text) + "\n"
}

func renderChoices(round *quiz.Round, cursor int, noColor bool) string {
	lines := make([]string, 0, len(round.Question.Choices))
	for i, c := range round.Question.Choices {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s", marker, quiz.Label(i), c.Answer))
	}
	return strings.Join(lines, "\n")
}

func renderOutcome(out *quiz.Outcome, noColor bool) string {
	color := colorWrong
	if out.Correct {
		color = colorRight
	}

	lines := []string{
		stylize(out.Headline, noColor, color),
		"  " + out.Selected.Explanation,
		"",
		"Other answers:",
	}
	for _, o := range out.Others {
		c := colorWrong
		if o.Correct {
			c = colorRight
		}
		lines = append(lines,
			stylize(fmt.Sprintf("%s: %s", o.Label, o.Text), noColor, c),
			"  "+o.Explanation,
		)
	}

	r := out.Resources
	lines = append(lines,
		"",
		stylize(fmt.Sprintf("Domain: %s | Task: %s", r.Domain, r.Task), noColor, colorMuted),
		stylize(fmt.Sprintf("Focus: %s | Item: %s", r.Focus, r.Item), noColor, colorMuted),
	)
	for _, doc := range r.Docs {
		lines = append(lines, stylize("  - "+doc, noColor, colorMuted))
	}
	return strings.Join(lines, "\n")
}
