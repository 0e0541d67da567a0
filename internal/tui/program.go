package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal quiz and blocks until the user quits.
func Run(ctx context.Context, source QuestionSource, in io.Reader, out io.Writer, opts Options) error {
	program := tea.NewProgram(
		NewModel(ctx, source, opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run quiz: %w", err)
	}
	return nil
}
