package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// UseOutput points lipgloss colour detection at the terminal the UI draws on
func UseOutput(w io.Writer) {
	lipgloss.SetColorProfile(termenv.NewOutput(w).ColorProfile())
}

// RunSelector shows the picker on out until the user confirms or cancels
func RunSelector(ctx context.Context, s *Selector, in io.Reader, out io.Writer) (Selection, error) {
	if err := run(ctx, s, in, out); err != nil {
		return Selection{}, fmt.Errorf("request picker failed: %w", err)
	}
	return s.Result(), nil
}

// RunPrompt asks for every variable of p on out
func RunPrompt(ctx context.Context, p *Prompt, in io.Reader, out io.Writer) (Answers, error) {
	if err := run(ctx, p, in, out); err != nil {
		return Answers{}, fmt.Errorf("variable prompt failed: %w", err)
	}
	return p.Result()
}

func run(ctx context.Context, model tea.Model, in io.Reader, out io.Writer) error {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}

	// Pass pointer since Update uses pointer receiver
	p := tea.NewProgram(model, opts...)
	_, err := p.Run()
	return err
}
