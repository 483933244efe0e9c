package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/rhc/internal/keybinds"
	"github.com/studiowebux/rhc/internal/search"
	"github.com/studiowebux/rhc/internal/types"
)

// HistorySource supplies previous answers and records new ones
type HistorySource interface {
	Candidates(variable, environment string) []string
	Record(entry types.HistoryEntry) error
}

// Answers is the outcome of the prompt. Aborted means the user cancelled and
// the request must not be sent.
type Answers struct {
	Values  []types.KeyValue
	Aborted bool
}

// promptMode says whether key presses go to the query or the history list
type promptMode int

const (
	modeTyping promptMode = iota
	modeBrowsing
)

// PromptOptions configures a Prompt
type PromptOptions struct {
	Keys   *keybinds.Registry
	Styles *Styles
}

// Prompt asks for a value for each unbound variable in turn
type Prompt struct {
	names       []string
	environment string
	history     HistorySource
	keys        *keybinds.Registry
	styles      Styles
	help        help.Model
	helpKeys    helpKeys

	current      int
	query        string
	mode         promptMode
	historyIndex int // index into view, meaningful only while browsing

	candidates []string // history for the current variable, newest first
	view       []string

	answers []types.KeyValue
	aborted bool
	err     error

	width  int
	height int
}

// NewPrompt creates a prompt for names, scoped to an environment name ("" for none)
func NewPrompt(names []string, environment string, history HistorySource, opts PromptOptions) *Prompt {
	keys := opts.Keys
	if keys == nil {
		keys = keybinds.NewDefaultRegistry()
	}
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	p := &Prompt{
		names:       names,
		environment: environment,
		history:     history,
		keys:        keys,
		styles:      styles,
		help:        newHelpModel(styles),
		helpKeys:    newHelpKeys(keys, keybinds.ContextPrompt, promptHelp),
		answers:     make([]types.KeyValue, 0, len(names)),
	}
	p.loadCandidates()
	p.refresh()
	return p
}

// Init quits right away when there is nothing to ask
func (p *Prompt) Init() tea.Cmd {
	if p.finished() {
		return tea.Quit
	}
	return nil
}

// Update handles messages and updates the model
func (p *Prompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = msg.Width

	case pasteMsg:
		p.query += string(msg)
		p.mode = modeTyping

	case tea.KeyMsg:
		cmd = p.handleKey(msg)
	}

	p.refresh()
	return p, cmd
}

func (p *Prompt) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.finished() {
		return tea.Quit
	}

	action, ok := p.keys.Match(keybinds.ContextPrompt, msg.String())
	if !ok {
		if text, ok := typedText(msg); ok {
			p.query += text
			p.mode = modeTyping
		}
		return nil
	}

	if query, cmd, edited := editQuery(p.query, action); edited {
		// editing always returns to typing
		p.query = query
		p.mode = modeTyping
		return cmd
	}

	switch action {
	case keybinds.ActionCancel:
		p.aborted = true
		return tea.Quit

	case keybinds.ActionToggleHistory:
		if p.mode == modeBrowsing {
			p.mode = modeTyping
		} else if len(p.view) > 0 {
			p.mode = modeBrowsing
			p.historyIndex = 0
		}

	case keybinds.ActionNavigateUp:
		if p.mode == modeBrowsing && p.historyIndex < len(p.view)-1 {
			p.historyIndex++
		}

	case keybinds.ActionNavigateDown:
		if p.mode == modeBrowsing && p.historyIndex > 0 {
			p.historyIndex--
		}

	case keybinds.ActionConfirm:
		return p.confirm()
	}

	return nil
}

func (p *Prompt) confirm() tea.Cmd {
	name := p.names[p.current]

	var value string
	switch {
	case p.mode == modeBrowsing && p.historyIndex < len(p.view):
		value = p.view[p.historyIndex]
	case p.query != "":
		value = p.query
		if p.history != nil {
			entry := types.HistoryEntry{VariableName: name, Value: value, EnvironmentName: p.environment}
			if err := p.history.Record(entry); err != nil {
				p.err = fmt.Errorf("failed to record history: %w", err)
				return tea.Quit
			}
		}
	default:
		// an empty answer is never what the user meant
		return nil
	}

	p.answers = append(p.answers, types.NewKeyValue(name, value))
	p.current++
	p.query = ""
	p.mode = modeTyping
	p.historyIndex = 0

	if p.finished() {
		return tea.Quit
	}
	p.loadCandidates()
	return nil
}

func (p *Prompt) finished() bool {
	return p.current >= len(p.names)
}

func (p *Prompt) loadCandidates() {
	p.candidates = nil
	if p.history != nil && !p.finished() {
		p.candidates = p.history.Candidates(p.names[p.current], p.environment)
	}
}

// refresh recomputes the filtered history and keeps the mode consistent
func (p *Prompt) refresh() {
	p.view = search.Strings(p.query, p.candidates)
	if p.mode != modeBrowsing {
		return
	}
	if len(p.view) == 0 {
		p.mode = modeTyping
		p.historyIndex = 0
		return
	}
	if p.historyIndex >= len(p.view) {
		p.historyIndex = len(p.view) - 1
	}
}

// Result returns the answers once the program has exited. A history write
// failure is returned as an error.
func (p *Prompt) Result() (Answers, error) {
	if p.err != nil {
		return Answers{}, p.err
	}
	if p.aborted || !p.finished() {
		return Answers{Aborted: true}, nil
	}
	values := make([]types.KeyValue, len(p.answers))
	copy(values, p.answers)
	return Answers{Values: values}, nil
}

// View renders history, the explanation line and the query line
func (p *Prompt) View() string {
	if p.finished() {
		return ""
	}

	capacity := 0
	if p.height > 0 {
		capacity = p.height - PromptFooterLines
		if capacity < 1 {
			capacity = 1
		}
	}

	selected := -1
	if p.mode == modeBrowsing {
		selected = p.historyIndex
	}

	var b strings.Builder
	lines := listLines(p.view, selected, capacity, p.styles.Row, p.styles.Selected)
	if p.height > 0 {
		for i := len(lines); i < capacity; i++ {
			b.WriteString("\n")
		}
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("Enter a value for ")
	b.WriteString(p.styles.Variable.Render(p.names[p.current]))
	if len(p.names) > 1 {
		b.WriteString(p.styles.Subtle.Render(fmt.Sprintf("  (%d/%d)", p.current+1, len(p.names))))
	}
	b.WriteString("\n")

	b.WriteString(p.styles.Prompt.Render(promptSymbol))
	b.WriteString(p.query)
	if p.mode == modeTyping {
		b.WriteString("█")
	}
	b.WriteString("\n")
	b.WriteString(p.help.View(p.helpKeys))
	return b.String()
}
