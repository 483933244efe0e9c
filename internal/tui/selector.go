package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/studiowebux/rhc/internal/catalog"
	"github.com/studiowebux/rhc/internal/keybinds"
	"github.com/studiowebux/rhc/internal/parser"
	"github.com/studiowebux/rhc/internal/search"
	"github.com/studiowebux/rhc/internal/templating"
	"github.com/studiowebux/rhc/internal/types"
)

// choiceLoadedMsg is delivered each time the loader stores an entry
type choiceLoadedMsg catalog.Progress

// loaderDoneMsg is delivered once the loader channel is closed
type loaderDoneMsg struct{}

// waitForProgress returns a Cmd that waits for the next loader update
func waitForProgress(ch <-chan catalog.Progress) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return loaderDoneMsg{}
		}
		return choiceLoadedMsg(p)
	}
}

// Selection is the outcome of the picker. Confirmed is false when the user
// cancelled.
type Selection struct {
	Path            string
	Environment     *types.Environment
	EnvironmentPath string
	Confirmed       bool
}

// SelectorOptions configures a Selector
type SelectorOptions struct {
	Environments []parser.LoadedEnvironment
	// PreselectEnvironment activates the environment loaded from this exact path
	PreselectEnvironment string
	Keys                 *keybinds.Registry
	Styles               *Styles
}

// Selector is the request definition picker
type Selector struct {
	catalog      *catalog.Catalog
	progress     <-chan catalog.Progress
	environments []parser.LoadedEnvironment
	keys         *keybinds.Registry
	styles       Styles
	help         help.Model
	helpKeys     helpKeys

	query     string
	selected  int // index into view, -1 when nothing is selected
	activeEnv int // index into environments, -1 for none
	primed    string
	confirmed bool
	loaded    bool

	view []catalog.Choice

	width  int
	height int
}

// NewSelector creates a picker over cat. progress is the loader channel
// returned by cat.StartLoader; the picker redraws as entries arrive.
func NewSelector(cat *catalog.Catalog, progress <-chan catalog.Progress, opts SelectorOptions) *Selector {
	keys := opts.Keys
	if keys == nil {
		keys = keybinds.NewDefaultRegistry()
	}
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	s := &Selector{
		catalog:      cat,
		progress:     progress,
		environments: opts.Environments,
		keys:         keys,
		styles:       styles,
		help:         newHelpModel(styles),
		helpKeys:     newHelpKeys(keys, keybinds.ContextSelector, selectorHelp),
		selected:     -1,
		activeEnv:    -1,
		loaded:       progress == nil,
	}

	if opts.PreselectEnvironment != "" {
		for i, env := range opts.Environments {
			if env.Path == opts.PreselectEnvironment {
				s.activeEnv = i
			}
		}
	}

	s.refresh()
	return s
}

// Init starts listening to the loader
func (s *Selector) Init() tea.Cmd {
	return waitForProgress(s.progress)
}

// Update handles messages and updates the model
func (s *Selector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.help.Width = msg.Width

	case choiceLoadedMsg:
		cmd = waitForProgress(s.progress)

	case loaderDoneMsg:
		s.loaded = true

	case pasteMsg:
		s.query += string(msg)

	case tea.KeyMsg:
		cmd = s.handleKey(msg)
	}

	s.refresh()
	return s, cmd
}

func (s *Selector) handleKey(msg tea.KeyMsg) tea.Cmd {
	action, ok := s.keys.Match(keybinds.ContextSelector, msg.String())
	if !ok {
		if text, ok := typedText(msg); ok {
			s.query += text
		}
		return nil
	}

	if query, cmd, edited := editQuery(s.query, action); edited {
		s.query = query
		return cmd
	}

	switch action {
	case keybinds.ActionCancel:
		s.confirmed = false
		return tea.Quit

	case keybinds.ActionNavigateUp:
		// the list is drawn bottom-up, so up moves away from index 0
		if s.selected >= 0 && s.selected < len(s.view)-1 {
			s.selected++
		}

	case keybinds.ActionNavigateDown:
		if s.selected > 0 {
			s.selected--
		}

	case keybinds.ActionConfirm:
		if s.selected >= 0 && s.selected < len(s.view) {
			s.primed = s.view[s.selected].Path
			s.confirmed = true
			return tea.Quit
		}

	case keybinds.ActionEnvironmentNext:
		s.cycleEnvironment(1)

	case keybinds.ActionEnvironmentPrev:
		s.cycleEnvironment(-1)
	}

	return nil
}

// cycleEnvironment steps through the environments with "none" between the
// last and the first
func (s *Selector) cycleEnvironment(step int) {
	n := len(s.environments)
	if n == 0 {
		return
	}
	// positions 0..n-1 are environments, n is "none"
	pos := s.activeEnv
	if pos < 0 {
		pos = n
	}
	pos = (pos + step + n + 1) % (n + 1)
	if pos == n {
		s.activeEnv = -1
	} else {
		s.activeEnv = pos
	}
}

// refresh recomputes the filtered view and keeps the selection in bounds
func (s *Selector) refresh() {
	vars := s.activeVariables()
	s.view = search.Filter(s.query, s.catalog.Snapshot(), func(c catalog.Choice) string {
		return s.searchTarget(c, vars)
	})
	s.reconcile()
}

func (s *Selector) reconcile() {
	switch {
	case len(s.view) == 0:
		s.selected = -1
	case s.selected < 0:
		s.selected = 0
	case s.selected >= len(s.view):
		s.selected = len(s.view) - 1
	}
}

func (s *Selector) searchTarget(c catalog.Choice, vars []types.KeyValue) string {
	target := s.catalog.TrimmedPath(c.Path) + resolvedURL(c, vars)
	if c.Definition != nil {
		target += c.Definition.Description()
	}
	return target
}

func resolvedURL(c catalog.Choice, vars []types.KeyValue) string {
	if c.Definition == nil {
		return ""
	}
	url, _ := templating.Substitute(c.Definition.Request.URL, vars)
	return url
}

func (s *Selector) activeEnvironment() *parser.LoadedEnvironment {
	if s.activeEnv < 0 || s.activeEnv >= len(s.environments) {
		return nil
	}
	return &s.environments[s.activeEnv]
}

func (s *Selector) activeVariables() []types.KeyValue {
	if env := s.activeEnvironment(); env != nil && env.Env != nil {
		return env.Env.Variables
	}
	return nil
}

// Result returns the outcome once the program has exited
func (s *Selector) Result() Selection {
	if !s.confirmed {
		return Selection{}
	}
	sel := Selection{Path: s.primed, Confirmed: true}
	if env := s.activeEnvironment(); env != nil {
		sel.Environment = env.Env
		sel.EnvironmentPath = env.Path
	}
	return sel
}

// View renders the list above the query line
func (s *Selector) View() string {
	vars := s.activeVariables()
	rowWidth := 0
	if s.width > 0 {
		rowWidth = s.width - runewidth.StringWidth(HighlightSymbol) - RowRightMargin
	}

	rows := make([]string, len(s.view))
	for i, c := range s.view {
		rows[i] = s.renderRow(c, vars, rowWidth)
	}

	capacity := 0
	if s.height > 0 {
		capacity = s.height - SelectorFooterLines
		if capacity < 1 {
			capacity = 1
		}
	}

	var b strings.Builder
	lines := listLines(rows, s.selected, capacity, s.styles.Row, s.styles.Selected)
	if s.height > 0 {
		for i := len(lines); i < capacity; i++ {
			b.WriteString("\n")
		}
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(s.renderQuery())
	b.WriteString("\n")
	b.WriteString(s.help.View(s.helpKeys))
	return b.String()
}

func (s *Selector) renderRow(c catalog.Choice, vars []types.KeyValue, width int) string {
	switch {
	case c.Pending():
		return padRow(c.Path, "", width)
	case c.Failed():
		return padRow(c.Path, ParseFailureLabel, width)
	default:
		return padRow(c.Path, resolvedURL(c, vars), width)
	}
}

func (s *Selector) renderQuery() string {
	prompt := promptSymbol
	if env := s.activeEnvironment(); env != nil && env.Env != nil {
		prompt = env.Env.Name + " " + promptSymbol
	}
	line := s.styles.Prompt.Render(prompt) + s.query + "█"
	if !s.loaded {
		line += s.styles.Subtle.Render("  loading…")
	}
	return line
}
