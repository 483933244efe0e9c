package tui

import (
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/rhc/internal/catalog"
	"github.com/studiowebux/rhc/internal/parser"
	"github.com/studiowebux/rhc/internal/types"
)

// CreateLoadedCatalog creates a catalog under /defs whose entries are already
// parsed. defs maps a relative path (with extension) to its URL.
func CreateLoadedCatalog(t *testing.T, defs map[string]string) *catalog.Catalog {
	t.Helper()

	paths := make([]string, 0, len(defs))
	urls := make(map[string]string, len(defs))
	for rel, url := range defs {
		path := "/defs/" + rel
		paths = append(paths, path)
		urls[path] = url
	}

	c := catalog.New("/defs", paths, nil)
	for range c.StartLoader(func(path string) (*types.Definition, error) {
		url, ok := urls[path]
		if !ok || url == "" {
			return nil, errors.New("bad definition")
		}
		return &types.Definition{Request: types.Request{Method: types.MethodGet, URL: url}}, nil
	}) {
	}
	return c
}

// CreateTestEnvironment builds an environment loaded from path
func CreateTestEnvironment(path, name string, vars ...types.KeyValue) parser.LoadedEnvironment {
	return parser.LoadedEnvironment{
		Path: path,
		Env:  &types.Environment{Name: name, Variables: vars},
	}
}

// KeyPress builds the message for a named key such as "enter" or "ctrl+w"
func KeyPress(name string) tea.KeyMsg {
	keys := map[string]tea.KeyType{
		"enter":     tea.KeyEnter,
		"esc":       tea.KeyEsc,
		"tab":       tea.KeyTab,
		"shift+tab": tea.KeyShiftTab,
		"up":        tea.KeyUp,
		"down":      tea.KeyDown,
		"backspace": tea.KeyBackspace,
		"ctrl+c":    tea.KeyCtrlC,
		"ctrl+u":    tea.KeyCtrlU,
		"ctrl+w":    tea.KeyCtrlW,
		"ctrl+k":    tea.KeyCtrlK,
		"ctrl+j":    tea.KeyCtrlJ,
		" ":         tea.KeySpace,
	}
	if k, ok := keys[name]; ok {
		return tea.KeyMsg{Type: k}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// TypeText sends every character of text to model as key presses
func TypeText(model tea.Model, text string) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range text {
		_, cmd = model.Update(KeyPress(string(r)))
	}
	return cmd
}

// IsQuit reports whether cmd is tea.Quit
func IsQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// fakeHistory is an in-memory HistorySource
type fakeHistory struct {
	mu        sync.Mutex
	entries   []types.HistoryEntry
	recorded  []types.HistoryEntry
	recordErr error
}

func newFakeHistory(entries ...types.HistoryEntry) *fakeHistory {
	return &fakeHistory{entries: entries}
}

func (h *fakeHistory) Candidates(variable, environment string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for i := len(h.entries) - 1; i >= 0; i-- {
		e := h.entries[i]
		if e.VariableName == variable && e.EnvironmentName == environment {
			out = append(out, e.Value)
		}
	}
	return out
}

func (h *fakeHistory) Record(entry types.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.recordErr != nil {
		return h.recordErr
	}
	h.entries = append(h.entries, entry)
	h.recorded = append(h.recorded, entry)
	return nil
}
