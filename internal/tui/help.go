package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/studiowebux/rhc/internal/keybinds"
)

// helpEntry names an action shown in the help line
type helpEntry struct {
	action keybinds.Action
	desc   string
}

var selectorHelp = []helpEntry{
	{keybinds.ActionConfirm, "send"},
	{keybinds.ActionEnvironmentNext, "environment"},
	{keybinds.ActionNavigateUp, "up"},
	{keybinds.ActionNavigateDown, "down"},
	{keybinds.ActionCancel, "quit"},
}

var promptHelp = []helpEntry{
	{keybinds.ActionConfirm, "answer"},
	{keybinds.ActionToggleHistory, "history"},
	{keybinds.ActionCancel, "abort"},
}

// helpKeys adapts registry bindings to help.KeyMap
type helpKeys struct {
	bindings []key.Binding
}

func newHelpKeys(reg *keybinds.Registry, context keybinds.Context, entries []helpEntry) helpKeys {
	var bindings []key.Binding
	for _, e := range entries {
		keys := reg.GetBinding(context, e.action)
		if len(keys) == 0 {
			continue
		}
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(reg.GetBindingString(context, e.action), e.desc),
		))
	}
	return helpKeys{bindings: bindings}
}

func (k helpKeys) ShortHelp() []key.Binding {
	return k.bindings
}

func (k helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.bindings}
}

func newHelpModel(styles Styles) help.Model {
	h := help.New()
	h.ShortSeparator = " │ "
	h.Styles.ShortKey = styles.Subtle
	h.Styles.ShortDesc = styles.Subtle
	h.Styles.ShortSeparator = styles.Subtle
	return h
}
