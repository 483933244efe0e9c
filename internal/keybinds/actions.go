package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal   Context = "global"   // Available everywhere
	ContextSelector Context = "selector" // Request definition picker
	ContextPrompt   Context = "prompt"   // Variable prompt
)

const (
	ActionCancel Action = "cancel" // Leave without selecting or answering

	// Navigation actions
	ActionNavigateUp   Action = "navigate_up"   // Move up one item
	ActionNavigateDown Action = "navigate_down" // Move down one item

	// Text input actions
	ActionTextBackspace  Action = "text_backspace"   // Delete char before cursor
	ActionTextDeleteWord Action = "text_delete_word" // Delete word before cursor
	ActionTextClear      Action = "text_clear"       // Clear the whole query
	ActionTextPaste      Action = "text_paste"       // Paste from clipboard

	ActionConfirm Action = "confirm" // Select the highlighted entry or submit the answer

	// Selector
	ActionEnvironmentNext Action = "environment_next" // Cycle active environment forward
	ActionEnvironmentPrev Action = "environment_prev" // Cycle active environment backward

	// Prompt
	ActionToggleHistory Action = "toggle_history" // Switch between typing and browsing history
)

// Contexts lists every context a user config may name
func Contexts() []Context {
	return []Context{ContextGlobal, ContextSelector, ContextPrompt}
}

// Actions lists every known action
func Actions() []Action {
	return []Action{
		ActionCancel,
		ActionNavigateUp,
		ActionNavigateDown,
		ActionTextBackspace,
		ActionTextDeleteWord,
		ActionTextClear,
		ActionTextPaste,
		ActionConfirm,
		ActionEnvironmentNext,
		ActionEnvironmentPrev,
		ActionToggleHistory,
	}
}

// IsKnownAction reports whether a is one of Actions()
func IsKnownAction(a Action) bool {
	for _, known := range Actions() {
		if known == a {
			return true
		}
	}
	return false
}

// IsKnownContext reports whether c is one of Contexts()
func IsKnownContext(c Context) bool {
	for _, known := range Contexts() {
		if known == c {
			return true
		}
	}
	return false
}
