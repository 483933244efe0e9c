package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerSelectorBindings(r)
	registerPromptBindings(r)

	return r
}

// registerGlobalBindings sets up bindings shared by the picker and the prompt
func registerGlobalBindings(r *Registry) {
	r.RegisterMultiple(ContextGlobal, []string{"ctrl+c", "esc"}, ActionCancel)
	r.RegisterMultiple(ContextGlobal, []string{"up", "ctrl+k", "ctrl+p"}, ActionNavigateUp)
	r.RegisterMultiple(ContextGlobal, []string{"down", "ctrl+j", "ctrl+n"}, ActionNavigateDown)
	r.Register(ContextGlobal, "backspace", ActionTextBackspace)
	r.Register(ContextGlobal, "ctrl+w", ActionTextDeleteWord)
	r.Register(ContextGlobal, "ctrl+u", ActionTextClear)
	r.RegisterMultiple(ContextGlobal, []string{"ctrl+v", "shift+insert"}, ActionTextPaste)
	r.Register(ContextGlobal, "enter", ActionConfirm)
}

func registerSelectorBindings(r *Registry) {
	r.Register(ContextSelector, "tab", ActionEnvironmentNext)
	r.Register(ContextSelector, "shift+tab", ActionEnvironmentPrev)
}

func registerPromptBindings(r *Registry) {
	r.Register(ContextPrompt, "tab", ActionToggleHistory)
}
