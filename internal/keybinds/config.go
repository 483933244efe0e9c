package keybinds

import (
	"fmt"
	"sort"
)

// Overrides maps a context name to key -> action name, as read from the
// keybinds table of the user config
type Overrides map[string]map[string]string

// ApplyOverrides validates the overrides and applies them to registry.
// User bindings replace defaults for the same key; nothing is applied when
// validation fails.
func ApplyOverrides(registry *Registry, overrides Overrides) error {
	result := NewValidator().ValidateOverrides(overrides)
	if result.HasErrors() {
		return fmt.Errorf("invalid keybinds configuration:\n%s", result.String())
	}

	for _, contextName := range sortedContexts(overrides) {
		context := Context(contextName)
		for key, actionStr := range overrides[contextName] {
			registry.Register(context, key, Action(actionStr))
		}
	}

	return nil
}

// LoadOrDefault returns the default registry with the user's overrides applied
func LoadOrDefault(overrides Overrides) (*Registry, error) {
	registry := NewDefaultRegistry()
	if len(overrides) == 0 {
		return registry, nil
	}

	if err := ApplyOverrides(registry, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}
	return registry, nil
}

func sortedContexts(overrides Overrides) []string {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
