package keybinds

import (
	"strings"
	"testing"
)

func TestNewValidator(t *testing.T) {
	v := NewValidator()

	if v == nil {
		t.Fatal("NewValidator returned nil")
	}

	if v.reservedKeys["ctrl+c"] != ActionCancel {
		t.Error("Expected ctrl+c to be reserved for cancel")
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name: "invalid error",
			err: ValidationError{
				Type:    "invalid",
				Context: ContextGlobal,
				Key:     "",
				Message: "empty key",
			},
			expected: "[invalid]  in context 'global': empty key",
		},
		{
			name: "warning",
			err: ValidationError{
				Type:    "warning",
				Context: ContextPrompt,
				Key:     "enter",
				Message: "shadows global binding",
			},
			expected: "[warning] enter in context 'prompt': shadows global binding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationResult_String(t *testing.T) {
	tests := []struct {
		name     string
		result   *ValidationResult
		contains []string
	}{
		{
			name:     "no issues",
			result:   &ValidationResult{},
			contains: []string{"No issues found"},
		},
		{
			name: "errors and warnings",
			result: &ValidationResult{
				Errors: []ValidationError{
					{Type: "invalid", Context: ContextSelector, Key: "x", Message: "unknown action"},
				},
				Warnings: []ValidationError{
					{Type: "warning", Context: ContextPrompt, Key: "enter", Message: "shadows"},
				},
			},
			contains: []string{"Errors (1)", "Warnings (1)", "invalid", "warning", "selector", "prompt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.result.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("String() output missing %q, got:\n%s", want, got)
				}
			}
		})
	}
}

func TestValidateOverrides(t *testing.T) {
	tests := []struct {
		name         string
		overrides    Overrides
		wantErrors   int
		wantWarnings int
	}{
		{
			name:      "valid selector override",
			overrides: Overrides{"selector": {"ctrl+n": "navigate_down"}},
		},
		{
			name:       "unknown context",
			overrides:  Overrides{"normal": {"q": "cancel"}},
			wantErrors: 1,
		},
		{
			name:       "unknown action",
			overrides:  Overrides{"prompt": {"ctrl+e": "open_editor"}},
			wantErrors: 1,
		},
		{
			name:       "empty key",
			overrides:  Overrides{"global": {"": "cancel"}},
			wantErrors: 1,
		},
		{
			name:       "modifier without key",
			overrides:  Overrides{"global": {"ctrl+": "cancel"}},
			wantErrors: 1,
		},
		{
			name:       "reserved key rebound",
			overrides:  Overrides{"selector": {"ctrl+c": "confirm"}},
			wantErrors: 1,
		},
		{
			name:      "reserved key kept",
			overrides: Overrides{"global": {"ctrl+c": "cancel"}},
		},
		{
			name:         "shadowing a global default",
			overrides:    Overrides{"prompt": {"enter": "toggle_history"}},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewValidator().ValidateOverrides(tt.overrides)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("errors = %d, want %d\n%s", len(result.Errors), tt.wantErrors, result.String())
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d\n%s", len(result.Warnings), tt.wantWarnings, result.String())
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"a", false},
		{"ctrl+w", false},
		{"shift+tab", false},
		{"", true},
		{"alt+", true},
	}

	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
	}
}

func TestValidateAction(t *testing.T) {
	for _, action := range Actions() {
		if err := ValidateAction(string(action)); err != nil {
			t.Errorf("ValidateAction(%q) = %v", action, err)
		}
	}
	if err := ValidateAction(""); err == nil {
		t.Error("expected error for empty action")
	}
	if err := ValidateAction("quit"); err == nil {
		t.Error("expected error for unknown action")
	}
}
