package tui

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/rhc/internal/keybinds"
)

// pasteMsg carries clipboard text into the focused query
type pasteMsg string

// readClipboard pastes the clipboard as a single line. A clipboard that
// can't be read pastes nothing.
func readClipboard() tea.Msg {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil
	}
	return pasteMsg(singleLine(text))
}

func singleLine(s string) string {
	s = strings.TrimRight(s, "\r\n")
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}

// CutToCurrentWordStart deletes the last word of s along with any spaces
// after it. The space before that word is kept.
func CutToCurrentWordStart(s string) string {
	runes := []rune(s)
	cutLetter := false
	for len(runes) > 0 {
		last := runes[len(runes)-1]
		runes = runes[:len(runes)-1]
		if last == ' ' {
			if cutLetter {
				return string(runes) + " "
			}
		} else {
			cutLetter = true
		}
	}
	return ""
}

// dropLastRune removes the final character of s
func dropLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}

// editQuery applies a text action to query. It reports whether the action
// was a text edit, and returns a command when one is needed (paste).
func editQuery(query string, action keybinds.Action) (string, tea.Cmd, bool) {
	switch action {
	case keybinds.ActionTextBackspace:
		return dropLastRune(query), nil, true
	case keybinds.ActionTextDeleteWord:
		return CutToCurrentWordStart(query), nil, true
	case keybinds.ActionTextClear:
		return "", nil, true
	case keybinds.ActionTextPaste:
		return query, readClipboard, true
	}
	return query, nil, false
}

// typedText returns the characters a key press inserts, if any
func typedText(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		return singleLine(string(msg.Runes)), true
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}
