package tui

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/studiowebux/rhc/internal/config"
)

var (
	rgbPattern     = regexp.MustCompile(`^rgb\((\d+),\s*(\d+),\s*(\d+)\)$`)
	indexedPattern = regexp.MustCompile(`^indexed\((\d+)\)$`)
)

// ANSI indexes of the named colours
var namedColors = map[string]string{
	"black":        "0",
	"red":          "1",
	"green":        "2",
	"yellow":       "3",
	"blue":         "4",
	"magenta":      "5",
	"cyan":         "6",
	"gray":         "7",
	"darkgray":     "8",
	"lightred":     "9",
	"lightgreen":   "10",
	"lightyellow":  "11",
	"lightblue":    "12",
	"lightmagenta": "13",
	"lightcyan":    "14",
	"white":        "15",
}

// ParseColor parses a colour name, rgb(r, g, b) or indexed(n)
func ParseColor(s string) (lipgloss.Color, error) {
	lowered := strings.ToLower(strings.TrimSpace(s))

	if idx, ok := namedColors[lowered]; ok {
		return lipgloss.Color(idx), nil
	}

	if m := rgbPattern.FindStringSubmatch(lowered); m != nil {
		var rgb [3]uint8
		for i := range rgb {
			v, err := strconv.ParseUint(m[i+1], 10, 8)
			if err != nil {
				return "", fmt.Errorf("could not parse %q as an RGB color", s)
			}
			rgb[i] = uint8(v)
		}
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])), nil
	}

	if m := indexedPattern.FindStringSubmatch(lowered); m != nil {
		v, err := strconv.ParseUint(m[1], 10, 8)
		if err != nil {
			return "", fmt.Errorf("could not parse %q as an indexed color", s)
		}
		return lipgloss.Color(strconv.FormatUint(v, 10)), nil
	}

	return "", fmt.Errorf("unknown color %q", s)
}

// Styles are the interactive styles derived from the config colours
type Styles struct {
	Row      lipgloss.Style
	Selected lipgloss.Style
	Prompt   lipgloss.Style
	Variable lipgloss.Style
	Subtle   lipgloss.Style
}

// DefaultStyles returns the styles used without any colour configuration
func DefaultStyles() Styles {
	s, _ := NewStyles(config.Colors{})
	return s
}

// NewStyles builds styles from configured colours. Invalid colours fall back
// to the default for that field; the returned error lists them.
func NewStyles(colors config.Colors) (Styles, error) {
	var errs []error
	color := func(value string, fallback lipgloss.TerminalColor) lipgloss.TerminalColor {
		if value == "" {
			return fallback
		}
		c, err := ParseColor(value)
		if err != nil {
			errs = append(errs, err)
			return fallback
		}
		return c
	}

	none := lipgloss.NoColor{}

	row := lipgloss.NewStyle().
		Foreground(color(colors.DefaultFg, none)).
		Background(color(colors.DefaultBg, none))

	styles := Styles{
		Row: row,
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(colors.SelectedFg, lipgloss.Color(namedColors["green"]))).
			Background(color(colors.SelectedBg, none)),
		Prompt: lipgloss.NewStyle().
			Foreground(color(colors.PromptFg, lipgloss.Color(namedColors["lightmagenta"]))).
			Background(color(colors.PromptBg, none)),
		Variable: lipgloss.NewStyle().
			Foreground(color(colors.VariableFg, lipgloss.Color(namedColors["lightmagenta"]))).
			Background(color(colors.VariableBg, none)),
		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}),
	}

	return styles, errors.Join(errs...)
}

// padRow lays out left and right on one line of the given width, right
// flush against the edge. Without a width the parts are separated by two
// spaces; when they don't fit the line is truncated.
func padRow(left, right string, width int) string {
	if right == "" {
		if width > 0 {
			return runewidth.Truncate(left, width, "…")
		}
		return left
	}
	if width <= 0 {
		return left + "  " + right
	}

	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		return runewidth.Truncate(left+" "+right, width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

// visibleWindow returns the [start, end) range of rows to draw so that
// selected stays on screen
func visibleWindow(total, selected, capacity int) (int, int) {
	if capacity <= 0 || total <= capacity {
		return 0, total
	}
	start := 0
	if selected >= capacity {
		start = selected - capacity + 1
	}
	return start, start + capacity
}

// listLines renders rows bottom-up: rows[0] is the last line returned
func listLines(rows []string, selected int, capacity int, row, highlight lipgloss.Style) []string {
	start, end := visibleWindow(len(rows), selected, capacity)
	lines := make([]string, 0, end-start)
	for i := end - 1; i >= start; i-- {
		if i == selected {
			lines = append(lines, highlight.Render(HighlightSymbol+rows[i]))
		} else {
			lines = append(lines, row.Render(strings.Repeat(" ", len(HighlightSymbol))+rows[i]))
		}
	}
	return lines
}
