// Package highlight colours response bodies for the terminal.
package highlight

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"

	"github.com/studiowebux/rhc/internal/filter"
)

// DefaultTheme is used when the config names no theme
const DefaultTheme = "monokai"

// ResolveTheme picks the style to highlight with. A requested name found in
// available wins; otherwise the XML style at fallbackFile is loaded when set;
// otherwise DefaultTheme is used, unless a name was requested and could not
// be found, which is an error.
func ResolveTheme(requested string, available map[string]*chroma.Style, fallbackFile string) (*chroma.Style, error) {
	if requested != "" {
		if style, ok := available[requested]; ok {
			return style, nil
		}
	}

	if fallbackFile != "" {
		style, err := loadStyleFile(fallbackFile)
		if err != nil {
			return nil, err
		}
		return style, nil
	}

	if requested != "" {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", requested, strings.Join(themeNames(available), ", "))
	}

	if style, ok := available[DefaultTheme]; ok {
		return style, nil
	}
	return styles.Fallback, nil
}

// Themes returns the built-in chroma styles by name
func Themes() map[string]*chroma.Style {
	return styles.Registry
}

func loadStyleFile(path string) (*chroma.Style, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open theme file: %w", err)
	}
	defer f.Close()

	style, err := chroma.NewXMLStyle(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse theme file %s: %w", path, err)
	}
	return style, nil
}

func themeNames(available map[string]*chroma.Style) []string {
	names := make([]string, 0, len(available))
	for name := range available {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatterFor returns the chroma formatter matching a terminal colour
// profile, or nil when the terminal has no colour
func FormatterFor(profile termenv.Profile) chroma.Formatter {
	switch profile {
	case termenv.TrueColor:
		return formatters.TTY16m
	case termenv.ANSI256:
		return formatters.TTY256
	case termenv.ANSI:
		return formatters.TTY8
	default:
		return nil
	}
}

// Highlighter colours bodies with one style and formatter
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// New creates a highlighter. A nil formatter disables colouring.
func New(style *chroma.Style, formatter chroma.Formatter) *Highlighter {
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{style: style, formatter: formatter}
}

// Enabled reports whether Body will add colour
func (h *Highlighter) Enabled() bool {
	return h != nil && h.formatter != nil
}

// Body highlights body using a lexer chosen from contentType, falling back to
// content analysis. The body is returned unchanged when highlighting is
// disabled or fails.
func (h *Highlighter) Body(body, contentType string) string {
	if !h.Enabled() || body == "" {
		return body
	}

	lexer := lexerFor(body, contentType)
	iterator, err := lexer.Tokenise(nil, body)
	if err != nil {
		return body
	}

	var sb strings.Builder
	if err := h.formatter.Format(&sb, h.style, iterator); err != nil {
		return body
	}
	return sb.String()
}

func lexerFor(body, contentType string) chroma.Lexer {
	var lexer chroma.Lexer
	if mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]); mediaType != "" {
		lexer = lexers.MatchMimeType(mediaType)
		if lexer == nil && filter.IsJSONContentType(mediaType) {
			lexer = lexers.Get("json")
		}
	}
	if lexer == nil {
		lexer = lexers.Analyse(body)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
