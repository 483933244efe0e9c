package highlight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xmlStyle = `<style name="custom">
  <entry type="Text" style="#ffffff"/>
  <entry type="Background" style="bg:#000000"/>
</style>`

func TestResolveTheme(t *testing.T) {
	dracula := styles.Get("dracula")
	monokai := styles.Get("monokai")
	available := map[string]*chroma.Style{"dracula": dracula, "monokai": monokai}

	fallbackFile := filepath.Join(t.TempDir(), "custom.xml")
	require.NoError(t, os.WriteFile(fallbackFile, []byte(xmlStyle), 0644))

	t.Run("requested and available", func(t *testing.T) {
		style, err := ResolveTheme("dracula", available, fallbackFile)
		require.NoError(t, err)
		assert.Same(t, dracula, style)
	})

	t.Run("unknown name uses fallback file", func(t *testing.T) {
		style, err := ResolveTheme("nope", available, fallbackFile)
		require.NoError(t, err)
		assert.Equal(t, "custom", style.Name)
	})

	t.Run("nothing requested uses fallback file", func(t *testing.T) {
		style, err := ResolveTheme("", available, fallbackFile)
		require.NoError(t, err)
		assert.Equal(t, "custom", style.Name)
	})

	t.Run("nothing requested nor configured uses default", func(t *testing.T) {
		style, err := ResolveTheme("", available, "")
		require.NoError(t, err)
		assert.Same(t, monokai, style)
	})

	t.Run("unknown name without fallback is an error", func(t *testing.T) {
		_, err := ResolveTheme("nope", available, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dracula, monokai")
	})

	t.Run("broken fallback file is an error", func(t *testing.T) {
		_, err := ResolveTheme("nope", available, filepath.Join(t.TempDir(), "missing.xml"))
		assert.Error(t, err)
	})
}

// formatKeyword renders a single keyword token with f
func formatKeyword(t *testing.T, f chroma.Formatter) string {
	t.Helper()
	var sb strings.Builder
	it := chroma.Literator(chroma.Token{Type: chroma.Keyword, Value: "func"})
	require.NoError(t, f.Format(&sb, styles.Get("monokai"), it))
	return sb.String()
}

func TestFormatterFor(t *testing.T) {
	trueColor := FormatterFor(termenv.TrueColor)
	require.NotNil(t, trueColor)
	assert.Contains(t, formatKeyword(t, trueColor), "38;2;")

	ansi256 := FormatterFor(termenv.ANSI256)
	require.NotNil(t, ansi256)
	assert.Contains(t, formatKeyword(t, ansi256), "38;5;")

	ansi := FormatterFor(termenv.ANSI)
	require.NotNil(t, ansi)
	out := formatKeyword(t, ansi)
	assert.Contains(t, out, "\x1b[")
	assert.NotContains(t, out, "38;")

	assert.Nil(t, FormatterFor(termenv.Ascii))
}

func TestLexerFor_StructuredJSONSuffix(t *testing.T) {
	lexer := lexerFor(`{"a": 1}`, "application/vnd.api+json; charset=utf-8")
	assert.Equal(t, "JSON", lexer.Config().Name)
}

func TestHighlighter_Disabled(t *testing.T) {
	h := New(nil, nil)
	assert.False(t, h.Enabled())
	assert.Equal(t, `{"a":1}`, h.Body(`{"a":1}`, "application/json"))
}

func TestHighlighter_ColoursJSON(t *testing.T) {
	h := New(styles.Get("monokai"), formatters.TTY256)
	out := h.Body(`{"a": 1}`, "application/json; charset=utf-8")

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, `"a"`)
}

func TestHighlighter_UnknownContentTypeStillReturnsText(t *testing.T) {
	h := New(styles.Get("monokai"), formatters.TTY256)
	out := h.Body("plain words", "application/x-unknown")
	assert.True(t, strings.Contains(out, "plain") && strings.Contains(out, "words"))
}
