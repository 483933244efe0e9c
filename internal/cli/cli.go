// Package cli wires configuration, the picker, the variable prompt and the
// HTTP client into one run of rhc.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/studiowebux/rhc/internal/catalog"
	"github.com/studiowebux/rhc/internal/config"
	"github.com/studiowebux/rhc/internal/executor"
	"github.com/studiowebux/rhc/internal/filter"
	"github.com/studiowebux/rhc/internal/highlight"
	"github.com/studiowebux/rhc/internal/history"
	"github.com/studiowebux/rhc/internal/keybinds"
	"github.com/studiowebux/rhc/internal/logging"
	"github.com/studiowebux/rhc/internal/parser"
	"github.com/studiowebux/rhc/internal/templating"
	"github.com/studiowebux/rhc/internal/tui"
	"github.com/studiowebux/rhc/internal/types"
)

// ErrNoInteractive is returned when no definition file was given and the
// picker is disabled
var ErrNoInteractive = errors.New("no request definition file given and interactive mode is disabled")

// Options contains everything a run needs from the command line
type Options struct {
	File          string   // definition to send; skips the picker
	Environment   string   // environment file path
	Bindings      []string // name=value pairs applied after the environment
	ConfigPath    string
	OnlyBody      bool
	Headers       bool // print response headers after the status line
	Verbose       bool
	NoInteractive bool
	Query         string // JMESPath expression applied to JSON responses
	NoColor       bool

	// Terminal streams; nil means the process's own
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o *Options) streams() (io.Reader, io.Writer, io.Writer) {
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	var errOut io.Writer = os.Stderr
	if o.Stdin != nil {
		in = o.Stdin
	}
	if o.Stdout != nil {
		out = o.Stdout
	}
	if o.Stderr != nil {
		errOut = o.Stderr
	}
	return in, out, errOut
}

// Run picks (or loads) a definition, fills in its variables, sends it and
// prints the response. Cancelling the picker or the prompt is not an error.
func Run(ctx context.Context, opts Options) error {
	stdin, stdout, stderr := opts.streams()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFile, opts.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	bindings, err := parseBindings(opts.Bindings)
	if err != nil {
		return err
	}

	if opts.File == "" && opts.NoInteractive {
		return ErrNoInteractive
	}

	var ui *interactive
	if !opts.NoInteractive {
		ui, err = newInteractive(cfg, stdin, stderr, logger)
		if err != nil {
			return err
		}
	}

	path := opts.File
	var env *types.Environment
	if opts.Environment != "" {
		env, err = parser.LoadEnvironment(opts.Environment)
		if err != nil {
			return err
		}
	}

	if path == "" {
		selection, err := ui.pick(ctx, cfg, opts.Environment, env)
		if err != nil {
			return err
		}
		if !selection.Confirmed {
			logger.Debug("picker cancelled")
			return nil
		}
		path = selection.Path
		env = selection.Environment
	}

	def, err := parser.LoadDefinition(path)
	if err != nil {
		return err
	}

	envName := ""
	if env != nil {
		templating.SubstituteAll(def, env.Variables)
		envName = env.Name
	}
	templating.SubstituteAll(def, bindings)

	if unbound := templating.ListUnboundVariables(def); len(unbound) > 0 {
		if ui == nil {
			// sent as-is
			logger.Debug("unbound variables left in request", zap.Strings("names", unbound))
		} else {
			answers, err := ui.ask(ctx, cfg, unbound, envName)
			if err != nil {
				return err
			}
			if answers.Aborted {
				logger.Debug("prompt cancelled")
				return nil
			}
			templating.SubstituteAll(def, answers.Values)
		}
	}

	client := executor.New(executor.Options{
		ConnectTimeout: cfg.ConnectTimeout(),
		ReadTimeout:    cfg.ReadTimeout(),
		Timeout:        cfg.Timeout(),
	}, logger)

	resp, err := client.Do(ctx, def)
	if err != nil {
		return fmt.Errorf("failed sending request: %w", err)
	}
	logger.Info("response received",
		zap.Int("status", resp.Status),
		zap.String("duration", executor.FormatDuration(resp.Duration)),
		zap.String("size", executor.FormatSize(len(resp.Body))))

	if opts.Query != "" {
		if !filter.IsJSONContentType(resp.ContentType) {
			fmt.Fprintf(stderr, "Warning: --query ignored, response is %q, not JSON\n", resp.ContentType)
		} else if filtered, err := filter.Apply(resp.Body, opts.Query); err != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		} else {
			resp.Body = filtered
		}
	}

	profile := termenv.Ascii
	if !opts.NoColor {
		profile = termenv.NewOutput(stdout).ColorProfile()
	}
	hl, err := newHighlighter(cfg, profile)
	if err != nil {
		return err
	}
	return WriteResponse(stdout, resp, Output{
		Highlighter: hl,
		Profile:     profile,
		OnlyBody:    opts.OnlyBody,
		Headers:     opts.Headers,
	})
}

func parseBindings(raw []string) ([]types.KeyValue, error) {
	out := make([]types.KeyValue, 0, len(raw))
	for _, s := range raw {
		kv, err := parser.ParseBinding(s)
		if err != nil {
			return nil, err
		}
		out = append(out, kv)
	}
	return out, nil
}

// newHighlighter returns a colouring highlighter for a colour profile, and a
// pass-through one for plain output
func newHighlighter(cfg config.Config, profile termenv.Profile) (*highlight.Highlighter, error) {
	formatter := highlight.FormatterFor(profile)
	if formatter == nil {
		return highlight.New(nil, nil), nil
	}
	style, err := highlight.ResolveTheme(cfg.Theme, highlight.Themes(), cfg.ThemeFile)
	if err != nil {
		return nil, err
	}
	return highlight.New(style, formatter), nil
}

// Output controls how a response is printed
type Output struct {
	Highlighter *highlight.Highlighter // nil prints the body as-is
	Profile     termenv.Profile        // colours the status line
	OnlyBody    bool
	Headers     bool
}

// WriteResponse prints the status line, optionally the headers, and the
// body. With OnlyBody set only the body is printed.
func WriteResponse(w io.Writer, resp *types.Response, out Output) error {
	var sb strings.Builder
	if !out.OnlyBody {
		sb.WriteString(statusLine(out.Profile, resp))
		sb.WriteString("\n")
		if out.Headers {
			writeHeaders(&sb, resp.Headers)
		}
	}
	sb.WriteString(out.Highlighter.Body(resp.Body, resp.ContentType))
	if !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// statusLine colours the status text by class: 2xx green, 4xx yellow, 5xx red
func statusLine(profile termenv.Profile, resp *types.Response) string {
	style := profile.String(resp.StatusText)
	switch {
	case executor.IsSuccessStatus(resp.Status):
		style = style.Foreground(profile.Color("2"))
	case executor.IsClientErrorStatus(resp.Status):
		style = style.Foreground(profile.Color("3"))
	case executor.IsServerErrorStatus(resp.Status):
		style = style.Foreground(profile.Color("1"))
	}
	return style.String()
}

// writeHeaders writes headers sorted by name followed by a blank line
func writeHeaders(sb *strings.Builder, headers map[string]string) {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(sb, "%s: %s\n", name, headers[name])
	}
	sb.WriteString("\n")
}

// interactive holds what the picker and prompt share
type interactive struct {
	keys   *keybinds.Registry
	styles tui.Styles
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
}

func newInteractive(cfg config.Config, in io.Reader, out io.Writer, logger *zap.Logger) (*interactive, error) {
	keys, err := keybinds.LoadOrDefault(keybinds.Overrides(cfg.Keybinds))
	if err != nil {
		return nil, fmt.Errorf("invalid keybinds in config: %w", err)
	}

	styles, err := tui.NewStyles(cfg.Colors)
	if err != nil {
		// bad colours fall back to the defaults
		logger.Warn("invalid colors in config", zap.Error(err))
	}

	for _, context := range []keybinds.Context{keybinds.ContextSelector, keybinds.ContextPrompt} {
		for _, b := range keys.ListBindings(context) {
			logger.Debug("keybinding",
				zap.String("context", string(context)),
				zap.String("scope", string(b.Context)),
				zap.String("key", b.Key),
				zap.String("action", string(b.Action)))
		}
	}

	tui.UseOutput(out)
	return &interactive{keys: keys, styles: styles, in: in, out: out, logger: logger}, nil
}

// pick runs the definition picker. preselect is the --environment path; when
// it isn't one of the listed environments it is offered as well.
func (ui *interactive) pick(ctx context.Context, cfg config.Config, preselect string, preloaded *types.Environment) (tui.Selection, error) {
	envs, err := parser.ListEnvironments(cfg.EnvironmentDirectory)
	if err != nil {
		return tui.Selection{}, err
	}
	if preloaded != nil && !hasEnvironment(envs, preselect) {
		envs = append(envs, parser.LoadedEnvironment{Path: preselect, Env: preloaded})
	}

	cat, err := catalog.Discover(cfg.RequestDefinitionDirectory, parser.Extensions(), ui.logger)
	if err != nil {
		return tui.Selection{}, err
	}
	progress := cat.StartLoader(parser.LoadDefinition)

	selector := tui.NewSelector(cat, progress, tui.SelectorOptions{
		Environments:         envs,
		PreselectEnvironment: preselect,
		Keys:                 ui.keys,
		Styles:               &ui.styles,
	})
	return tui.RunSelector(ctx, selector, ui.in, ui.out)
}

func hasEnvironment(envs []parser.LoadedEnvironment, path string) bool {
	for _, e := range envs {
		if e.Path == path {
			return true
		}
	}
	return false
}

// ask prompts for every unbound variable, backed by the history file
func (ui *interactive) ask(ctx context.Context, cfg config.Config, names []string, envName string) (tui.Answers, error) {
	store, err := history.Open(cfg.HistoryFile, cfg.MaxHistoryItems, ui.logger)
	if err != nil {
		return tui.Answers{}, err
	}

	prompt := tui.NewPrompt(names, envName, store, tui.PromptOptions{
		Keys:   ui.keys,
		Styles: &ui.styles,
	})
	answers, runErr := tui.RunPrompt(ctx, prompt, ui.in, ui.out)

	if err := store.Close(); err != nil {
		if runErr == nil {
			return tui.Answers{}, err
		}
		ui.logger.Warn("failed to close history", zap.Error(err))
	}
	return answers, runErr
}
