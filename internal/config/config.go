package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the permission mode for files the tool creates (read/write for owner only)
	FilePermissions = 0600
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultMaxHistoryItems caps the history log when the config doesn't say otherwise
	DefaultMaxHistoryItems = 1000
)

// Format identifies how a file is decoded
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Colors are the user-overridable interactive colors. Each value is a color
// name, rgb(r, g, b) or indexed(n); empty means "use the default".
type Colors struct {
	DefaultFg  string `toml:"default_fg" yaml:"default_fg"`
	DefaultBg  string `toml:"default_bg" yaml:"default_bg"`
	SelectedFg string `toml:"selected_fg" yaml:"selected_fg"`
	SelectedBg string `toml:"selected_bg" yaml:"selected_bg"`
	PromptFg   string `toml:"prompt_fg" yaml:"prompt_fg"`
	PromptBg   string `toml:"prompt_bg" yaml:"prompt_bg"`
	VariableFg string `toml:"variable_fg" yaml:"variable_fg"`
	VariableBg string `toml:"variable_bg" yaml:"variable_bg"`
}

// Config is the user configuration file
type Config struct {
	RequestDefinitionDirectory string `toml:"request_definition_directory" yaml:"request_definition_directory"`
	EnvironmentDirectory       string `toml:"environment_directory" yaml:"environment_directory"`
	HistoryFile                string `toml:"history_file" yaml:"history_file"`
	MaxHistoryItems            int    `toml:"max_history_items" yaml:"max_history_items"`

	Theme     string `toml:"theme" yaml:"theme"`
	ThemeFile string `toml:"theme_file" yaml:"theme_file"`
	Colors    Colors `toml:"colors" yaml:"colors"`

	ConnectTimeoutSeconds int `toml:"connect_timeout_seconds" yaml:"connect_timeout_seconds"`
	ReadTimeoutSeconds    int `toml:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	TimeoutSeconds        int `toml:"timeout_seconds" yaml:"timeout_seconds"`

	// Keybinds maps a context name to key -> action overrides
	Keybinds map[string]map[string]string `toml:"keybinds" yaml:"keybinds"`

	LogFile string `toml:"log_file" yaml:"log_file"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		RequestDefinitionDirectory: "~/rhc/definitions",
		EnvironmentDirectory:       "~/rhc/environments",
		HistoryFile:                "~/.rhc_history",
		MaxHistoryItems:            DefaultMaxHistoryItems,
	}
}

// DefaultPath returns ~/.config/rhc/config.toml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "rhc", "config.toml"), nil
}

// Load reads the configuration at path on top of the defaults. When path is
// empty the default location is used and a missing file is not an error.
// Path fields are returned with ~ expanded.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := DecodeFile(path, data, &cfg); err != nil {
			return Config{}, fmt.Errorf("could not load config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults only
	default:
		return Config{}, fmt.Errorf("could not load config file %s: %w", path, err)
	}

	return cfg.expand()
}

// expand resolves ~ in every path field
func (c Config) expand() (Config, error) {
	fields := []*string{
		&c.RequestDefinitionDirectory,
		&c.EnvironmentDirectory,
		&c.HistoryFile,
		&c.ThemeFile,
		&c.LogFile,
	}
	for _, field := range fields {
		expanded, err := ExpandPath(*field)
		if err != nil {
			return Config{}, err
		}
		*field = expanded
	}
	return c, nil
}

// ConnectTimeout returns the dial timeout, zero meaning none
func (c Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// ReadTimeout returns the response header timeout, zero meaning none
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// Timeout returns the overall request timeout, zero meaning none
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, path[2:]), nil
}

// FormatFor returns the decoding format for a file path based on its extension
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// Extensions lists the file extensions DecodeFile understands
func Extensions() []string {
	return []string{".toml", ".yaml", ".yml"}
}

// DecodeFile decodes data into v using the format implied by path
func DecodeFile(path string, data []byte, v any) error {
	format, ok := FormatFor(path)
	if !ok {
		return fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
	return Decode(data, format, v)
}

// Decode decodes data in the given format into v
func Decode(data []byte, format Format, v any) error {
	switch format {
	case FormatTOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
			return err
		}
	case FormatYAML:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := yaml.Unmarshal(data, v); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}
