package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/studiowebux/rhc/internal/config"
	"github.com/studiowebux/rhc/internal/types"
)

// ErrDuplicateVariables is returned when an environment binds a name twice
var ErrDuplicateVariables = errors.New("duplicate variables")

// LoadedEnvironment is an environment together with the file it came from
type LoadedEnvironment struct {
	Path string
	Env  *types.Environment
}

// LoadEnvironment reads and validates the environment file at path
func LoadEnvironment(path string) (*types.Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	env, err := ParseEnvironment(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment %s: %w", path, err)
	}
	return env, nil
}

// ParseEnvironment parses environment data, using path only to pick the format
func ParseEnvironment(path string, data []byte) (*types.Environment, error) {
	var env types.Environment
	if err := config.DecodeFile(path, data, &env); err != nil {
		return nil, err
	}
	if env.Name == "" {
		return nil, fmt.Errorf("missing environment name")
	}

	if dups := duplicateNames(env.Variables); len(dups) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateVariables, strings.Join(dups, ", "))
	}
	return &env, nil
}

func duplicateNames(vars []types.KeyValue) []string {
	count := make(map[string]int, len(vars))
	for _, v := range vars {
		count[v.Name]++
	}

	var dups []string
	for name, n := range count {
		if n > 1 {
			dups = append(dups, name)
		}
	}
	sort.Strings(dups)
	return dups
}

// ListEnvironments loads every environment file under dir, sorted by path.
// A missing directory yields no environments.
func ListEnvironments(dir string) ([]LoadedEnvironment, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := config.FormatFor(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read environment directory %s: %w", dir, err)
	}

	sort.Strings(paths)

	envs := make([]LoadedEnvironment, 0, len(paths))
	for _, path := range paths {
		env, err := LoadEnvironment(path)
		if err != nil {
			return nil, err
		}
		envs = append(envs, LoadedEnvironment{Path: path, Env: env})
	}
	return envs, nil
}

// ParseBinding parses a name=value command line binding. The value may
// itself contain '='.
func ParseBinding(s string) (types.KeyValue, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return types.KeyValue{}, fmt.Errorf("invalid binding %q: expected name=value", s)
	}
	if name == "" {
		return types.KeyValue{}, fmt.Errorf("invalid binding %q: empty name", s)
	}
	return types.NewKeyValue(name, value), nil
}
