// Package catalog holds the request definitions found under a directory and
// fills in their parsed contents from a single background goroutine.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/studiowebux/rhc/internal/types"
)

// Choice is one definition file. Loaded flips to true exactly once, at which
// point either Definition or Err is set.
type Choice struct {
	Path       string
	Definition *types.Definition
	Err        error
	Loaded     bool
}

// Pending reports whether the loader has not reached this entry yet
func (c Choice) Pending() bool {
	return !c.Loaded
}

// Failed reports whether the entry was loaded but could not be parsed
func (c Choice) Failed() bool {
	return c.Loaded && c.Err != nil
}

// ParseFunc parses one definition file
type ParseFunc func(path string) (*types.Definition, error)

// Progress is sent on the loader channel after each entry is stored
type Progress struct {
	Index int
	Path  string
	Err   error
}

// Catalog is the ordered set of choices. Order is fixed at construction.
// All access goes through a single lock around the whole collection.
type Catalog struct {
	mu      sync.RWMutex
	root    string
	choices []Choice

	logger *zap.Logger

	once     sync.Once
	progress chan Progress
}

// New builds a catalog from already-known paths. Paths are sorted.
func New(root string, paths []string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}

	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	choices := make([]Choice, len(sorted))
	for i, p := range sorted {
		choices[i] = Choice{Path: p}
	}

	return &Catalog{
		root:    root,
		choices: choices,
		logger:  logger,
	}
}

// Discover walks root for files with one of the given extensions. Hidden
// directories are skipped. A missing root yields an empty catalog.
func Discover(root string, exts []string, logger *zap.Logger) (*Catalog, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // unreadable entries are skipped
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if hasExtension(path, exts) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read definition directory %s: %w", root, err)
	}

	c := New(root, paths, logger)
	c.logger.Debug("discovered definitions", zap.String("root", root), zap.Int("count", len(paths)))
	return c, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Root returns the directory the catalog was built from
func (c *Catalog) Root() string {
	return c.root
}

// Len returns the number of choices
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.choices)
}

// Snapshot returns a copy of every choice as of now
func (c *Catalog) Snapshot() []Choice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Choice, len(c.choices))
	copy(out, c.choices)
	return out
}

// Get returns the choice at index i
func (c *Catalog) Get(i int) (Choice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.choices) {
		return Choice{}, false
	}
	return c.choices[i], true
}

// store records the parse result for one entry
func (c *Catalog) store(i int, def *types.Definition, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.choices[i].Definition = def
	c.choices[i].Err = err
	c.choices[i].Loaded = true
}

// TrimmedPath returns path relative to the catalog root with its extension removed
func (c *Catalog) TrimmedPath(path string) string {
	trimmed := path
	if c.root != "" {
		if rel, err := filepath.Rel(c.root, path); err == nil && !strings.HasPrefix(rel, "..") {
			trimmed = rel
		}
	}
	return strings.TrimSuffix(trimmed, filepath.Ext(trimmed))
}

// StartLoader parses every choice in order on one goroutine. It runs at most
// once; later calls return the same channel. The channel is buffered for every
// entry so the loader never waits on a reader, and it is closed when loading
// finishes. Callers may stop reading at any time.
func (c *Catalog) StartLoader(parse ParseFunc) <-chan Progress {
	c.once.Do(func() {
		c.mu.RLock()
		paths := make([]string, len(c.choices))
		for i, ch := range c.choices {
			paths[i] = ch.Path
		}
		c.mu.RUnlock()

		c.progress = make(chan Progress, len(paths))
		go c.load(paths, parse)
	})
	return c.progress
}

func (c *Catalog) load(paths []string, parse ParseFunc) {
	defer close(c.progress)

	failed := 0
	for i, path := range paths {
		def, err := safeParse(parse, path)
		c.store(i, def, err)
		if err != nil {
			failed++
			c.logger.Warn("could not parse definition", zap.String("path", path), zap.Error(err))
		}
		c.progress <- Progress{Index: i, Path: path, Err: err}
	}

	c.logger.Debug("definition loading finished",
		zap.Int("total", len(paths)),
		zap.Int("failed", failed))
}

// safeParse keeps one broken file from taking down the loader
func safeParse(parse ParseFunc, path string) (def *types.Definition, err error) {
	defer func() {
		if r := recover(); r != nil {
			def = nil
			err = fmt.Errorf("panic while parsing %s: %v", path, r)
		}
	}()
	return parse(path)
}
