// Package history keeps the answers previously given to variable prompts in
// a CSV log, one (variable, value, environment) record per line.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/studiowebux/rhc/internal/config"
	"github.com/studiowebux/rhc/internal/types"
)

const fieldsPerRecord = 3

// Store is an open history log. The file stays open for append and read
// until Close, which also applies the size limit.
type Store struct {
	mu sync.Mutex

	path   string
	file   *os.File
	writer *csv.Writer

	entries []types.HistoryEntry // oldest first
	seen    map[types.HistoryEntry]struct{}
	added   int
	max     int

	// set when the file on disk does not end in a line break
	needsNewline bool

	logger *zap.Logger
}

// Open opens (creating if needed) the log at path and loads its entries.
// max <= 0 disables eviction.
func Open(path string, max int, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, config.FilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}

	s := &Store{
		path:   path,
		file:   file,
		writer: csv.NewWriter(file),
		seen:   make(map[types.HistoryEntry]struct{}),
		max:    max,
		logger: logger,
	}

	if err := s.load(); err != nil {
		file.Close()
		return nil, err
	}
	if err := s.checkTrailingNewline(); err != nil {
		file.Close()
		return nil, err
	}

	logger.Debug("history opened", zap.String("path", path), zap.Int("entries", len(s.entries)))
	return s, nil
}

func (s *Store) load() error {
	reader := csv.NewReader(s.file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read history file: %w", err)
		}
		if len(record) != fieldsPerRecord {
			s.logger.Warn("skipping malformed history record", zap.Int("fields", len(record)))
			continue
		}

		entry := types.HistoryEntry{
			VariableName:    record[0],
			Value:           record[1],
			EnvironmentName: record[2],
		}
		if _, dup := s.seen[entry]; dup {
			continue
		}
		s.seen[entry] = struct{}{}
		s.entries = append(s.entries, entry)
	}
}

func (s *Store) checkTrailingNewline() error {
	info, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat history file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := s.file.ReadAt(last, info.Size()-1); err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}
	s.needsNewline = last[0] != '\n'
	return nil
}

// Entries returns a copy of every entry, oldest first
func (s *Store) Entries() []types.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Count returns the number of distinct entries
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Contains reports whether an equal entry is already stored
func (s *Store) Contains(entry types.HistoryEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[entry]
	return ok
}

// Candidates returns the values recorded for a variable in an environment,
// most recent first
func (s *Store) Candidates(variable, environment string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.VariableName == variable && e.EnvironmentName == environment {
			out = append(out, e.Value)
		}
	}
	return out
}

// Record appends entry to the log and syncs it to disk before returning.
// Empty values and entries already present are ignored.
func (s *Store) Record(entry types.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Value == "" {
		return nil
	}
	if _, dup := s.seen[entry]; dup {
		return nil
	}
	if s.file == nil {
		return fmt.Errorf("history file %s is closed", s.path)
	}

	if s.needsNewline {
		if _, err := s.file.WriteString("\n"); err != nil {
			return fmt.Errorf("failed to write history entry: %w", err)
		}
		s.needsNewline = false
	}
	if err := s.writer.Write([]string{entry.VariableName, entry.Value, entry.EnvironmentName}); err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync history file: %w", err)
	}

	s.seen[entry] = struct{}{}
	s.entries = append(s.entries, entry)
	s.added++
	return nil
}

// Close releases the file. When the log holds more than the configured
// maximum, it is first rewritten with only the most recent entries.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	closeErr := s.file.Close()
	s.file = nil

	if s.max > 0 && len(s.entries) > s.max {
		dropped := len(s.entries) - s.max
		s.entries = append([]types.HistoryEntry(nil), s.entries[dropped:]...)
		s.seen = make(map[types.HistoryEntry]struct{}, len(s.entries))
		for _, e := range s.entries {
			s.seen[e] = struct{}{}
		}

		if err := s.rewrite(); err != nil {
			return err
		}
		s.logger.Debug("history evicted", zap.Int("dropped", dropped), zap.Int("kept", len(s.entries)))
	}

	s.logger.Debug("history closed", zap.Int("added", s.added))

	if closeErr != nil {
		return fmt.Errorf("failed to close history file: %w", closeErr)
	}
	return nil
}

// rewrite replaces the log with the in-memory entries through a temp file
func (s *Store) rewrite() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary history file: %w", err)
	}
	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)
	for _, e := range s.entries {
		if err := writer.Write([]string{e.VariableName, e.Value, e.EnvironmentName}); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to write history entry: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err := os.Chmod(tmpPath, config.FilePermissions); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set history file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
