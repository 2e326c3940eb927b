// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists each pipeline stage's output per run date so that
// an interrupted run resumes from the last completed stage.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-radar/pkg/types"
)

// Store is the stage-output repository. Entries are keyed by (stage, run
// date) only; configuration is not part of the key, so changing it without
// forcing a rerun reuses cached results.
type Store interface {
	// Get returns the cached output for a stage, or ok=false on a miss.
	// A miss is not an error: it signals the orchestrator to execute the
	// stage. An unreadable or malformed entry is also a miss.
	Get(stage string, date time.Time) (papers []types.Paper, ok bool)

	// Put durably stores a stage's output. A stage counts as complete only
	// once Put returns; a crash beforehand leaves no entry, so the stage
	// reruns from scratch.
	Put(stage string, date time.Time, papers []types.Paper) error

	// Invalidate removes every stage entry for the run date.
	Invalidate(date time.Time) error
}

const dateLayout = "2006-01-02"

// FileStore keeps one YAML artifact per stage per run date under a cache
// directory, e.g. cache/rank_2026-08-29.yaml.
type FileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates the cache directory if needed and returns a store
// over it.
func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(stage string, date time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.yaml", stage, date.Format(dateLayout)))
}

// Get loads a stage artifact. Corrupt artifacts are reported as misses so
// the stage recomputes.
func (s *FileStore) Get(stage string, date time.Time) ([]types.Paper, bool) {
	path := s.path(stage, date)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Str("stage", stage).Err(err).Msg("cache read failed, treating as miss")
		}
		return nil, false
	}

	var papers []types.Paper
	if err := yaml.Unmarshal(data, &papers); err != nil {
		s.logger.Warn().Str("stage", stage).Err(err).Msg("cache artifact malformed, treating as miss")
		return nil, false
	}
	return papers, true
}

// Put writes the artifact atomically: the output is marshaled to a temp
// file in the cache directory and renamed into place, so readers never see
// a partial entry.
func (s *FileStore) Put(stage string, date time.Time, papers []types.Paper) error {
	data, err := yaml.Marshal(papers)
	if err != nil {
		return fmt.Errorf("marshaling %s output: %w", stage, err)
	}

	tmp, err := os.CreateTemp(s.dir, stage+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cache artifact: %w", err)
	}

	if err := os.Rename(tmpName, s.path(stage, date)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing cache artifact: %w", err)
	}
	return nil
}

// Invalidate removes all artifacts for the run date.
func (s *FileStore) Invalidate(date time.Time) error {
	suffix := "_" + date.Format(dateLayout) + ".yaml"
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("removing %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Memory is an in-memory Store for tests and dry runs.
type Memory struct {
	entries map[string][]types.Paper
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]types.Paper)}
}

func memKey(stage string, date time.Time) string {
	return stage + "_" + date.Format(dateLayout)
}

// Get returns the stored output for the key, if any.
func (m *Memory) Get(stage string, date time.Time) ([]types.Paper, bool) {
	papers, ok := m.entries[memKey(stage, date)]
	return papers, ok
}

// Put stores the output under the key.
func (m *Memory) Put(stage string, date time.Time, papers []types.Paper) error {
	m.entries[memKey(stage, date)] = papers
	return nil
}

// Invalidate drops every entry for the run date.
func (m *Memory) Invalidate(date time.Time) error {
	suffix := "_" + date.Format(dateLayout)
	for k := range m.entries {
		if strings.HasSuffix(k, suffix) {
			delete(m.entries, k)
		}
	}
	return nil
}
