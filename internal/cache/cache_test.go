// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-radar/pkg/types"
)

var day = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

func testStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s, dir
}

func somePapers() []types.Paper {
	score := 4.5
	return []types.Paper{
		{ID: "2301.00001", Title: "Paper A", Authors: []string{"Ada", "Ben"},
			Abstract: "An abstract.", Source: types.SourceArxiv,
			URL: "https://arxiv.org/abs/2301.00001", RelevanceScore: &score},
		{ID: "2301.00002", Title: "Paper B", Source: types.SourceHuggingFace},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, _ := testStore(t)
	papers := somePapers()

	if err := s.Put("rank", day, papers); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := s.Get("rank", day)
	if !ok {
		t.Fatal("Get() missed immediately after Put()")
	}
	if len(got) != 2 || got[0].ID != "2301.00001" || got[0].Score() != 4.5 {
		t.Errorf("Get() = %+v, want the stored papers with scores intact", got)
	}
	if got[1].RelevanceScore != nil {
		t.Errorf("unscored paper came back with score %v", *got[1].RelevanceScore)
	}
}

func TestFileStoreMissOnUnknownKey(t *testing.T) {
	s, _ := testStore(t)
	if _, ok := s.Get("rank", day); ok {
		t.Error("Get() hit on an empty cache")
	}

	if err := s.Put("rank", day, somePapers()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := s.Get("fetch", day); ok {
		t.Error("Get() hit for a different stage")
	}
	if _, ok := s.Get("rank", day.AddDate(0, 0, 1)); ok {
		t.Error("Get() hit for a different date")
	}
}

func TestFileStoreEmptyOutputIsAHit(t *testing.T) {
	s, _ := testStore(t)

	if err := s.Put("filtered", day, []types.Paper{}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, ok := s.Get("filtered", day)
	if !ok {
		t.Fatal("an empty stage output must still be a cache hit")
	}
	if len(got) != 0 {
		t.Errorf("Get() = %v, want empty", got)
	}
}

func TestFileStoreCorruptArtifactIsAMiss(t *testing.T) {
	s, dir := testStore(t)

	path := filepath.Join(dir, "rank_"+day.Format(dateLayout)+".yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("rank", day); ok {
		t.Error("corrupt artifact should read as a miss")
	}
}

func TestFileStoreInvalidate(t *testing.T) {
	s, _ := testStore(t)
	other := day.AddDate(0, 0, -1)

	for _, stage := range []string{"fetch", "filtered", "rank"} {
		if err := s.Put(stage, day, somePapers()); err != nil {
			t.Fatalf("Put(%s) error = %v", stage, err)
		}
	}
	if err := s.Put("rank", other, somePapers()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if err := s.Invalidate(day); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	for _, stage := range []string{"fetch", "filtered", "rank"} {
		if _, ok := s.Get(stage, day); ok {
			t.Errorf("stage %s survived invalidation", stage)
		}
	}
	if _, ok := s.Get("rank", other); !ok {
		t.Error("invalidation leaked into another date")
	}
}

func TestFileStorePutOverwrites(t *testing.T) {
	s, _ := testStore(t)

	if err := s.Put("rank", day, somePapers()); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("rank", day, []types.Paper{{ID: "only", Title: "Only"}}); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Get("rank", day)
	if !ok || len(got) != 1 || got[0].ID != "only" {
		t.Errorf("Get() = %+v, want the overwritten entry", got)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()

	if _, ok := m.Get("fetch", day); ok {
		t.Error("Get() hit on empty store")
	}
	if err := m.Put("fetch", day, somePapers()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if got, ok := m.Get("fetch", day); !ok || len(got) != 2 {
		t.Errorf("Get() = %v, %v after Put", got, ok)
	}
	if err := m.Invalidate(day); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, ok := m.Get("fetch", day); ok {
		t.Error("entry survived invalidation")
	}
}
