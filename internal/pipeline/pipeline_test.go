// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-radar/internal/cache"
	"github.com/pdiddy/paper-radar/internal/fetch"
	"github.com/pdiddy/paper-radar/internal/llm"
	"github.com/pdiddy/paper-radar/pkg/types"
)

var day = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

// fakeCollector returns a fixed set of papers and counts fetches.
type fakeCollector struct {
	name   string
	papers []types.Paper
	err    error
	calls  int
}

func (c *fakeCollector) Name() string { return c.name }

func (c *fakeCollector) Fetch(context.Context, time.Time) ([]types.Paper, error) {
	c.calls++
	return c.papers, c.err
}

// downProvider fails every call transiently.
type downProvider struct{ calls int }

func (p *downProvider) Name() string { return "down" }

func (p *downProvider) Invoke(context.Context, string, string) (string, error) {
	p.calls++
	return "", llm.TransientFault("provider down", nil)
}

func testPapers() []types.Paper {
	return []types.Paper{
		{ID: "2301.00001", Title: "Diffusion Video Models", Abstract: "Video synthesis with diffusion.", Source: types.SourceArxiv},
		{ID: "2301.00002", Title: "Transformer Agents", Abstract: "Agent planning with transformers.", Source: types.SourceArxiv},
		{ID: "2301.00003", Title: "Soil Chemistry Notes", Abstract: "Nothing to do with our topics.", Source: types.SourceArxiv},
	}
}

func testConfig(reportsDir string) types.Config {
	return types.Config{
		Sources: types.SourcesConfig{Priority: []string{"arxiv", "huggingface"}},
		Filter: types.FilterConfig{
			IncludeKeywords: []string{"diffusion", "transformer"},
		},
		LLM: types.LLMConfig{BatchSize: 8, Concurrency: 1},
		Selection: types.SelectionConfig{
			TopN:           2,
			ScoreThreshold: 4.0,
		},
		Output: types.OutputConfig{ReportsDir: reportsDir},
	}
}

func newTestPipeline(t *testing.T, provider llm.Provider, store cache.Store, collectors ...fetch.Collector) *Pipeline {
	t.Helper()
	return &Pipeline{
		Config:     testConfig(t.TempDir()),
		Spec:       "We care about diffusion models and transformer agents.",
		Cache:      store,
		Collectors: collectors,
		Invoker:    llm.Invoker{Provider: provider, MaxAttempts: 2, RetryDelay: time.Millisecond},
		Logger:     zerolog.Nop(),
	}
}

func TestRunEndToEnd(t *testing.T) {
	mp := &llm.MockProvider{}
	collector := &fakeCollector{name: "arxiv", papers: testPapers()}
	p := newTestPipeline(t, mp, cache.NewMemory(), collector)

	res, err := p.Run(context.Background(), day, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != StateDone {
		t.Errorf("State = %s, want done", res.State)
	}
	// The soil chemistry paper is filtered; the two relevant ones survive.
	if len(res.Papers) != 2 {
		t.Fatalf("Run() produced %d papers, want 2", len(res.Papers))
	}
	for _, paper := range res.Papers {
		if paper.Score() == 0 {
			t.Errorf("paper %s has no score", paper.ID)
		}
		if paper.Summary == "" {
			t.Errorf("paper %s has no summary", paper.ID)
		}
	}
	if len(res.FromCache) != 0 {
		t.Errorf("FromCache = %v on a cold run, want none", res.FromCache)
	}

	// Both report files exist and are non-empty.
	for _, name := range []string{"2026-08-29.json", "2026-08-29.md"} {
		path := filepath.Join(p.Config.Output.ReportsDir, name)
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("report %s missing: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("report %s is empty", name)
		}
	}
}

func TestRunSecondInvocationHitsCache(t *testing.T) {
	mp := &llm.MockProvider{}
	collector := &fakeCollector{name: "arxiv", papers: testPapers()}
	store := cache.NewMemory()
	p := newTestPipeline(t, mp, store, collector)

	first, err := p.Run(context.Background(), day, false)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	callsAfterFirst := mp.Calls.Load()
	if callsAfterFirst == 0 {
		t.Fatal("first run made no provider calls")
	}

	second, err := p.Run(context.Background(), day, false)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	// The re-run serves every stage from cache: zero provider calls, one
	// collector fetch total.
	if got := mp.Calls.Load(); got != callsAfterFirst {
		t.Errorf("second run made %d provider calls, want 0", got-callsAfterFirst)
	}
	if collector.calls != 1 {
		t.Errorf("collector fetched %d times, want 1", collector.calls)
	}
	if len(second.FromCache) != 4 {
		t.Errorf("FromCache = %v, want all four cached stages", second.FromCache)
	}
	if len(second.Papers) != len(first.Papers) {
		t.Errorf("second run produced %d papers, first %d", len(second.Papers), len(first.Papers))
	}
}

func TestRunForceRecomputes(t *testing.T) {
	mp := &llm.MockProvider{}
	collector := &fakeCollector{name: "arxiv", papers: testPapers()}
	store := cache.NewMemory()
	p := newTestPipeline(t, mp, store, collector)

	if _, err := p.Run(context.Background(), day, false); err != nil {
		t.Fatal(err)
	}
	callsAfterFirst := mp.Calls.Load()

	res, err := p.Run(context.Background(), day, true)
	if err != nil {
		t.Fatalf("forced Run() error = %v", err)
	}
	if mp.Calls.Load() == callsAfterFirst {
		t.Error("forced run made no provider calls, want full recompute")
	}
	if collector.calls != 2 {
		t.Errorf("collector fetched %d times, want 2 after force", collector.calls)
	}
	if len(res.FromCache) != 0 {
		t.Errorf("FromCache = %v on a forced run, want none", res.FromCache)
	}
}

func TestRunAbortPreservesEarlierStages(t *testing.T) {
	collector := &fakeCollector{name: "arxiv", papers: testPapers()}
	store := cache.NewMemory()
	down := &downProvider{}
	p := newTestPipeline(t, down, store, collector)

	res, err := p.Run(context.Background(), day, false)
	if err == nil {
		t.Fatal("expected the run to abort when every batch fails")
	}
	if res.State != StateAborted || res.FailedStage != StateRanking {
		t.Errorf("State = %s, FailedStage = %s, want aborted at ranking", res.State, res.FailedStage)
	}

	// Earlier stage outputs are durably cached; the failed stage wrote
	// nothing.
	if _, ok := store.Get(StageFetch, day); !ok {
		t.Error("fetch output missing after abort")
	}
	if _, ok := store.Get(StageFilter, day); !ok {
		t.Error("filter output missing after abort")
	}
	if _, ok := store.Get(StageRank, day); ok {
		t.Error("aborted rank stage must not leave a cache entry")
	}

	// Re-run with a healthy provider resumes: no second fetch.
	p.Invoker = llm.Invoker{Provider: &llm.MockProvider{}, MaxAttempts: 2, RetryDelay: time.Millisecond}
	res, err = p.Run(context.Background(), day, false)
	if err != nil {
		t.Fatalf("resumed Run() error = %v", err)
	}
	if res.State != StateDone {
		t.Errorf("State = %s after resume, want done", res.State)
	}
	if collector.calls != 1 {
		t.Errorf("collector fetched %d times, want 1: resume must reuse the fetch cache", collector.calls)
	}
}

func TestRunCollectorErrorAborts(t *testing.T) {
	collector := &fakeCollector{name: "arxiv", err: errors.New("api down")}
	store := cache.NewMemory()
	p := newTestPipeline(t, &llm.MockProvider{}, store, collector)

	res, err := p.Run(context.Background(), day, false)
	if err == nil {
		t.Fatal("expected error when the collector fails")
	}
	if res.FailedStage != StateFetching {
		t.Errorf("FailedStage = %s, want fetching", res.FailedStage)
	}
	if _, ok := store.Get(StageFetch, day); ok {
		t.Error("failed fetch stage must not leave a cache entry")
	}
}

func TestRunNoPapersEndsEarly(t *testing.T) {
	mp := &llm.MockProvider{}
	collector := &fakeCollector{name: "arxiv"}
	p := newTestPipeline(t, mp, cache.NewMemory(), collector)

	res, err := p.Run(context.Background(), day, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != StateDone || len(res.Papers) != 0 {
		t.Errorf("res = %+v, want a clean empty run", res)
	}
	if got := mp.Calls.Load(); got != 0 {
		t.Errorf("made %d provider calls with nothing fetched, want 0", got)
	}
}

func TestRunNothingPassesFilter(t *testing.T) {
	mp := &llm.MockProvider{}
	collector := &fakeCollector{name: "arxiv", papers: []types.Paper{
		{ID: "2301.00003", Title: "Soil Chemistry Notes", Abstract: "Unrelated."},
	}}
	p := newTestPipeline(t, mp, cache.NewMemory(), collector)

	res, err := p.Run(context.Background(), day, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State != StateDone || mp.Calls.Load() != 0 {
		t.Errorf("State = %s with %d provider calls, want done with 0", res.State, mp.Calls.Load())
	}
}

func TestRunDedupesAcrossCollectors(t *testing.T) {
	mp := &llm.MockProvider{}
	arxiv := &fakeCollector{name: "arxiv", papers: []types.Paper{
		{ID: "2301.00001", Title: "Diffusion Video Models", Abstract: "Video synthesis with diffusion.", Source: types.SourceArxiv},
	}}
	hf := &fakeCollector{name: "huggingface", papers: []types.Paper{
		{ID: "2301.00001", Title: "Diffusion Video Models", Abstract: "", Source: types.SourceHuggingFace},
	}}
	store := cache.NewMemory()
	p := newTestPipeline(t, mp, store, arxiv, hf)

	if _, err := p.Run(context.Background(), day, false); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	fetched, ok := store.Get(StageFetch, day)
	if !ok {
		t.Fatal("fetch stage not cached")
	}
	if len(fetched) != 1 {
		t.Fatalf("fetch cached %d papers, want the single deduped record", len(fetched))
	}
	if fetched[0].Source != types.SourceArxiv {
		t.Errorf("survivor source = %s, want arxiv (it has the abstract)", fetched[0].Source)
	}
}
