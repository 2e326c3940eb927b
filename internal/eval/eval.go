// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eval checks scoring quality against a fixture of papers with
// known-good score ranges. It runs the same batched ranking path as the
// daily pipeline, so a fixture pass means the production prompt and
// parsing behave as expected for the current relevance spec.
package eval

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-radar/internal/llm"
	"github.com/pdiddy/paper-radar/internal/rank"
	"github.com/pdiddy/paper-radar/pkg/types"
)

// Case pairs a paper with the score range a correct ranking should
// assign it.
type Case struct {
	Paper       types.Paper `yaml:"paper"`
	ExpectedMin float64     `yaml:"expected_min"`
	ExpectedMax float64     `yaml:"expected_max"`
}

// Fixture is the on-disk evaluation set.
type Fixture struct {
	Cases []Case `yaml:"cases"`
}

// LoadFixture reads and parses a YAML fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("reading fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	if len(f.Cases) == 0 {
		return Fixture{}, fmt.Errorf("fixture %s has no cases", path)
	}
	return f, nil
}

// CaseResult is one case's outcome.
type CaseResult struct {
	ID    string
	Title string
	Score float64
	Min   float64
	Max   float64
	Pass  bool
}

// Summary aggregates a fixture run.
type Summary struct {
	Results []CaseResult
	Passed  int
	Failed  int
}

// Accuracy is the fraction of cases whose score fell in range.
func (s Summary) Accuracy() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	return float64(s.Passed) / float64(len(s.Results))
}

// Run scores every fixture paper through the batched ranking path and
// compares each score to its expected range.
func Run(ctx context.Context, f Fixture, spec string, inv llm.Invoker, batchSize, concurrency int) (Summary, error) {
	papers := make([]types.Paper, 0, len(f.Cases))
	for _, c := range f.Cases {
		papers = append(papers, c.Paper)
	}

	ranked, err := rank.Rank(ctx, papers, spec, inv, batchSize, concurrency)
	if err != nil {
		return Summary{}, fmt.Errorf("scoring fixture: %w", err)
	}

	scores := make(map[string]float64, len(ranked.Papers))
	for _, p := range ranked.Papers {
		scores[p.ID] = p.Score()
	}

	var s Summary
	for _, c := range f.Cases {
		r := CaseResult{
			ID:    c.Paper.ID,
			Title: c.Paper.Title,
			Score: scores[c.Paper.ID],
			Min:   c.ExpectedMin,
			Max:   c.ExpectedMax,
		}
		r.Pass = r.Score >= r.Min && r.Score <= r.Max
		if r.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Results = append(s.Results, r)
	}
	return s, nil
}
