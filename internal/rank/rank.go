// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank drives the LLM invocation core over batches of papers and
// merges the returned scores back onto them.
package rank

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-radar/internal/llm"
	"github.com/pdiddy/paper-radar/pkg/types"
)

// ErrAllBatchesFailed is returned when every batch exhausted its retries:
// the provider was unreachable for the whole run and the stage's output
// would be meaningless.
var ErrAllBatchesFailed = errors.New("provider failed for every batch")

// SentinelScore is assigned when a provider response cannot be parsed or
// is missing for a paper. Sentinel papers are never excluded downstream,
// only ranked last.
const SentinelScore = 0

// Result carries the ranked papers together with degradation counts for
// the run summary.
type Result struct {
	// Papers is sorted strictly descending by score; ties keep input order.
	Papers []types.Paper

	// Scored counts papers that received a real provider score.
	Scored int

	// Sentinel counts papers that degraded to the sentinel score.
	Sentinel int

	// FailedBatches counts batches whose retries exhausted.
	FailedBatches int

	// Batches is the total batch count.
	Batches int
}

// Rank scores the papers against the relevance specification and returns
// them sorted descending by score. Papers are partitioned into batches of
// batchSize (order preserved, every paper in exactly one batch); batches
// are dispatched with at most concurrency in flight. Results merge back by
// paper identity, so completion order does not matter.
//
// Rank depends only on its explicit arguments (no file I/O, no run date),
// which keeps it reusable by the offline evaluation harness.
func Rank(ctx context.Context, papers []types.Paper, spec string, inv llm.Invoker, batchSize, concurrency int) (Result, error) {
	ranked := make([]types.Paper, len(papers))
	copy(ranked, papers)

	if len(ranked) == 0 {
		return Result{Papers: ranked}, nil
	}
	if batchSize <= 0 {
		batchSize = 8
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	type span struct{ lo, hi int }
	var batches []span
	for lo := 0; lo < len(ranked); lo += batchSize {
		hi := lo + batchSize
		if hi > len(ranked) {
			hi = len(ranked)
		}
		batches = append(batches, span{lo, hi})
	}

	// One score map slot per batch; a nil slot after Wait means the batch
	// failed and its papers take the sentinel.
	scoreMaps := make([]map[string]float64, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, b := range batches {
		i, b := i, b
		g.Go(func() error {
			scores, err := scoreBatch(gctx, ranked[b.lo:b.hi], spec, inv)
			if err != nil {
				// Batch failures degrade to sentinels; only caller
				// cancellation stops the run here.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				return nil
			}
			scoreMaps[i] = scores
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{Batches: len(batches)}
	for i, b := range batches {
		scores := scoreMaps[i]
		if scores == nil {
			result.FailedBatches++
		}
		for j := b.lo; j < b.hi; j++ {
			if s, ok := scores[ranked[j].ID]; ok {
				ranked[j].SetScore(s)
				result.Scored++
			} else {
				ranked[j].SetScore(SentinelScore)
				result.Sentinel++
			}
		}
	}

	if result.FailedBatches == result.Batches {
		return Result{}, fmt.Errorf("ranking %d batches: %w", result.Batches, ErrAllBatchesFailed)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})
	result.Papers = ranked
	return result, nil
}

// scoreBatch builds the batch prompt, invokes the provider with retries,
// and parses the id-to-score mapping. A response with no extractable
// payload retries like any transient failure.
func scoreBatch(ctx context.Context, batch []types.Paper, spec string, inv llm.Invoker) (map[string]float64, error) {
	prompt, err := renderScoringPrompt(batch)
	if err != nil {
		return nil, fmt.Errorf("rendering scoring prompt: %w", err)
	}

	var scores map[string]float64
	_, err = inv.Invoke(ctx, prompt, spec, func(raw string) error {
		parsed, parseErr := llm.ParseScores(raw)
		if parseErr != nil {
			return parseErr
		}
		scores = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}
