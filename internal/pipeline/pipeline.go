// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the daily stages (fetch, filter, rank,
// summarize, report) over the stage cache. Each stage's output is durably
// cached before the next stage starts, so re-invoking a failed run resumes
// from the last completed stage instead of repeating provider calls.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-radar/internal/cache"
	"github.com/pdiddy/paper-radar/internal/dedupe"
	"github.com/pdiddy/paper-radar/internal/fetch"
	"github.com/pdiddy/paper-radar/internal/filter"
	"github.com/pdiddy/paper-radar/internal/history"
	"github.com/pdiddy/paper-radar/internal/llm"
	"github.com/pdiddy/paper-radar/internal/notify"
	"github.com/pdiddy/paper-radar/internal/rank"
	"github.com/pdiddy/paper-radar/internal/report"
	"github.com/pdiddy/paper-radar/internal/selection"
	"github.com/pdiddy/paper-radar/internal/summarize"
	"github.com/pdiddy/paper-radar/pkg/types"
)

// State names the orchestrator's position in the run.
type State string

const (
	StateFetching    State = "fetching"
	StateFiltering   State = "filtering"
	StateRanking     State = "ranking"
	StateSummarizing State = "summarizing"
	StateReporting   State = "reporting"
	StateDone        State = "done"
	StateAborted     State = "aborted"
)

// Stage cache key names.
const (
	StageFetch     = "fetch"
	StageFilter    = "filtered"
	StageRank      = "ranked"
	StageSummarize = "summarized"
)

// Pipeline holds the collaborators for one run. The configuration is
// immutable for the lifetime of the run.
type Pipeline struct {
	Config types.Config

	// Spec is the relevance specification text, passed verbatim to the
	// provider as grounding context.
	Spec string

	Cache      cache.Store
	Collectors []fetch.Collector
	Invoker    llm.Invoker

	// Archive, when set, records completed runs for later querying.
	Archive *history.Store

	// NotifyClient overrides the webhook HTTP client, for tests.
	NotifyClient *http.Client

	Logger zerolog.Logger
}

// RunResult reports what a run produced and how it degraded.
type RunResult struct {
	State       State
	FailedStage State

	// Papers are the selected, summarized papers, descending by score.
	Papers []types.Paper

	// FromCache lists the stages served from cache.
	FromCache []string

	// Scored and Sentinel count real versus degraded relevance scores.
	Scored   int
	Sentinel int

	// Slack counts notification outcomes.
	Slack notify.Stats
}

// Run executes the pipeline for one calendar date. With force set, all
// cache entries for the date are invalidated first so every stage
// recomputes (and rewrites its entry). Any unrecovered stage failure
// aborts the run: earlier caches stay intact, no partial output is written
// for the failing stage, and the result names the stage that failed.
func (p *Pipeline) Run(ctx context.Context, date time.Time, force bool) (RunResult, error) {
	res := RunResult{}
	dateStr := date.Format("2006-01-02")
	p.Logger.Info().Str("date", dateStr).Bool("force", force).Msg("pipeline starting")

	if force {
		if err := p.Cache.Invalidate(date); err != nil {
			return p.abort(res, StateFetching, fmt.Errorf("invalidating cache: %w", err))
		}
	}

	// Fetch: all collectors, structural validation, dedupe.
	res.State = StateFetching
	papers, err := p.stage(ctx, StageFetch, date, &res, func(ctx context.Context) ([]types.Paper, error) {
		return p.fetchStage(ctx, date)
	})
	if err != nil {
		return p.abort(res, StateFetching, err)
	}
	if len(papers) == 0 {
		p.Logger.Warn().Msg("no papers found, ending run")
		res.State = StateDone
		return res, nil
	}

	// Filter: keyword include/exclude.
	res.State = StateFiltering
	filtered, err := p.stage(ctx, StageFilter, date, &res, func(context.Context) ([]types.Paper, error) {
		out := filter.Apply(papers, p.Config.Filter)
		p.Logger.Info().Int("in", len(papers)).Int("out", len(out)).Msg("filter applied")
		return out, nil
	})
	if err != nil {
		return p.abort(res, StateFiltering, err)
	}
	if len(filtered) == 0 {
		p.Logger.Warn().Msg("no papers passed filters, ending run")
		res.State = StateDone
		return res, nil
	}

	// Rank: batched scoring against the relevance spec.
	res.State = StateRanking
	ranked, err := p.stage(ctx, StageRank, date, &res, func(ctx context.Context) ([]types.Paper, error) {
		r, err := rank.Rank(ctx, filtered, p.Spec, p.Invoker, p.Config.LLM.BatchSize, p.Config.LLM.Concurrency)
		if err != nil {
			return nil, err
		}
		res.Scored, res.Sentinel = r.Scored, r.Sentinel
		p.Logger.Info().
			Int("papers", len(r.Papers)).
			Int("scored", r.Scored).
			Int("sentinel", r.Sentinel).
			Int("failed_batches", r.FailedBatches).
			Msg("ranking complete")
		return r.Papers, nil
	})
	if err != nil {
		return p.abort(res, StateRanking, err)
	}

	// Summarize: hybrid selection, then per-paper summaries.
	res.State = StateSummarizing
	summarized, err := p.stage(ctx, StageSummarize, date, &res, func(ctx context.Context) ([]types.Paper, error) {
		sel := selection.Select(ranked, p.Config.Selection.TopN, p.Config.Selection.ScoreThreshold)
		p.Logger.Info().
			Int("selected", len(sel)).
			Int("top_n", p.Config.Selection.TopN).
			Float64("threshold", p.Config.Selection.ScoreThreshold).
			Msg("papers selected for summaries")
		r, err := summarize.Summarize(ctx, sel, p.Invoker, p.Logger)
		if err != nil {
			return nil, err
		}
		if r.Degraded > 0 {
			p.Logger.Warn().Int("degraded", r.Degraded).Msg("some summaries fell back to abstracts")
		}
		return r.Papers, nil
	})
	if err != nil {
		return p.abort(res, StateSummarizing, err)
	}

	// Report: JSON and Markdown files. Not cached; rendering the cached
	// summarize output is free and makes no provider calls.
	res.State = StateReporting
	jsonPath := filepath.Join(p.Config.Output.ReportsDir, dateStr+".json")
	mdPath := filepath.Join(p.Config.Output.ReportsDir, dateStr+".md")
	if err := report.WriteJSON(summarized, date, jsonPath); err != nil {
		return p.abort(res, StateReporting, err)
	}
	if err := report.WriteMarkdown(summarized, date, mdPath); err != nil {
		return p.abort(res, StateReporting, err)
	}
	p.Logger.Info().Str("json", jsonPath).Str("markdown", mdPath).Msg("reports written")

	if p.Archive != nil {
		if err := p.Archive.Record(ctx, date, summarized); err != nil {
			p.Logger.Warn().Err(err).Msg("archiving run failed")
		}
	}

	res.Slack = notify.Notify(ctx, summarized, date, p.Config.Notifications.Slack, p.NotifyClient, p.Logger)
	if res.Slack.Posted > 0 || res.Slack.Failed > 0 {
		p.Logger.Info().
			Int("posted", res.Slack.Posted).
			Int("failed", res.Slack.Failed).
			Int("skipped", res.Slack.Skipped).
			Msg("slack notification complete")
	}

	res.State = StateDone
	res.Papers = summarized
	p.Logger.Info().Int("papers", len(summarized)).Msg("pipeline complete")
	return res, nil
}

// stage consults the cache for the stage's output; on a miss it executes
// fn and persists the result before returning. A stage is complete only
// once its output is durably stored.
func (p *Pipeline) stage(ctx context.Context, name string, date time.Time, res *RunResult, fn func(context.Context) ([]types.Paper, error)) ([]types.Paper, error) {
	if papers, ok := p.Cache.Get(name, date); ok {
		p.Logger.Info().Str("stage", name).Int("papers", len(papers)).Msg("loaded from cache")
		res.FromCache = append(res.FromCache, name)
		return papers, nil
	}

	start := time.Now()
	papers, err := fn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s stage: %w", name, err)
	}
	if err := p.Cache.Put(name, date, papers); err != nil {
		return nil, fmt.Errorf("%s stage: caching output: %w", name, err)
	}
	p.Logger.Info().Str("stage", name).Int("papers", len(papers)).Dur("elapsed", time.Since(start)).Msg("stage complete")
	return papers, nil
}

// fetchStage runs every collector, drops invalid records, and collapses
// cross-source duplicates. Any collector error is non-retryable at this
// level and fails the stage.
func (p *Pipeline) fetchStage(ctx context.Context, date time.Time) ([]types.Paper, error) {
	var all []types.Paper
	for _, c := range p.Collectors {
		papers, err := c.Fetch(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("collector %s: %w", c.Name(), err)
		}
		p.Logger.Info().Str("collector", c.Name()).Int("papers", len(papers)).Msg("collector finished")
		all = append(all, papers...)
	}

	valid := fetch.ValidateAndDrop(all, p.Logger)
	deduped := dedupe.Dedupe(valid, p.Config.Sources.Priority)
	if removed := len(valid) - len(deduped); removed > 0 {
		p.Logger.Info().Int("merged", removed).Msg("cross-source duplicates merged")
	}
	return deduped, nil
}

// abort finalizes the result for a failed stage. Prior stage caches stay
// intact; the failing stage wrote nothing.
func (p *Pipeline) abort(res RunResult, failed State, err error) (RunResult, error) {
	res.FailedStage = failed
	res.State = StateAborted
	p.Logger.Error().Str("stage", string(failed)).Err(err).Msg("pipeline aborted")
	return res, err
}
