// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize generates short summaries for selected papers.
package summarize

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-radar/internal/llm"
	"github.com/pdiddy/paper-radar/pkg/types"
)

// noAbstractSummary stands in for papers the collector found no abstract for.
const noAbstractSummary = "No abstract available."

// truncateLimit bounds the fallback summary taken from the abstract when
// the provider fails.
const truncateLimit = 200

var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Summarize this academic paper in 2-3 sentences. Focus on the key contribution and methodology.

Title: {{.Title}}
Abstract: {{.Abstract}}

Provide only the summary, no other text.`))

// Result carries summarized papers and degradation counts.
type Result struct {
	Papers []types.Paper

	// Summarized counts papers with a provider-generated summary.
	Summarized int

	// Degraded counts papers that fell back to a truncated abstract.
	Degraded int
}

// Summarize annotates each paper with a summary. Papers without an
// abstract get a fixed placeholder; papers whose provider calls exhaust
// retries fall back to the truncated abstract and are counted as degraded.
// It returns an error only when every provider call failed, i.e. the
// provider was unreachable for the whole stage.
func Summarize(ctx context.Context, papers []types.Paper, inv llm.Invoker, logger zerolog.Logger) (Result, error) {
	out := make([]types.Paper, len(papers))
	copy(out, papers)

	result := Result{}
	attempted := 0
	for i := range out {
		if strings.TrimSpace(out[i].Abstract) == "" {
			out[i].Summary = noAbstractSummary
			continue
		}

		prompt, err := renderSummaryPrompt(out[i])
		if err != nil {
			return Result{}, fmt.Errorf("rendering summary prompt for %s: %w", out[i].ID, err)
		}

		attempted++
		raw, err := inv.Invoke(ctx, prompt, "", nil)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			logger.Warn().Str("paper", out[i].ID).Err(err).Msg("summary generation failed, falling back to abstract")
			out[i].Summary = truncate(out[i].Abstract, truncateLimit)
			result.Degraded++
			continue
		}
		out[i].Summary = strings.TrimSpace(raw)
		result.Summarized++
	}

	if attempted > 0 && result.Summarized == 0 {
		return Result{}, fmt.Errorf("summarizing %d papers: provider failed for every paper", attempted)
	}

	result.Papers = out
	return result, nil
}

func renderSummaryPrompt(p types.Paper) (string, error) {
	var buf bytes.Buffer
	if err := summaryPromptTmpl.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// truncate shortens s to at most limit runes, appending an ellipsis when
// anything was cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
