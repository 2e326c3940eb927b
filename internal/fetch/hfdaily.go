// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/paper-radar/internal/httputil"
	"github.com/pdiddy/paper-radar/pkg/types"
)

// hfDailyAPIBase is the Hugging Face daily-papers endpoint. Declared as a
// var so tests can substitute an httptest server.
var hfDailyAPIBase = "https://huggingface.co/api/daily_papers"

// HFDailyCollector fetches the Hugging Face daily papers listing for a
// date via the JSON API.
type HFDailyCollector struct {
	Client *http.Client
}

// Name returns the collector identifier.
func (c *HFDailyCollector) Name() string { return string(types.SourceHuggingFace) }

// hfDailyEntry mirrors the fields of one daily-papers API element that the
// pipeline cares about.
type hfDailyEntry struct {
	Paper struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Summary string `json:"summary"`
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
		PublishedAt string `json:"publishedAt"`
	} `json:"paper"`
}

// Fetch retrieves the daily listing and converts it to paper records. The
// listed ids are arXiv accession numbers, which lets the deduplicator
// collapse overlap with the arXiv collector.
func (c *HFDailyCollector) Fetch(ctx context.Context, day time.Time) ([]types.Paper, error) {
	url := fmt.Sprintf("%s?date=%s", hfDailyAPIBase, day.Format("2006-01-02"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("daily papers request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("daily papers API returned HTTP %d", resp.StatusCode)
	}

	var entries []hfDailyEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing daily papers response: %w", err)
	}

	var papers []types.Paper
	for _, e := range entries {
		id := strings.TrimSpace(e.Paper.ID)
		p := types.Paper{
			ID:       id,
			Title:    strings.TrimSpace(e.Paper.Title),
			Abstract: strings.TrimSpace(e.Paper.Summary),
			Source:   types.SourceHuggingFace,
			URL:      "https://huggingface.co/papers/" + id,
		}
		for _, a := range e.Paper.Authors {
			if name := strings.TrimSpace(a.Name); name != "" {
				p.Authors = append(p.Authors, name)
			}
		}
		if t, parseErr := time.Parse(time.RFC3339, e.Paper.PublishedAt); parseErr == nil {
			published := t.UTC()
			p.Published = &published
		}
		papers = append(papers, p)
	}
	return papers, nil
}
