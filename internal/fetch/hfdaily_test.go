// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/paper-radar/pkg/types"
)

const hfDailyJSON = `[
  {
    "paper": {
      "id": "2408.12345",
      "title": "  Agentic Retrieval at Scale ",
      "summary": "We scale retrieval agents.",
      "authors": [{"name": "Grace Hopper"}, {"name": ""}],
      "publishedAt": "2026-08-29T03:00:00.000Z"
    }
  },
  {
    "paper": {
      "id": "2408.99999",
      "title": "Minimal Entry",
      "summary": "",
      "authors": []
    }
  }
]`

func TestHFDailyFetch(t *testing.T) {
	var gotDate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		w.Write([]byte(hfDailyJSON))
	}))
	defer server.Close()

	orig := hfDailyAPIBase
	hfDailyAPIBase = server.URL
	defer func() { hfDailyAPIBase = orig }()

	c := &HFDailyCollector{}
	papers, err := c.Fetch(context.Background(), day)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotDate != "2026-08-29" {
		t.Errorf("date param = %q, want 2026-08-29", gotDate)
	}
	if len(papers) != 2 {
		t.Fatalf("Fetch() returned %d papers, want 2", len(papers))
	}

	p := papers[0]
	if p.ID != "2408.12345" || p.Title != "Agentic Retrieval at Scale" {
		t.Errorf("paper = %+v, want trimmed id and title", p)
	}
	if p.URL != "https://huggingface.co/papers/2408.12345" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.Source != types.SourceHuggingFace {
		t.Errorf("Source = %v", p.Source)
	}
	if len(p.Authors) != 1 || p.Authors[0] != "Grace Hopper" {
		t.Errorf("Authors = %v, want blank names dropped", p.Authors)
	}
	if p.Published == nil || !p.Published.Equal(time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC)) {
		t.Errorf("Published = %v", p.Published)
	}
	if papers[1].Published != nil {
		t.Errorf("missing publishedAt should stay nil, got %v", papers[1].Published)
	}
}

func TestHFDailyFetchBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	orig := hfDailyAPIBase
	hfDailyAPIBase = server.URL
	defer func() { hfDailyAPIBase = orig }()

	c := &HFDailyCollector{}
	if _, err := c.Fetch(context.Background(), day); err == nil {
		t.Error("expected error for a non-JSON body")
	}
}
