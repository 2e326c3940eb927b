// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"reflect"
	"testing"

	"github.com/pdiddy/paper-radar/pkg/types"
)

func paper(id, title, abstract string, source types.Source) types.Paper {
	return types.Paper{ID: id, Title: title, Abstract: abstract, Source: source}
}

var priority = []string{"arxiv", "huggingface"}

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		name string
		p    types.Paper
		want string
	}{
		{"plain arxiv id", types.Paper{ID: "2301.07041"}, "2301.07041"},
		{"versioned id strips suffix", types.Paper{ID: "2301.07041v2"}, "2301.07041"},
		{"id embedded in url", types.Paper{URL: "https://arxiv.org/abs/2301.07041v1"}, "2301.07041"},
		{"hf paper url", types.Paper{ID: "2408.12345", URL: "https://huggingface.co/papers/2408.12345"}, "2408.12345"},
		{"five digit sequence", types.Paper{ID: "2412.10012"}, "2412.10012"},
		{"no recognizable id", types.Paper{ID: "workshop-42", URL: "https://example.com/p/42", Title: "Some Paper"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalID(tt.p); got != tt.want {
				t.Errorf("CanonicalID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDedupeMergesAcrossSources(t *testing.T) {
	papers := []types.Paper{
		paper("2301.00001", "Paper A", "full abstract", types.SourceArxiv),
		paper("2301.00002", "Paper B", "another abstract", types.SourceArxiv),
		paper("2301.00001v1", "Paper A", "", types.SourceHuggingFace),
	}

	got := Dedupe(papers, priority)
	if len(got) != 2 {
		t.Fatalf("Dedupe() returned %d papers, want 2", len(got))
	}
	// Survivor keeps the first-seen position and the record with an abstract.
	if got[0].Source != types.SourceArxiv || got[0].Abstract != "full abstract" {
		t.Errorf("survivor = %+v, want the arxiv record with its abstract", got[0])
	}
}

func TestDedupeAbstractWinsOverPriority(t *testing.T) {
	papers := []types.Paper{
		paper("2301.00001", "Paper A", "", types.SourceArxiv),
		paper("2301.00001", "Paper A", "the abstract", types.SourceHuggingFace),
	}

	got := Dedupe(papers, priority)
	if len(got) != 1 {
		t.Fatalf("Dedupe() returned %d papers, want 1", len(got))
	}
	if got[0].Source != types.SourceHuggingFace {
		t.Errorf("survivor source = %s, want huggingface: an abstract beats source priority", got[0].Source)
	}
}

func TestDedupePriorityBreaksTies(t *testing.T) {
	papers := []types.Paper{
		paper("2301.00001", "Paper A", "abs", types.SourceHuggingFace),
		paper("2301.00001", "Paper A", "abs", types.SourceArxiv),
	}

	got := Dedupe(papers, priority)
	if len(got) != 1 {
		t.Fatalf("Dedupe() returned %d papers, want 1", len(got))
	}
	if got[0].Source != types.SourceArxiv {
		t.Errorf("survivor source = %s, want arxiv per priority order", got[0].Source)
	}
}

func TestDedupeNoMergeWithoutCanonicalID(t *testing.T) {
	papers := []types.Paper{
		{ID: "ws-1", Title: "Same Title"},
		{ID: "ws-2", Title: "Same Title"},
	}

	got := Dedupe(papers, priority)
	if len(got) != 2 {
		t.Errorf("Dedupe() merged records without identifiers: got %d, want 2", len(got))
	}
}

func TestDedupeNoFieldMerge(t *testing.T) {
	withTags := paper("2301.00001", "Paper A", "", types.SourceArxiv)
	withTags.Tags = []string{"cs.CV"}
	withAbstract := paper("2301.00001", "Paper A", "abs", types.SourceHuggingFace)

	got := Dedupe([]types.Paper{withTags, withAbstract}, priority)
	if len(got) != 1 {
		t.Fatalf("Dedupe() returned %d papers, want 1", len(got))
	}
	// The losing record is discarded whole; its tags must not leak in.
	if len(got[0].Tags) != 0 {
		t.Errorf("survivor tags = %v, want none: losing record fields must not merge", got[0].Tags)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	papers := []types.Paper{
		paper("2301.00001", "A", "abs a", types.SourceArxiv),
		paper("2301.00002", "B", "abs b", types.SourceArxiv),
		paper("2301.00001v2", "A", "", types.SourceHuggingFace),
		{ID: "no-id", Title: "C"},
	}

	once := Dedupe(papers, priority)
	twice := Dedupe(once, priority)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Dedupe is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestDedupeScenario(t *testing.T) {
	// Twelve records, three shared identities: 12 -> 9.
	papers := []types.Paper{
		paper("2301.00001", "A", "a", types.SourceArxiv),
		paper("2301.00002", "B", "b", types.SourceArxiv),
		paper("2301.00003", "C", "c", types.SourceArxiv),
		paper("2301.00004", "D", "d", types.SourceArxiv),
		paper("2301.00005", "E", "e", types.SourceArxiv),
		paper("2301.00006", "F", "f", types.SourceArxiv),
		paper("2301.00001", "A", "", types.SourceHuggingFace),
		paper("2301.00002", "B", "", types.SourceHuggingFace),
		paper("2301.00003", "C", "", types.SourceHuggingFace),
		paper("2301.00007", "G", "g", types.SourceHuggingFace),
		paper("2301.00008", "H", "h", types.SourceHuggingFace),
		paper("2301.00009", "I", "i", types.SourceHuggingFace),
	}

	got := Dedupe(papers, priority)
	if len(got) != 9 {
		t.Fatalf("Dedupe() returned %d papers, want 9", len(got))
	}
	wantOrder := []string{"2301.00001", "2301.00002", "2301.00003", "2301.00004",
		"2301.00005", "2301.00006", "2301.00007", "2301.00008", "2301.00009"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d: id = %s, want %s (first-seen order)", i, got[i].ID, want)
		}
	}
}
