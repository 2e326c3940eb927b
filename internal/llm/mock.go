// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync/atomic"
)

// paperIDRe matches the id lines of a scoring prompt.
var paperIDRe = regexp.MustCompile(`Paper ID: ([^\n]+)`)

// mockSummary is returned for any prompt that does not look like a scoring
// request.
const mockSummary = "This paper presents a novel approach to the problem, demonstrating " +
	"significant improvements over existing methods. The proposed technique shows " +
	"promising results on benchmark datasets."

// MockProvider returns canned, deterministic output without any network
// access. Scoring prompts yield a JSON score map; anything else yields a
// fixed summary sentence. Used by tests and by runs without credentials.
type MockProvider struct {
	// Scores overrides the score returned for specific paper IDs.
	Scores map[string]float64

	// Calls counts invocations, for cache-resumption assertions. Atomic
	// because ranking dispatches batches from multiple goroutines.
	Calls atomic.Int64
}

// Name returns the provider identifier.
func (p *MockProvider) Name() string { return "mock" }

// Invoke inspects the prompt: when it contains paper id lines it returns a
// score map (overridden ids from Scores, everything else scored by a keyword
// heuristic on the prompt text), otherwise the canned summary.
func (p *MockProvider) Invoke(_ context.Context, prompt, _ string) (string, error) {
	p.Calls.Add(1)

	matches := paperIDRe.FindAllStringSubmatch(prompt, -1)
	if len(matches) == 0 {
		return mockSummary, nil
	}

	relevant := containsAny(strings.ToLower(prompt),
		"diffusion", "transformer", "retrieval", "agent", "animation")

	scores := make(map[string]float64, len(matches))
	for _, m := range matches {
		id := strings.TrimSpace(m[1])
		if s, ok := p.Scores[id]; ok {
			scores[id] = s
			continue
		}
		if relevant {
			scores[id] = 4
		} else {
			scores[id] = 2
		}
	}

	out, err := json.Marshal(scores)
	if err != nil {
		return "", FatalFault("marshaling mock scores", err)
	}
	return string(out), nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
