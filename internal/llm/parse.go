// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseScores extracts the paper-id-to-score mapping embedded in a raw
// provider response. Providers are asked for bare JSON but routinely wrap
// it in prose or Markdown fences, so the parser extracts the structured
// payload from whatever surrounds it. Score values may arrive as numbers
// or numeric strings. A response with no extractable payload is a parse
// failure; the caller treats it like a transient provider failure.
func ParseScores(raw string) (map[string]float64, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("decoding score map: %w", err)
	}

	scores := make(map[string]float64, len(decoded))
	for id, v := range decoded {
		switch val := v.(type) {
		case float64:
			scores[id] = val
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				continue
			}
			scores[id] = f
		}
	}
	return scores, nil
}

// extractJSON locates the JSON object inside a response: a ```json fence
// first, then any ``` fence, then the outermost brace pair.
func extractJSON(raw string) string {
	for _, fence := range []string{"```json", "```"} {
		if start := strings.Index(raw, fence); start >= 0 {
			rest := raw[start+len(fence):]
			if end := strings.Index(rest, "```"); end >= 0 {
				return strings.TrimSpace(rest[:end])
			}
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(raw[start : end+1])
}
