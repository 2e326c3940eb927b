// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter narrows the fetched papers by keyword matching before any
// provider call is spent on them.
package filter

import (
	"strings"

	"github.com/pdiddy/paper-radar/pkg/types"
)

// Apply keeps papers whose title or abstract matches at least one include
// keyword and no exclude keyword (case-insensitive substring match).
// Exclusion wins over inclusion. Input order is preserved.
func Apply(papers []types.Paper, cfg types.FilterConfig) []types.Paper {
	out := papers[:0:0]
	for _, p := range papers {
		text := strings.ToLower(p.Title + " " + p.Abstract)
		if matchesAny(text, cfg.ExcludeKeywords) {
			continue
		}
		if matchesAny(text, cfg.IncludeKeywords) {
			out = append(out, p)
		}
	}
	return out
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
