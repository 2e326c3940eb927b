// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe merges paper records that describe the same work across
// sources into one canonical record per identity.
package dedupe

import (
	"regexp"
	"strings"

	"github.com/pdiddy/paper-radar/pkg/types"
)

// arxivIDRe matches an arXiv-style accession number, optionally followed by
// a version suffix (e.g. "2301.07041v2").
var arxivIDRe = regexp.MustCompile(`(\d{4}\.\d{4,5})(v\d+)?`)

// CanonicalID returns the normalized canonical identifier for a paper, or
// "" when the record carries no recognizable external identity. The
// identifier is extracted from the record's ID or URL, lowercased, with any
// version suffix stripped, so "2301.07041v2" and "2301.07041" collide.
func CanonicalID(p types.Paper) string {
	for _, candidate := range []string{p.ID, p.URL} {
		if m := arxivIDRe.FindStringSubmatch(strings.ToLower(candidate)); m != nil {
			return m[1]
		}
	}
	return ""
}

// Dedupe collapses records sharing a canonical identifier down to one
// survivor each. Records without a canonical identifier are never merged,
// even when titles match. The survivor keeps the position of the
// first-seen record of its identity; output order is otherwise the input
// order, not re-sorted.
//
// When two records share an identity the one with a non-empty abstract
// wins; remaining ties go to the record whose source appears earlier in
// priority. The losing record is discarded whole: no field-level merge.
// Dedupe is idempotent.
func Dedupe(papers []types.Paper, priority []string) []types.Paper {
	seen := make(map[string]int) // canonical id -> index in out
	out := make([]types.Paper, 0, len(papers))

	for _, p := range papers {
		id := CanonicalID(p)
		if id == "" {
			out = append(out, p)
			continue
		}
		idx, ok := seen[id]
		if !ok {
			seen[id] = len(out)
			out = append(out, p)
			continue
		}
		if prefer(p, out[idx], priority) {
			out[idx] = p
		}
	}
	return out
}

// prefer reports whether challenger should replace incumbent as the
// surviving record for a shared identity.
func prefer(challenger, incumbent types.Paper, priority []string) bool {
	cAbs := strings.TrimSpace(challenger.Abstract) != ""
	iAbs := strings.TrimSpace(incumbent.Abstract) != ""
	if cAbs != iAbs {
		return cAbs
	}
	return sourceRank(challenger.Source, priority) < sourceRank(incumbent.Source, priority)
}

// sourceRank returns the position of src in the priority order, or
// len(priority) when it is unlisted.
func sourceRank(src types.Source, priority []string) int {
	for i, s := range priority {
		if types.Source(s) == src {
			return i
		}
	}
	return len(priority)
}
