// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection decides which ranked papers receive summaries.
package selection

import (
	"sort"

	"github.com/pdiddy/paper-radar/pkg/types"
)

// Select applies the hybrid rule: the union of the topN highest-scored
// papers and all papers scoring at or above threshold. When fewer than
// topN papers exist the top set is the whole input; when nothing meets the
// threshold the result reduces to the top set. Output is ordered
// descending by score, ties by original input order.
func Select(papers []types.Paper, topN int, threshold float64) []types.Paper {
	if len(papers) == 0 {
		return nil
	}

	// Input order indices sorted descending by score, stable.
	order := make([]int, len(papers))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return papers[order[a]].Score() > papers[order[b]].Score()
	})

	chosen := make(map[int]bool, len(papers))
	for i, idx := range order {
		if i < topN {
			chosen[idx] = true
		}
		if papers[idx].Score() >= threshold {
			chosen[idx] = true
		}
	}

	out := make([]types.Paper, 0, len(chosen))
	for _, idx := range order {
		if chosen[idx] {
			out = append(out, papers[idx])
		}
	}
	return out
}
