// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch discovers papers published on a given day. Each source is
// a Collector; the fetch stage fans out to all enabled collectors, drops
// structurally invalid records, and hands the combined list to the
// deduplicator.
package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-radar/pkg/types"
)

// Collector retrieves the papers one source published on a day. The
// downstream pipeline treats all collectors identically regardless of how
// they obtain data.
type Collector interface {
	Name() string
	Fetch(ctx context.Context, day time.Time) ([]types.Paper, error)
}

// ValidateAndDrop removes records missing required fields (id or title).
// Each dropped record is logged at warning level; the run continues.
func ValidateAndDrop(papers []types.Paper, logger zerolog.Logger) []types.Paper {
	out := papers[:0:0]
	for _, p := range papers {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Title) == "" {
			logger.Warn().
				Str("source", string(p.Source)).
				Str("id", p.ID).
				Str("title", p.Title).
				Msg("dropping structurally invalid record")
			continue
		}
		out = append(out, p)
	}
	return out
}
