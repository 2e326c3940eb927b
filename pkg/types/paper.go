// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// Source identifies the collector a paper came from.
type Source string

const (
	SourceArxiv       Source = "arxiv"
	SourceHuggingFace Source = "huggingface"
)

// Paper holds metadata for one discovered work as it moves through the
// pipeline. A record is created by a collector and enriched in place by
// later stages: the ranking stage sets RelevanceScore, the summarize stage
// sets Summary. Before deduplication, multiple records may share an
// identity across sources.
type Paper struct {
	// ID is the canonical external identifier when known (e.g. the arXiv
	// accession number "2301.07041"), otherwise a source-qualified
	// synthetic id.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract, possibly empty.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Source identifies the originating collector.
	Source Source `json:"source" yaml:"source"`

	// URL is the landing page for the paper.
	URL string `json:"url" yaml:"url"`

	// Published is the publication or preprint date, if known.
	Published *time.Time `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// Tags are topic labels attached by the collector.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// RelevanceScore is the 1-5 relevance score assigned by the ranking
	// stage. Nil until scored; 0 is the sentinel for papers the provider
	// failed to score.
	RelevanceScore *float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`

	// Summary is the generated summary, absent until the summarize stage.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Score returns the relevance score, or 0 when the paper is unscored.
func (p Paper) Score() float64 {
	if p.RelevanceScore == nil {
		return 0
	}
	return *p.RelevanceScore
}

// SetScore records a relevance score on the paper.
func (p *Paper) SetScore(s float64) {
	p.RelevanceScore = &s
}

// AuthorLine formats the author list for display: the first three authors,
// followed by "et al." when there are more. Returns "Unknown" for papers
// without author metadata.
func (p Paper) AuthorLine() string {
	if len(p.Authors) == 0 {
		return "Unknown"
	}
	names := p.Authors
	suffix := ""
	if len(names) > 3 {
		names = names[:3]
		suffix = " et al."
	}
	return strings.Join(names, ", ") + suffix
}
