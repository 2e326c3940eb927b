// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the selected, summarized papers into the JSON and
// Markdown report files for a run date.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/pdiddy/paper-radar/pkg/types"
)

// Report is the JSON report document.
type Report struct {
	Date       string        `json:"date"`
	PaperCount int           `json:"paper_count"`
	Papers     []types.Paper `json:"papers"`
}

// tier groups papers of one score band for the Markdown report.
type tier struct {
	Heading string
	Papers  []types.Paper
}

var markdownTmpl = template.Must(template.New("report").Parse(`# Daily Paper Report - {{.Date}}

**Total Papers:** {{.Count}}
{{range .Tiers}}{{if .Papers}}
## {{.Heading}}
{{range .Papers}}
### [{{.Title}}]({{.URL}})

**Authors:** {{.AuthorLine}}

**Score:** {{printf "%.1f" .Score}} | **Source:** {{.Source}}
{{if .Summary}}
**Summary:** {{.Summary}}
{{end}}{{if .Tags}}
**Tags:** {{range $i, $t := .Tags}}{{if $i}}, {{end}}{{$t}}{{end}}
{{end}}
---
{{end}}{{end}}{{end}}`))

// WriteJSON writes the structured report to path, creating parent
// directories as needed.
func WriteJSON(papers []types.Paper, date time.Time, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating reports directory: %w", err)
	}

	doc := Report{
		Date:       date.Format("2006-01-02"),
		PaperCount: len(papers),
		Papers:     papers,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing JSON report: %w", err)
	}
	return nil
}

// WriteMarkdown writes the human-readable report, grouping papers into
// score tiers (must-read 5, highly relevant 4, relevant 3, the rest).
func WriteMarkdown(papers []types.Paper, date time.Time, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating reports directory: %w", err)
	}

	tiers := []tier{
		{Heading: "Must-Read Papers (Score: 5)"},
		{Heading: "Highly Relevant Papers (Score: 4)"},
		{Heading: "Relevant Papers (Score: 3)"},
		{Heading: "Other Papers (Score: <3)"},
	}
	for _, p := range papers {
		switch s := p.Score(); {
		case s >= 5:
			tiers[0].Papers = append(tiers[0].Papers, p)
		case s >= 4:
			tiers[1].Papers = append(tiers[1].Papers, p)
		case s >= 3:
			tiers[2].Papers = append(tiers[2].Papers, p)
		default:
			tiers[3].Papers = append(tiers[3].Papers, p)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating Markdown report: %w", err)
	}
	defer f.Close()

	data := struct {
		Date  string
		Count int
		Tiers []tier
	}{
		Date:  date.Format("2006-01-02"),
		Count: len(papers),
		Tiers: tiers,
	}
	if err := markdownTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("rendering Markdown report: %w", err)
	}
	return nil
}
