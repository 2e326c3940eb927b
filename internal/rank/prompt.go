// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/paper-radar/pkg/types"
)

// scoringPromptTmpl asks the provider to score one batch of papers against
// the relevance specification, which travels separately as the system
// context. Only title and abstract are sent, never full text.
var scoringPromptTmpl = template.Must(template.New("scoring").Parse(`You are evaluating academic papers for relevance to a specific research area.

Rate each paper on a 1-5 scale based on the relevance specification provided in the system prompt, where 1 is low relevance and 5 is the most relevant.

Papers to evaluate:
{{range .}}
Paper ID: {{.ID}}
Title: {{.Title}}
Authors: {{.AuthorLine}}
Abstract: {{if .Abstract}}{{.Abstract}}{{else}}N/A{{end}}
URL: {{.URL}}
{{end}}
Return a JSON object mapping paper IDs to scores. Format:
{
  "paper_id_1": 5,
  "paper_id_2": 3
}

Only return the JSON, no other text.`))

// renderScoringPrompt executes the scoring template for one batch.
func renderScoringPrompt(batch []types.Paper) (string, error) {
	var buf bytes.Buffer
	if err := scoringPromptTmpl.Execute(&buf, batch); err != nil {
		return "", err
	}
	return buf.String(), nil
}
