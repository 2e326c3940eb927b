// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify posts high-scoring papers to a Slack incoming webhook
// after a run completes. Delivery failures never fail the run.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-radar/pkg/types"
)

// postInterval paces webhook posts to stay under Slack's one message per
// second limit. Tests override this.
var postInterval = time.Second

// Stats counts delivery outcomes for the run summary.
type Stats struct {
	Posted  int
	Failed  int
	Skipped int
}

// block is a Slack Block Kit element.
type block struct {
	Type      string  `json:"type"`
	Text      *text   `json:"text,omitempty"`
	Accessory *button `json:"accessory,omitempty"`
}

type text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type button struct {
	Type string `json:"type"`
	Text text   `json:"text"`
	URL  string `json:"url"`
}

type message struct {
	Channel string  `json:"channel,omitempty"`
	Blocks  []block `json:"blocks"`
}

// Notify posts papers at or above cfg.MinScore to the configured webhook:
// a header message first, then one message per paper. Papers below the
// threshold are counted as skipped. A disabled or unconfigured webhook
// skips everything.
func Notify(ctx context.Context, papers []types.Paper, date time.Time, cfg types.SlackConfig, client *http.Client, logger zerolog.Logger) Stats {
	stats := Stats{}
	if !cfg.Enabled || cfg.WebhookURL == "" {
		if cfg.Enabled {
			logger.Warn().Msg("slack enabled but no webhook URL configured")
		}
		stats.Skipped = len(papers)
		return stats
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	var selected []types.Paper
	for _, p := range papers {
		if p.Score() >= cfg.MinScore {
			selected = append(selected, p)
		} else {
			stats.Skipped++
		}
	}
	if len(selected) == 0 {
		return stats
	}

	if err := post(ctx, client, cfg, headerMessage(len(selected), date)); err != nil {
		logger.Warn().Err(err).Msg("posting slack header failed")
	}

	for i, p := range selected {
		select {
		case <-ctx.Done():
			// Only the papers never attempted; earlier failures are
			// already counted.
			stats.Failed += len(selected) - i
			return stats
		case <-time.After(postInterval):
		}

		if err := post(ctx, client, cfg, paperMessage(p)); err != nil {
			logger.Warn().Str("paper", p.ID).Err(err).Msg("posting paper to slack failed")
			stats.Failed++
			continue
		}
		stats.Posted++
	}
	return stats
}

// post sends one webhook message.
func post(ctx context.Context, client *http.Client, cfg types.SlackConfig, msg message) error {
	msg.Channel = cfg.Channel
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

// headerMessage announces the day's report.
func headerMessage(count int, date time.Time) message {
	return message{Blocks: []block{
		{Type: "header", Text: &text{Type: "plain_text", Text: "Daily Papers - " + date.Format("2006-01-02")}},
		{Type: "section", Text: &text{Type: "mrkdwn", Text: fmt.Sprintf("Found *%d* highly relevant papers today!", count)}},
		{Type: "divider"},
	}}
}

// paperMessage formats one paper as Block Kit with a link button.
func paperMessage(p types.Paper) message {
	body := fmt.Sprintf("*%s* (Score: %.1f)\n*Authors:* %s\n", p.Title, p.Score(), p.AuthorLine())
	if p.Summary != "" {
		body += "\n_" + p.Summary + "_"
	}
	return message{Blocks: []block{
		{
			Type: "section",
			Text: &text{Type: "mrkdwn", Text: body},
			Accessory: &button{
				Type: "button",
				Text: text{Type: "plain_text", Text: "View Paper"},
				URL:  p.URL,
			},
		},
		{Type: "divider"},
	}}
}
