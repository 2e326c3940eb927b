// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ArxivSourceConfig holds settings for the arXiv collector.
type ArxivSourceConfig struct {
	// Enabled controls whether the arXiv collector runs.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Categories lists the arXiv categories to query (e.g. "cs.CV", "cs.AI").
	Categories []string `json:"categories" yaml:"categories" mapstructure:"categories"`

	// MaxResults is the maximum number of entries requested per day (default 200).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// HuggingFaceSourceConfig holds settings for the Hugging Face daily-papers collector.
type HuggingFaceSourceConfig struct {
	// Enabled controls whether the Hugging Face collector runs.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// SourcesConfig groups the collector settings.
type SourcesConfig struct {
	Arxiv       ArxivSourceConfig       `json:"arxiv" yaml:"arxiv" mapstructure:"arxiv"`
	HuggingFace HuggingFaceSourceConfig `json:"huggingface" yaml:"huggingface" mapstructure:"huggingface"`

	// Priority orders sources for deduplication tie-breaks: when two records
	// share an identity and neither wins on abstract, the record from the
	// source listed earlier survives (default: arxiv, huggingface).
	Priority []string `json:"priority" yaml:"priority" mapstructure:"priority"`
}

// FilterConfig holds the keyword filter settings.
type FilterConfig struct {
	// IncludeKeywords: a paper must match at least one (case-insensitive,
	// over title and abstract) to pass the filter stage.
	IncludeKeywords []string `json:"include_keywords" yaml:"include_keywords" mapstructure:"include_keywords"`

	// ExcludeKeywords: a paper matching any is dropped, regardless of
	// include matches.
	ExcludeKeywords []string `json:"exclude_keywords" yaml:"exclude_keywords" mapstructure:"exclude_keywords"`
}

// AnthropicConfig holds settings for the managed-API provider.
type AnthropicConfig struct {
	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the API. Usually supplied via the
	// .secrets/ directory or PAPER_RADAR_ANTHROPIC_API_KEY rather than the
	// config file.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// GeminiConfig holds settings for the CLI-subprocess provider.
type GeminiConfig struct {
	// Model is the model name passed to the gemini CLI (default "gemini-pro").
	Model string `json:"model" yaml:"model" mapstructure:"model"`
}

// LLMConfig holds provider selection and invocation settings shared by the
// ranking and summarize stages.
type LLMConfig struct {
	// Provider selects the backend: "anthropic", "gemini", or "mock".
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	Anthropic AnthropicConfig `json:"anthropic" yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    GeminiConfig    `json:"gemini" yaml:"gemini" mapstructure:"gemini"`

	// BatchSize bounds how many papers are scored per provider call (default 8).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`

	// MaxAttempts is the total number of calls made for one invocation
	// before it degrades to sentinel values (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// RetryDelay is the base backoff delay; it doubles after each failed
	// attempt (default 2s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`

	// RequestTimeout bounds each individual provider call. Expiry counts as
	// a transient failure (default 120s).
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" mapstructure:"request_timeout"`

	// Concurrency bounds how many batches are scored at once during the
	// ranking stage (default 2).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
}

// SelectionConfig holds the hybrid selection rule parameters.
type SelectionConfig struct {
	// TopN papers always receive summaries (default 5).
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`

	// ScoreThreshold: papers at or above it receive summaries even outside
	// the top N (default 4.0).
	ScoreThreshold float64 `json:"score_threshold" yaml:"score_threshold" mapstructure:"score_threshold"`
}

// OutputConfig holds the filesystem layout for pipeline artifacts.
type OutputConfig struct {
	// CacheDir holds per-stage, per-date cache artifacts.
	CacheDir string `json:"cache_dir" yaml:"cache_dir" mapstructure:"cache_dir"`

	// ReportsDir holds the generated reports and the run history database.
	ReportsDir string `json:"reports_dir" yaml:"reports_dir" mapstructure:"reports_dir"`

	// LogsDir holds per-run log files.
	LogsDir string `json:"logs_dir" yaml:"logs_dir" mapstructure:"logs_dir"`
}

// SpecConfig locates the relevance specification document. Its contents are
// opaque to the pipeline and passed verbatim to the provider as grounding
// context.
type SpecConfig struct {
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// SlackConfig holds the webhook notification settings.
type SlackConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// WebhookURL is usually supplied via .secrets/slack-webhook-url or
	// SLACK_WEBHOOK_URL rather than the config file.
	WebhookURL string `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty" mapstructure:"webhook_url"`

	// MinScore: only papers at or above it are posted (default 4.5).
	MinScore float64 `json:"min_score" yaml:"min_score" mapstructure:"min_score"`

	// Channel optionally overrides the webhook's default channel.
	Channel string `json:"channel,omitempty" yaml:"channel,omitempty" mapstructure:"channel"`
}

// NotificationsConfig groups delivery settings.
type NotificationsConfig struct {
	Slack SlackConfig `json:"slack" yaml:"slack" mapstructure:"slack"`
}

// Config is the immutable run configuration, constructed once at startup
// and threaded as an explicit argument through the pipeline.
type Config struct {
	Sources       SourcesConfig       `json:"sources" yaml:"sources" mapstructure:"sources"`
	Filter        FilterConfig        `json:"filter" yaml:"filter" mapstructure:"filter"`
	LLM           LLMConfig           `json:"llm" yaml:"llm" mapstructure:"llm"`
	Selection     SelectionConfig     `json:"selection" yaml:"selection" mapstructure:"selection"`
	Output        OutputConfig        `json:"output" yaml:"output" mapstructure:"output"`
	Spec          SpecConfig          `json:"spec" yaml:"spec" mapstructure:"spec"`
	Notifications NotificationsConfig `json:"notifications" yaml:"notifications" mapstructure:"notifications"`
}
