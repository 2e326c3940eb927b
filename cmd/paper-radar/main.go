// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-radar CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-radar/internal/secrets"
	"github.com/pdiddy/paper-radar/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the paper-radar CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-radar",
	Short: "Daily academic paper monitoring and relevance ranking",
	Long: `paper-radar collects newly published papers from arXiv and Hugging Face,
filters them by keyword, scores them against a relevance specification with
an LLM, and produces a daily report of the most relevant work.

Every stage of the daily run is cached per date, so a failed run can be
re-invoked and resumes where it left off without repeating LLM calls.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-radar.yaml or ~/.config/paper-radar/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-radar")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-radar"))
		}
	}

	viper.SetEnvPrefix("PAPER_RADAR")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("sources.arxiv.enabled", true)
	viper.SetDefault("sources.arxiv.categories", []string{"cs.CV", "cs.AI"})
	viper.SetDefault("sources.arxiv.max_results", 200)
	viper.SetDefault("sources.huggingface.enabled", true)
	viper.SetDefault("sources.priority", []string{"arxiv", "huggingface"})

	viper.SetDefault("llm.provider", "anthropic")
	viper.SetDefault("llm.anthropic.model", "claude-sonnet-4-5")
	viper.SetDefault("llm.gemini.model", "gemini-pro")
	viper.SetDefault("llm.batch_size", 8)
	viper.SetDefault("llm.max_attempts", 3)
	viper.SetDefault("llm.retry_delay", "2s")
	viper.SetDefault("llm.request_timeout", "120s")
	viper.SetDefault("llm.concurrency", 2)

	viper.SetDefault("selection.top_n", 5)
	viper.SetDefault("selection.score_threshold", 4.0)

	viper.SetDefault("output.cache_dir", "cache")
	viper.SetDefault("output.reports_dir", "reports")
	viper.SetDefault("output.logs_dir", "logs")

	viper.SetDefault("spec.path", "relevance-spec.md")

	viper.SetDefault("notifications.slack.min_score", 4.0)
}

// loadConfig unmarshals the effective viper state, filling credentials
// from .secrets/ when the config file leaves them blank.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}
	cfg.LLM.Anthropic.APIKey = secretDefault(secrets.AnthropicAPIKey, cfg.LLM.Anthropic.APIKey)
	cfg.Notifications.Slack.WebhookURL = secretDefault(secrets.SlackWebhookURL, cfg.Notifications.Slack.WebhookURL)
	return cfg, nil
}

// readSpec loads the relevance specification text.
func readSpec(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading relevance spec: %w", err)
	}
	return string(data), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
