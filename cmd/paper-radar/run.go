// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-radar/internal/cache"
	"github.com/pdiddy/paper-radar/internal/fetch"
	"github.com/pdiddy/paper-radar/internal/history"
	"github.com/pdiddy/paper-radar/internal/llm"
	"github.com/pdiddy/paper-radar/internal/pipeline"
	"github.com/pdiddy/paper-radar/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the daily paper pipeline for one date",
	Long: `Run fetches papers published on the given date, filters and scores them
against the relevance spec, and writes JSON and Markdown reports.

Each stage's output is cached per date; re-running after a failure resumes
from the last completed stage. Use --force to discard the date's cache and
recompute everything.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("date", "", "run date as YYYY-MM-DD (default: yesterday)")
	runCmd.Flags().Bool("force", false, "invalidate cached stage outputs for the date and recompute")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	date, err := runDate(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	logger, closeLog := newLogger(cfg.Output.LogsDir, date)
	defer closeLog()

	specText, err := readSpec(cfg.Spec.Path)
	if err != nil {
		return err
	}

	store, err := cache.NewFileStore(cfg.Output.CacheDir, logger)
	if err != nil {
		return err
	}

	provider, err := llm.New(cfg.LLM)
	if err != nil {
		return err
	}

	var archive *history.Store
	if a, err := history.NewStore(cfg.Output.ReportsDir); err != nil {
		logger.Warn().Err(err).Msg("run archive unavailable")
	} else {
		archive = a
		defer archive.Close()
	}

	p := &pipeline.Pipeline{
		Config:     cfg,
		Spec:       specText,
		Cache:      store,
		Collectors: collectors(cfg.Sources),
		Invoker:    llm.NewInvoker(provider, cfg.LLM),
		Archive:    archive,
		Logger:     logger,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := p.Run(ctx, date, force)
	if err != nil {
		return fmt.Errorf("pipeline failed at %s: %w", res.FailedStage, err)
	}

	fmt.Printf("Run %s complete: %d papers in report", date.Format("2006-01-02"), len(res.Papers))
	if res.Sentinel > 0 {
		fmt.Printf(" (%d scored, %d unscored)", res.Scored, res.Sentinel)
	}
	if len(res.FromCache) > 0 {
		fmt.Printf(", cached stages: %v", res.FromCache)
	}
	fmt.Println()
	return nil
}

// runDate parses --date, defaulting to yesterday. Papers for a date are
// typically complete only after the day ends, so yesterday is the newest
// useful date.
func runDate(cmd *cobra.Command) (time.Time, error) {
	s, _ := cmd.Flags().GetString("date")
	if s == "" {
		return time.Now().UTC().AddDate(0, 0, -1), nil
	}
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", s)
	}
	return date, nil
}

// collectors builds the enabled paper sources.
func collectors(cfg types.SourcesConfig) []fetch.Collector {
	var cs []fetch.Collector
	if cfg.Arxiv.Enabled {
		cs = append(cs, &fetch.ArxivCollector{
			Categories: cfg.Arxiv.Categories,
			MaxResults: cfg.Arxiv.MaxResults,
		})
	}
	if cfg.HuggingFace.Enabled {
		cs = append(cs, &fetch.HFDailyCollector{})
	}
	return cs
}

// newLogger writes human-readable logs to stderr and JSON logs to a
// per-date file under logsDir. Log file trouble degrades to stderr only.
func newLogger(logsDir string, date time.Time) (zerolog.Logger, func()) {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		logger := zerolog.New(console).With().Timestamp().Logger()
		logger.Warn().Err(err).Msg("could not create logs directory")
		return logger, func() {}
	}

	path := filepath.Join(logsDir, "pipeline_"+date.Format("2006-01-02")+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := zerolog.New(console).With().Timestamp().Logger()
		logger.Warn().Err(err).Msg("could not open log file")
		return logger, func() {}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(console, f)).With().Timestamp().Logger()
	return logger, func() { f.Close() }
}
