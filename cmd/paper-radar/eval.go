// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-radar/internal/eval"
	"github.com/pdiddy/paper-radar/internal/llm"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score a fixture of papers and check against expected ranges",
	Long: `Eval runs the production scoring path over a YAML fixture of papers with
expected score ranges. Use it to sanity-check a new relevance spec or a
provider/model change before it affects the daily run.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("fixture", "eval/scoring_cases.yaml", "path to the evaluation fixture")

	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fixturePath, _ := cmd.Flags().GetString("fixture")
	fixture, err := eval.LoadFixture(fixturePath)
	if err != nil {
		return err
	}

	specText, err := readSpec(cfg.Spec.Path)
	if err != nil {
		return err
	}

	provider, err := llm.New(cfg.LLM)
	if err != nil {
		return err
	}
	inv := llm.NewInvoker(provider, cfg.LLM)

	summary, err := eval.Run(cmd.Context(), fixture, specText, inv, cfg.LLM.BatchSize, cfg.LLM.Concurrency)
	if err != nil {
		return err
	}

	for _, r := range summary.Results {
		status := "PASS"
		if !r.Pass {
			status = "FAIL"
		}
		fmt.Printf("%s  %-20s score=%.1f expected=[%.1f, %.1f]  %s\n", status, r.ID, r.Score, r.Min, r.Max, r.Title)
	}
	fmt.Printf("\n%d/%d cases passed (%.0f%% accuracy)\n", summary.Passed, len(summary.Results), summary.Accuracy()*100)

	if summary.Failed > 0 {
		return fmt.Errorf("%d case(s) out of range", summary.Failed)
	}
	return nil
}
