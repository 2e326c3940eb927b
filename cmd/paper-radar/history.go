// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-radar/internal/history"
	"github.com/pdiddy/paper-radar/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query archived runs (list, search, show)",
	Long: `History queries the local SQLite archive of completed runs. Use
subcommands to list recent runs, full-text search archived papers, or show
a specific day's report.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent archived runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Runs(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No archived runs.")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %3d papers  recorded %s\n", r.Date, r.PaperCount, r.RecordedAt)
		}
		return nil
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search archived papers by title and abstract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		results, err := store.Search(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(os.Stdout).Encode(results)
		}
		if len(results) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, r := range results {
			fmt.Printf("[%.1f] %s  (%s, run %s)\n      %s\n", r.Paper.Score(), r.Paper.Title, r.Paper.Source, r.RunDate, r.Paper.URL)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the archived papers for one run date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		papers, err := store.Show(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(os.Stdout).Encode(papers)
		}
		if len(papers) == 0 {
			fmt.Printf("No archived run for %s.\n", args[0])
			return nil
		}
		for _, p := range papers {
			printPaper(p)
		}
		return nil
	},
}

func printPaper(p types.Paper) {
	fmt.Printf("[%.1f] %s\n", p.Score(), p.Title)
	fmt.Printf("      %s | %s | %s\n", p.AuthorLine(), p.Source, p.URL)
	if p.Summary != "" {
		fmt.Printf("      %s\n", p.Summary)
	}
}

// openArchive opens the run archive under the configured reports directory.
func openArchive() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.Output.ReportsDir)
}

func init() {
	historyListCmd.Flags().Int("limit", 30, "maximum runs to list")
	historySearchCmd.Flags().Int("limit", 20, "maximum results")
	historySearchCmd.Flags().Bool("json", false, "output results as JSON")
	historyShowCmd.Flags().Bool("json", false, "output papers as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
