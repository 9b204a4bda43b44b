// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/filedump/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent extraction runs",
	Long: `History lists recent extraction runs from the run journal, newest
first: when each run started, which project it came from (if any), its
source and destination, and the outcome counts.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-19s  %-12s  %-30s  %-30s  %6s  %6s\n",
		"Started", "Project", "Source", "Destination", "Copied", "Failed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 112))

	for _, r := range runs {
		project := r.Project
		if project == "" {
			project = "-"
		}
		fmt.Fprintf(os.Stdout, "%-19s  %-12s  %-30s  %-30s  %6d  %6d\n",
			r.StartedAt.Local().Format(time.DateTime),
			truncate(project, 12), truncate(r.Source, 30), truncate(r.Destination, 30),
			r.Copied, r.Failed)
	}

	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}
