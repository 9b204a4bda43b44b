// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/filedump/internal/extract"
	"github.com/pdiddy/filedump/internal/history"
	"github.com/pdiddy/filedump/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract SOURCE [DESTINATION]",
	Short: "Copy the files of SOURCE into DESTINATION",
	Long: `Extract walks SOURCE recursively and copies every regular file into
DESTINATION (default: current directory). With --filter only files whose
basename matches the glob pattern are copied; the match ignores case. With
--flat the directory structure is discarded and clashing basenames get a
counter suffix.

Interrupting a run (Ctrl-C) stops cleanly after the file in flight.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	destination := ""
	if len(args) > 1 {
		destination = args[1]
	}
	filter, _ := cmd.Flags().GetString("filter")
	flat, _ := cmd.Flags().GetBool("flat")

	req := types.ExtractionRequest{
		Source:      args[0],
		Destination: destination,
		Filter:      filter,
		Flatten:     flat,
	}
	return runExtraction(req, "")
}

// runExtraction drives the engine for both direct runs and saved projects:
// it installs the interrupt boundary, prints the run summary, and journals
// the outcome.
func runExtraction(req types.ExtractionRequest, projectName string) error {
	if req.Destination == "" {
		req.Destination = "."
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startedAt := time.Now()
	result, err := extract.Extract(ctx, req, os.Stdout)
	canceled := errors.Is(err, context.Canceled)
	if err != nil && !canceled {
		return err
	}

	printSummary(result, req, canceled)
	recordRun(startedAt, req, projectName, result)

	if canceled {
		return fmt.Errorf("extraction interrupted: %d file(s) copied before stop", result.Copied)
	}
	return nil
}

func printSummary(result *types.ExtractionResult, req types.ExtractionRequest, canceled bool) {
	fmt.Println("\nSummary:")
	fmt.Printf("  files copied:      %d (%s)\n", result.Copied, extract.FormatSize(result.TotalBytes))
	if result.Filtered > 0 {
		fmt.Printf("  skipped by filter: %d\n", result.Filtered)
	}
	if len(result.Collisions) > 0 {
		fmt.Printf("  names resolved:    %d\n", len(result.Collisions))
		for _, c := range result.Collisions {
			fmt.Printf("    %s -> %s\n", c.Original, c.Renamed)
		}
	}
	if result.HasFailures() {
		fmt.Printf("  failures:          %d of %d attempted\n", len(result.Failures), result.Attempted())
	}
	fmt.Printf("  destination:       %s\n", req.Destination)
	if canceled {
		fmt.Println("  interrupted before completion")
	}
}

// recordRun journals the outcome. Journal failures are reported but never
// fail an otherwise successful extraction.
func recordRun(startedAt time.Time, req types.ExtractionRequest, projectName string, result *types.ExtractionResult) {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	run := history.Run{
		StartedAt:   startedAt,
		Project:     projectName,
		Source:      req.Source,
		Destination: req.Destination,
		Filter:      req.Filter,
		Flatten:     req.Flatten,
		Copied:      result.Copied,
		Filtered:    result.Filtered,
		Failed:      len(result.Failures),
		Collisions:  len(result.Collisions),
		TotalBytes:  result.TotalBytes,
	}
	if err := store.Record(context.Background(), run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history write failed: %v\n", err)
	}
}

func init() {
	extractCmd.Flags().String("filter", "", "basename glob pattern (e.g. \"*.java\"), case-insensitive")
	extractCmd.Flags().Bool("flat", false, "discard directory structure, copy all files to the destination root")

	rootCmd.AddCommand(extractCmd)
}
