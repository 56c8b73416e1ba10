// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/strategy-scout/internal/analyze"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <batch.json>",
	Short: "Extract strategy summaries for a candidate batch",
	Long: `Analyze fetches each candidate's README and core source files, extracts a
structured strategy summary (concept, entry/exit logic, indicators,
timeframe, asset class, category, tier), and writes the enriched batch.
Candidates whose README cannot be fetched are dropped with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("output", "o", "", "write the enriched batch to a JSON file instead of stdout")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	batch, err := readBatch(args[0])
	if err != nil {
		return err
	}

	cfg := pipelineConfig().Analyze
	client := &http.Client{Timeout: cfg.Timeout}
	analyzer := analyze.NewAnalyzer(client, cfg)

	enriched, err := analyzer.EnrichBatch(context.Background(), batch, os.Stderr)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		if err := writeBatch(output, enriched); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "batch written: %s\n", output)
		return nil
	}
	return printBatch(enriched)
}
