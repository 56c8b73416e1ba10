// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/strategy-scout/internal/scout"
)

var scoutCmd = &cobra.Command{
	Use:   "scout",
	Short: "Discover fresh strategy repositories on GitHub",
	Long: `Scout searches GitHub for repositories pushed within the lookback window
that match the configured keywords, filters them by stars, language, and
README presence, and writes the candidate batch as JSON.`,
	RunE: runScout,
}

func init() {
	scoutCmd.Flags().StringP("output", "o", "", "write the batch to a JSON file instead of stdout")
	scoutCmd.Flags().Int("min-stars", 0, "minimum star count (default 5)")

	rootCmd.AddCommand(scoutCmd)
}

func runScout(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Scout
	if minStars, _ := cmd.Flags().GetInt("min-stars"); minStars > 0 {
		cfg.MinStars = minStars
	}

	client := &http.Client{Timeout: cfg.Timeout}
	backend := scout.NewGitHubBackend(client, cfg)

	batch, err := backend.Discover(context.Background(), cfg, os.Stderr)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		if err := writeBatch(output, batch); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "batch written: %s\n", output)
		return nil
	}
	return printBatch(batch)
}
