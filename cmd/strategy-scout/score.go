// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/strategy-scout/internal/feasibility"
)

var scoreCmd = &cobra.Command{
	Use:   "score <batch.json>",
	Short: "Score implementation feasibility for a classified batch",
	Long: `Score rates each non-duplicate candidate on five criteria (implementation
complexity, capital requirements, edge durability, platform fit, data
requirements), combines them into a weighted overall score, and attaches a
pursue, monitor, or skip recommendation. Duplicates get a skip sentinel.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringP("output", "o", "", "write the scored batch to a JSON file instead of stdout")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	batch, err := readBatch(args[0])
	if err != nil {
		return err
	}

	scored := feasibility.ScoreBatch(batch, os.Stderr)

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		if err := writeBatch(output, scored); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "batch written: %s\n", output)
		return nil
	}
	return printBatch(scored)
}
