// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/strategy-scout/internal/dedup"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup <batch.json>",
	Short: "Classify batch novelty against the strategy corpus",
	Long: `Dedup compares each candidate's normalized strategy text against the
persistent corpus using TF-IDF cosine similarity and labels it duplicate,
similar, or novel. Similar and novel candidates are added to the corpus so
tomorrow's run sees them.`,
	Args: cobra.ExactArgs(1),
	RunE: runDedup,
}

func init() {
	dedupCmd.Flags().StringP("output", "o", "", "write the classified batch to a JSON file instead of stdout")

	rootCmd.AddCommand(dedupCmd)
}

func runDedup(cmd *cobra.Command, args []string) error {
	batch, err := readBatch(args[0])
	if err != nil {
		return err
	}

	cfg := pipelineConfig().Dedup
	classifier := dedup.NewClassifier(dedup.NewFileStore(cfg.CorpusPath), cfg)

	classified, err := classifier.ClassifyBatch(batch, os.Stderr)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		if err := writeBatch(output, classified); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "batch written: %s\n", output)
		return nil
	}
	return printBatch(classified)
}
