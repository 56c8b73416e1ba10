// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/strategy-scout/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Query and export the scan history",
	Long: `Archive inspects the SQLite scan history that run populates. Use query
for ad-hoc searches (full-text over descriptions and concepts, plus
structured filters) and export to dump matching candidates to a file.`,
}

// --- query subcommand ---

var archiveQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search archived candidates",
	RunE:  runArchiveQuery,
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export matching candidates to a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveExport,
}

func init() {
	for _, cmd := range []*cobra.Command{archiveQueryCmd, archiveExportCmd} {
		cmd.Flags().String("category", "", "filter by strategy category")
		cmd.Flags().String("status", "", "filter by dedup status (novel, similar, duplicate)")
		cmd.Flags().String("recommendation", "", "filter by recommendation (pursue, monitor, skip)")
		cmd.Flags().Float64("min-score", 0, "minimum overall feasibility score")
		cmd.Flags().String("since", "", "earliest run date (YYYY-MM-DD)")
		cmd.Flags().String("until", "", "latest run date (YYYY-MM-DD)")
		cmd.Flags().Int("limit", 0, "maximum results (default 20)")
	}
	archiveQueryCmd.Flags().Bool("json", false, "output results as JSON")

	archiveCmd.AddCommand(archiveQueryCmd)
	archiveCmd.AddCommand(archiveExportCmd)
	rootCmd.AddCommand(archiveCmd)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) archive.QueryOptions {
	opts := archive.QueryOptions{}
	if len(args) > 0 {
		opts.Text = strings.Join(args, " ")
	}
	opts.Category, _ = cmd.Flags().GetString("category")
	opts.Status, _ = cmd.Flags().GetString("status")
	opts.Recommendation, _ = cmd.Flags().GetString("recommendation")
	opts.MinScore, _ = cmd.Flags().GetFloat64("min-score")
	opts.Since, _ = cmd.Flags().GetString("since")
	opts.Until, _ = cmd.Flags().GetString("until")
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	return opts
}

func runArchiveQuery(cmd *cobra.Command, args []string) error {
	store, err := archive.NewStore(pipelineConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(context.Background(), queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-35s  %-14s  %-9s  %-6s  %s\n",
		"Repository", "Category", "Status", "Score", "Recommendation")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, c := range results {
		category := ""
		if c.Summary != nil {
			category = string(c.Summary.Category)
		}
		score, recommendation := "", ""
		if c.Feasibility != nil {
			score = fmt.Sprintf("%.2f", c.Feasibility.Overall)
			recommendation = string(c.Feasibility.Recommendation)
		}
		name := c.RepoName
		if len(name) > 35 {
			name = name[:32] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-35s  %-14s  %-9s  %-6s  %s\n",
			name, category, c.DedupStatus, score, recommendation)
	}
	return nil
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	store, err := archive.NewStore(pipelineConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Export(context.Background(), args[0], queryOptsFromFlags(cmd, nil)); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", args[0])
	return nil
}
