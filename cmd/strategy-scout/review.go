// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/strategy-scout/internal/archive"
	"github.com/pdiddy/strategy-scout/internal/review"
	"github.com/pdiddy/strategy-scout/internal/track"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Generate weekly and monthly review reports",
}

var reviewWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Review tracked strategies against the BTC benchmark",
	Long: `Weekly reads the active-strategies list and writes a markdown review
comparing each tracked strategy's forward-test performance against BTC
buy-and-hold over its benchmark window.`,
	RunE: runReviewWeekly,
}

var reviewMonthlyCmd = &cobra.Command{
	Use:   "monthly [YYYY-MM]",
	Short: "Aggregate a month of scan history into a report",
	Long: `Monthly aggregates the archived runs of one calendar month: totals,
category breakdown, and pursue recommendations. Defaults to the current
month.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReviewMonthly,
}

func init() {
	reviewWeeklyCmd.Flags().String("dir", "", "output directory (default weekly_reviews)")
	reviewMonthlyCmd.Flags().String("dir", "", "output directory (default monthly_reports)")

	reviewCmd.AddCommand(reviewWeeklyCmd)
	reviewCmd.AddCommand(reviewMonthlyCmd)
	rootCmd.AddCommand(reviewCmd)
}

func runReviewWeekly(cmd *cobra.Command, args []string) error {
	entries, err := track.NewList(pipelineConfig().Track).Load()
	if err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	date := time.Now().UTC().Format("2006-01-02")

	path, err := review.WriteWeekly(dir, date, entries)
	if err != nil {
		return err
	}
	fmt.Printf("weekly review written: %s\n", path)
	return nil
}

func runReviewMonthly(cmd *cobra.Command, args []string) error {
	month := time.Now().UTC().Format("2006-01")
	if len(args) == 1 {
		month = args[0]
	}

	store, err := archive.NewStore(pipelineConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	dir, _ := cmd.Flags().GetString("dir")
	path, err := review.WriteMonthly(context.Background(), store, dir, month)
	if err != nil {
		return err
	}
	fmt.Printf("monthly report written: %s\n", path)
	return nil
}
