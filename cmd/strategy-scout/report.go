// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/strategy-scout/internal/notify"
	"github.com/pdiddy/strategy-scout/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <batch.json>",
	Short: "Write the daily digest for a scored batch",
	Long: `Report selects the top eligible candidates (no duplicates, exclusions,
framework repos, or Unclear tiers), ranks them by tier, feasibility, and
stars, and writes the markdown digest to the reports directory. With
--notify the compact digest is also sent to the configured Telegram chat.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Bool("notify", false, "send the compact digest to Telegram")
	reportCmd.Flags().String("date", "", "report date (default: today, UTC)")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	batch, err := readBatch(args[0])
	if err != nil {
		return err
	}

	cfg := pipelineConfig()
	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = report.Today()
	}

	path, _, err := report.Write(cfg.Report, date, batch)
	if err != nil {
		return err
	}
	fmt.Printf("report written: %s\n", path)

	if send, _ := cmd.Flags().GetBool("notify"); send {
		notifier := notify.NewNotifier(&http.Client{Timeout: cfg.Notify.Timeout}, cfg.Notify)
		if !notifier.Configured() {
			fmt.Fprintln(os.Stderr, "warning: Telegram credentials missing, skipping notification")
			return nil
		}
		compact := report.CompactDigest(date, batch, report.SelectTop(batch, cfg.Report.TopN))
		if err := notifier.Send(context.Background(), compact); err != nil {
			return err
		}
		fmt.Println("notification sent")
	}
	return nil
}
