// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/strategy-scout/internal/archive"
	"github.com/pdiddy/strategy-scout/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full daily pipeline",
	Long: `Run chains every stage: discover candidates on GitHub, extract strategy
summaries, classify novelty against the corpus, score feasibility, write the
daily digest, send the Telegram notification, archive the batch, and register
pursue-recommended strategies for tracking.

A discovery failure aborts the run; any later stage failure degrades the
batch and the run continues.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().Bool("no-log-file", false, "do not tee output to logs/<date>.log")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	out := io.Writer(os.Stdout)
	noLogFile, _ := cmd.Flags().GetBool("no-log-file")
	if !noLogFile {
		logFile, err := openLogFile(cfg.LogsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: log file unavailable: %v\n", err)
		} else {
			defer logFile.Close()
			out = io.MultiWriter(os.Stdout, logFile)
		}
	}

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	p := pipeline.New(cfg, store)
	result, err := p.Run(context.Background(), out)
	if err != nil {
		return err
	}

	printSummary(result)
	return nil
}

func openLogFile(logsDir string) (*os.File, error) {
	if logsDir == "" {
		logsDir = "logs"
	}
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, err
	}
	name := filepath.Join(logsDir, time.Now().UTC().Format("2006-01-02")+".log")
	return os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

func printSummary(result pipeline.Result) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	bold.Println("\nRun summary")
	fmt.Printf("  discovered: %d  novel: %d  pursue: %d  registered: %d\n",
		result.Run.Discovered, result.Run.Novel, result.Run.Pursue, result.Registered)
	if result.ReportPath != "" {
		fmt.Printf("  report: %s\n", result.ReportPath)
	}

	for _, stage := range result.Stages {
		switch stage.Outcome {
		case pipeline.OutcomeOK:
			green.Printf("  ok        %s\n", stage.Name)
		case pipeline.OutcomeDegraded:
			yellow.Printf("  degraded  %s: %v\n", stage.Name, stage.Err)
		case pipeline.OutcomeFatal:
			red.Printf("  fatal     %s: %v\n", stage.Name, stage.Err)
		}
	}
}
