// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultDelay     = 2 * time.Second
	defaultUserAgent = "strategy-scout/0.1"
)

// pipelineConfig assembles the full stage configuration from viper values,
// falling back to secrets for credentials and to built-in defaults elsewhere.
func pipelineConfig() types.PipelineConfig {
	v := viper.GetViper()

	httpCfg := types.HTTPConfig{
		Timeout:   durationDefault(v, "http.timeout", defaultTimeout),
		UserAgent: stringDefault(v, "http.user_agent", defaultUserAgent),
	}
	githubToken := secretDefault("github-token", v.GetString("github.token"))

	return types.PipelineConfig{
		Scout: types.ScoutConfig{
			HTTPConfig:        httpCfg,
			Keywords:          v.GetStringSlice("scout.keywords"),
			MinStars:          intDefault(v, "scout.min_stars", 5),
			PreferredLanguage: v.GetString("scout.preferred_language"),
			LookbackWindow:    durationDefault(v, "scout.lookback_window", 24*time.Hour),
			RequestDelay:      durationDefault(v, "scout.request_delay", defaultDelay),
			Token:             githubToken,
		},
		Analyze: types.AnalyzeConfig{
			HTTPConfig:      httpCfg,
			MaxCoreFiles:    intDefault(v, "analyze.max_core_files", 3),
			RequestDelay:    durationDefault(v, "analyze.request_delay", defaultDelay),
			ExcludeKeywords: v.GetStringSlice("analyze.exclude_keywords"),
			Token:           githubToken,
		},
		Dedup: types.DedupConfig{
			CorpusPath:         stringDefault(v, "dedup.corpus_path", filepath.Join("data", "strategy_db.yaml")),
			DuplicateThreshold: v.GetFloat64("dedup.duplicate_threshold"),
			NovelThreshold:     v.GetFloat64("dedup.novel_threshold"),
		},
		Report: types.ReportConfig{
			ReportsDir: stringDefault(v, "report.reports_dir", "reports"),
			TopN:       intDefault(v, "report.top_n", 5),
		},
		Notify: types.NotifyConfig{
			HTTPConfig: httpCfg,
			BotToken:   secretDefault("telegram-bot-token", v.GetString("notify.bot_token")),
			ChatID:     secretDefault("telegram-chat-id", v.GetString("notify.chat_id")),
			MaxRunes:   intDefault(v, "notify.max_runes", 4000),
		},
		Archive: types.ArchiveConfig{
			DataDir:    stringDefault(v, "archive.data_dir", "data"),
			MaxResults: intDefault(v, "archive.max_results", 20),
		},
		Track: types.TrackConfig{
			Path: stringDefault(v, "track.path", filepath.Join("data", "active_strategies.yaml")),
		},
		LogsDir: stringDefault(v, "logs_dir", "logs"),
	}
}

func stringDefault(v *viper.Viper, key, fallback string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	return fallback
}

func intDefault(v *viper.Viper, key string, fallback int) int {
	if n := v.GetInt(key); n > 0 {
		return n
	}
	return fallback
}

func durationDefault(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if d := v.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}

// readBatch loads a candidate batch from a JSON file written by an earlier
// stage subcommand.
func readBatch(path string) ([]types.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	var batch []types.Candidate
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}
	return batch, nil
}

// printBatch writes a candidate batch as indented JSON to stdout.
func printBatch(batch []types.Candidate) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(batch)
}

// writeBatch saves a candidate batch to a JSON file for the next stage.
func writeBatch(path string, batch []types.Candidate) error {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding batch: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing batch file: %w", err)
	}
	return nil
}
