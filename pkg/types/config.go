package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "strategy-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScoutConfig holds settings for the discovery stage.
type ScoutConfig struct {
	HTTPConfig `yaml:",inline"`

	// Keywords are the search phrases scanned each run.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// MinStars filters out repositories below this star count.
	MinStars int `json:"min_stars" yaml:"min_stars"`

	// PreferredLanguage keeps only repositories in this language when the
	// language is known (empty keeps everything).
	PreferredLanguage string `json:"preferred_language" yaml:"preferred_language"`

	// LookbackWindow selects repositories pushed within this window (default 24h).
	LookbackWindow time.Duration `json:"lookback_window" yaml:"lookback_window"`

	// RequestDelay is the fixed delay between consecutive API calls (default 2s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// Token is the GitHub API token, if configured.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// AnalyzeConfig holds settings for the enrichment stage.
type AnalyzeConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxCoreFiles is the number of source files fetched per repository (default 3).
	MaxCoreFiles int `json:"max_core_files" yaml:"max_core_files"`

	// RequestDelay is the fixed delay between consecutive API calls (default 2s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// ExcludeKeywords marks strategies mentioning any of these as excluded
	// (default: arbitrage).
	ExcludeKeywords []string `json:"exclude_keywords" yaml:"exclude_keywords"`

	// Token is the GitHub API token, if configured.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// DedupConfig holds settings for the novelty-classification stage.
type DedupConfig struct {
	// CorpusPath is the persistent strategy corpus file (default
	// "data/strategy_db.yaml").
	CorpusPath string `json:"corpus_path" yaml:"corpus_path"`

	// DuplicateThreshold flags candidates with similarity strictly above it
	// as duplicates (default 0.8).
	DuplicateThreshold float64 `json:"duplicate_threshold" yaml:"duplicate_threshold"`

	// NovelThreshold flags candidates with similarity strictly below it as
	// novel (default 0.5). Similarity between the thresholds, inclusive, is
	// classified similar.
	NovelThreshold float64 `json:"novel_threshold" yaml:"novel_threshold"`
}

// ReportConfig holds settings for the reporting stage.
type ReportConfig struct {
	// ReportsDir is the directory for daily digest files (default "reports").
	ReportsDir string `json:"reports_dir" yaml:"reports_dir"`

	// TopN is the number of strategies in the digest (default 5).
	TopN int `json:"top_n" yaml:"top_n"`
}

// NotifyConfig holds settings for Telegram delivery.
type NotifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// BotToken and ChatID are the Telegram credentials. Notification is
	// skipped when either is empty.
	BotToken string `json:"bot_token,omitempty" yaml:"bot_token,omitempty"`
	ChatID   string `json:"chat_id,omitempty" yaml:"chat_id,omitempty"`

	// MaxRunes is the message length budget before truncation (default 4000).
	MaxRunes int `json:"max_runes" yaml:"max_runes"`
}

// ArchiveConfig holds settings for the scan-history store.
type ArchiveConfig struct {
	// DataDir is the base data directory (contains scans.db and daily_scans/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// TrackConfig holds settings for the active-strategies list.
type TrackConfig struct {
	// Path is the tracking-list file (default "data/active_strategies.yaml").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations for one pipeline run.
type PipelineConfig struct {
	Scout   ScoutConfig   `json:"scout" yaml:"scout"`
	Analyze AnalyzeConfig `json:"analyze" yaml:"analyze"`
	Dedup   DedupConfig   `json:"dedup" yaml:"dedup"`
	Report  ReportConfig  `json:"report" yaml:"report"`
	Notify  NotifyConfig  `json:"notify" yaml:"notify"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
	Track   TrackConfig   `json:"track" yaml:"track"`

	// LogsDir is the directory for per-run log files (default "logs").
	LogsDir string `json:"logs_dir" yaml:"logs_dir"`
}
