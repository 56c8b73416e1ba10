// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DedupStatus is the three-way novelty classification of a candidate
// against the persistent strategy corpus.
type DedupStatus string

const (
	StatusDuplicate DedupStatus = "duplicate"
	StatusSimilar   DedupStatus = "similar"
	StatusNovel     DedupStatus = "novel"
)

// Category is the strategy category label. The set is closed; anything the
// analyzer cannot place falls into CategoryOther.
type Category string

const (
	CategoryMomentum      Category = "momentum"
	CategoryMeanReversion Category = "mean-reversion"
	CategoryArbitrage     Category = "arbitrage"
	CategoryML            Category = "ML"
	CategoryStatistical   Category = "statistical"
	CategoryBreakout      Category = "breakout"
	CategoryOther         Category = "other"
)

// Tier is the analyst's review tier for a candidate. Tier 1 strategies have
// a resolved category and both entry and exit logic described; Unclear ones
// are excluded from the daily digest.
type Tier string

const (
	Tier1       Tier = "Tier 1"
	Tier2       Tier = "Tier 2"
	Tier3       Tier = "Tier 3"
	TierUnclear Tier = "Unclear"
)

// Candidate is one discovered strategy repository flowing through the
// pipeline. The discovery stage creates it; each later stage only adds
// fields and never rewrites fields owned by an earlier stage.
type Candidate struct {
	// RepoURL is the canonical repository URL and the candidate's unique ID.
	RepoURL string `json:"repo_url" yaml:"repo_url"`

	// RepoName is the owner/name form (e.g. "alice/mean-reversion-bot").
	RepoName string `json:"repo_name" yaml:"repo_name"`

	// Description is the repository's free-text description.
	Description string `json:"description" yaml:"description"`

	// Stars is the repository star count at discovery time.
	Stars int `json:"stars" yaml:"stars"`

	// Language is the repository's primary source language label.
	Language string `json:"language" yaml:"language"`

	// CreatedAt is the repository creation timestamp.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Topics lists the repository topic tags.
	Topics []string `json:"topics" yaml:"topics"`

	// Summary is attached by the analyze stage. Nil when enrichment was
	// skipped or failed for the whole batch; downstream stages treat a nil
	// summary as all-empty fields.
	Summary *StrategySummary `json:"strategy_summary,omitempty" yaml:"strategy_summary,omitempty"`

	// DedupStatus and MaxSimilarity are set by the dedup stage.
	DedupStatus   DedupStatus `json:"dedup_status,omitempty" yaml:"dedup_status,omitempty"`
	MaxSimilarity float64     `json:"max_similarity" yaml:"max_similarity"`

	// Feasibility is set by the scoring stage.
	Feasibility *FeasibilityResult `json:"feasibility,omitempty" yaml:"feasibility,omitempty"`
}

// StrategySummary is the plain-English strategy description extracted from a
// candidate's README and core source files. Immutable once attached.
type StrategySummary struct {
	// CoreConcept is a one-to-two sentence description of the trading idea.
	CoreConcept string `json:"core_concept" yaml:"core_concept"`

	// EntryLogic and ExitLogic are prose hints for trade entry and exit.
	EntryLogic string `json:"entry_logic" yaml:"entry_logic"`
	ExitLogic  string `json:"exit_logic" yaml:"exit_logic"`

	// Indicators lists detected technical-indicator mentions.
	Indicators []string `json:"indicators" yaml:"indicators"`

	// Timeframe is a granularity label (e.g. "5 minute", "daily", "tick").
	Timeframe string `json:"timeframe" yaml:"timeframe"`

	// AssetClass is the detected asset class (e.g. "crypto", "equities").
	AssetClass string `json:"asset_class" yaml:"asset_class"`

	// Category is the strategy category from the closed set.
	Category Category `json:"category" yaml:"category"`

	// Tier is the analyst's review tier.
	Tier Tier `json:"tier" yaml:"tier"`

	// Excluded marks strategies hit by a configured exclusion keyword.
	Excluded      bool   `json:"excluded" yaml:"excluded"`
	ExcludeReason string `json:"exclude_reason,omitempty" yaml:"exclude_reason,omitempty"`
}

// Recommendation is the feasibility verdict for a candidate.
type Recommendation string

const (
	RecommendPursue  Recommendation = "pursue"
	RecommendMonitor Recommendation = "monitor"
	RecommendSkip    Recommendation = "skip"

	// RecommendSkipDuplicate is the sentinel verdict for candidates the
	// dedup stage flagged as duplicates; they bypass scoring entirely.
	RecommendSkipDuplicate Recommendation = "skip (duplicate)"
)

// FeasibilityResult holds the five sub-scores, the weighted overall score,
// and the recommendation. Never mutated after creation.
type FeasibilityResult struct {
	// Scores maps sub-score name to its clamped [1,10] value. Empty for the
	// duplicate sentinel.
	Scores map[string]int `json:"scores" yaml:"scores"`

	// Overall is the weighted score in [1,10], rounded to two decimals
	// (zero for the duplicate sentinel).
	Overall float64 `json:"overall_score" yaml:"overall_score"`

	Recommendation Recommendation `json:"recommendation" yaml:"recommendation"`
}

// RunRecord summarizes one pipeline invocation for the scan archive.
type RunRecord struct {
	// ID is a generated UUID for the run.
	ID string `json:"id" yaml:"id"`

	// Date is the UTC run date (YYYY-MM-DD).
	Date string `json:"date" yaml:"date"`

	// Discovered, Novel, and Pursue are batch counts at the end of the run.
	Discovered int `json:"discovered" yaml:"discovered"`
	Novel      int `json:"novel" yaml:"novel"`
	Pursue     int `json:"pursue" yaml:"pursue"`

	// StartedAt is the run start time.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
}
