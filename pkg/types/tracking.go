// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ActiveStrategy is one entry in the long-lived forward-test tracking list.
// Entries are registered for pursue-recommended, non-duplicate candidates
// and keyed by a normalized slug of the strategy name.
type ActiveStrategy struct {
	// ID is the slug key (lowercase alphanumerics joined by dashes).
	ID string `json:"id" yaml:"id"`

	// Name is the strategy's display name (usually the repo name).
	Name string `json:"name" yaml:"name"`

	// Status is the tracking state (new entries start as "forward-test").
	Status string `json:"status" yaml:"status"`

	// StrategyTag is the category label carried over from the summary.
	StrategyTag string `json:"strategy_tag" yaml:"strategy_tag"`

	// Summary is the strategy's core concept text.
	Summary string `json:"summary" yaml:"summary"`

	// CreatedAt is the registration timestamp.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Performance holds forward-test results filled in externally; the
	// pipeline never writes these fields, only the weekly review reads them.
	Performance *StrategyPerformance `json:"performance,omitempty" yaml:"performance,omitempty"`

	// Benchmark holds BTC reference prices for the review period.
	Benchmark *BenchmarkWindow `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
}

// Tracking states for ActiveStrategy.Status.
const (
	StrategyStatusForwardTest = "forward-test"
	StrategyStatusLive        = "live"
	StrategyStatusRetired     = "retired"
)

// StrategyPerformance is a forward-test result snapshot.
type StrategyPerformance struct {
	PnLPct      float64 `json:"pnl_pct" yaml:"pnl_pct"`
	WinRate     string  `json:"win_rate,omitempty" yaml:"win_rate,omitempty"`
	Sharpe      string  `json:"sharpe,omitempty" yaml:"sharpe,omitempty"`
	MaxDrawdown string  `json:"max_drawdown,omitempty" yaml:"max_drawdown,omitempty"`
}

// BenchmarkWindow holds BTC start and end prices for buy-and-hold comparison.
type BenchmarkWindow struct {
	BTCStart float64 `json:"btc_start" yaml:"btc_start"`
	BTCEnd   float64 `json:"btc_end" yaml:"btc_end"`
}
