// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review generates the weekly forward-test review and the monthly
// archive report.
package review

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

// WeeklyDir is the default output directory for weekly reviews.
const WeeklyDir = "weekly_reviews"

// Weekly renders the forward-test review for the tracked strategies.
// Strategies without performance data are listed as pending; those with a
// benchmark window are compared against BTC buy-and-hold over the same
// period.
func Weekly(date string, entries []types.ActiveStrategy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Weekly Strategy Review — %s\n\n", date)

	if len(entries) == 0 {
		b.WriteString("No strategies under tracking.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d strategies under tracking.\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "## %s (%s)\n\n", e.Name, e.Status)
		if e.StrategyTag != "" {
			fmt.Fprintf(&b, "- Category: %s\n", e.StrategyTag)
		}
		if e.Summary != "" {
			fmt.Fprintf(&b, "- Summary: %s\n", e.Summary)
		}

		if e.Performance == nil {
			b.WriteString("- Performance: no data yet\n\n")
			continue
		}

		fmt.Fprintf(&b, "- PnL: %+.2f%%\n", e.Performance.PnLPct)
		if e.Performance.WinRate != "" {
			fmt.Fprintf(&b, "- Win rate: %s\n", e.Performance.WinRate)
		}
		if e.Performance.Sharpe != "" {
			fmt.Fprintf(&b, "- Sharpe: %s\n", e.Performance.Sharpe)
		}
		if e.Performance.MaxDrawdown != "" {
			fmt.Fprintf(&b, "- Max drawdown: %s\n", e.Performance.MaxDrawdown)
		}

		if e.Benchmark != nil && e.Benchmark.BTCStart > 0 {
			btcPct := (e.Benchmark.BTCEnd - e.Benchmark.BTCStart) / e.Benchmark.BTCStart * 100
			verdict := "underperforming"
			if e.Performance.PnLPct > btcPct {
				verdict = "outperforming"
			}
			fmt.Fprintf(&b, "- BTC buy-and-hold: %+.2f%% (%s)\n", btcPct, verdict)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteWeekly renders the weekly review and writes it to
// <dir>/review_<date>.md, returning the file path.
func WriteWeekly(dir, date string, entries []types.ActiveStrategy) (string, error) {
	if dir == "" {
		dir = WeeklyDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating weekly review directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("review_%s.md", date))
	if err := os.WriteFile(path, []byte(Weekly(date, entries)), 0o644); err != nil {
		return "", fmt.Errorf("writing weekly review: %w", err)
	}
	return path, nil
}
