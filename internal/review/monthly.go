// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/strategy-scout/internal/archive"
	"github.com/pdiddy/strategy-scout/pkg/types"
)

// MonthlyDir is the default output directory for monthly reports.
const MonthlyDir = "monthly_reports"

// Monthly aggregates one calendar month of archived scans into a markdown
// report: run totals, category breakdown, and the month's pursue
// recommendations. month is YYYY-MM.
func Monthly(ctx context.Context, store *archive.Store, month string) (string, error) {
	since := month + "-01"
	until := month + "-31"

	runs, err := store.RunsBetween(ctx, since, until)
	if err != nil {
		return "", fmt.Errorf("loading runs for %s: %w", month, err)
	}
	breakdown, err := store.CategoryBreakdown(ctx, since, until)
	if err != nil {
		return "", fmt.Errorf("loading category breakdown for %s: %w", month, err)
	}
	pursued, err := store.Retrieve(ctx, archive.QueryOptions{
		Recommendation: string(types.RecommendPursue),
		Since:          since,
		Until:          until,
		Limit:          50,
	})
	if err != nil {
		return "", fmt.Errorf("loading pursue candidates for %s: %w", month, err)
	}

	var discovered, novel, pursue int
	for _, r := range runs {
		discovered += r.Discovered
		novel += r.Novel
		pursue += r.Pursue
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Monthly Report — %s\n\n", month)
	fmt.Fprintf(&b, "Runs: %d | Discovered: %d | Novel: %d | Pursue: %d\n\n", len(runs), discovered, novel, pursue)

	if len(breakdown) > 0 {
		b.WriteString("## Categories\n\n")
		categories := make([]string, 0, len(breakdown))
		for cat := range breakdown {
			categories = append(categories, cat)
		}
		sort.Slice(categories, func(i, j int) bool {
			if breakdown[categories[i]] != breakdown[categories[j]] {
				return breakdown[categories[i]] > breakdown[categories[j]]
			}
			return categories[i] < categories[j]
		})
		for _, cat := range categories {
			label := cat
			if label == "" {
				label = "(uncategorized)"
			}
			fmt.Fprintf(&b, "- %s: %d\n", label, breakdown[cat])
		}
		b.WriteString("\n")
	}

	if len(pursued) > 0 {
		b.WriteString("## Pursue recommendations\n\n")
		for _, c := range pursued {
			line := fmt.Sprintf("- %s", c.RepoName)
			if c.Feasibility != nil {
				line += fmt.Sprintf(" (%.2f)", c.Feasibility.Overall)
			}
			fmt.Fprintf(&b, "%s — %s\n", line, c.RepoURL)
		}
	} else {
		b.WriteString("No pursue recommendations this month.\n")
	}
	return b.String(), nil
}

// WriteMonthly renders the monthly report and writes it to
// <dir>/report_<month>.md, returning the file path.
func WriteMonthly(ctx context.Context, store *archive.Store, dir, month string) (string, error) {
	if dir == "" {
		dir = MonthlyDir
	}
	content, err := Monthly(ctx, store, month)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating monthly report directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("report_%s.md", month))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing monthly report: %w", err)
	}
	return path, nil
}
