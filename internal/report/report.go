// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the daily digest of scored strategy candidates.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

// frameworkKeywords mark repositories that are tooling rather than a
// tradeable strategy; they never make the digest.
var frameworkKeywords = []string{
	"framework", "library", "sdk", "engine", "platform", "toolkit",
	"backtesting", "backtest", "data pipeline", "infrastructure",
}

// tierRank orders tiers for digest ranking, best first.
var tierRank = map[types.Tier]int{
	types.Tier1:       3,
	types.Tier2:       2,
	types.Tier3:       1,
	types.TierUnclear: 0,
}

// Eligible reports whether a candidate qualifies for the digest: not a
// duplicate, not excluded by keyword, not an Unclear tier, and not a
// framework or tooling repository.
func Eligible(c types.Candidate) bool {
	if c.DedupStatus == types.StatusDuplicate {
		return false
	}
	if c.Summary == nil {
		return false
	}
	if c.Summary.Excluded {
		return false
	}
	if c.Summary.Tier == types.TierUnclear || c.Summary.Tier == "" {
		return false
	}
	haystack := strings.ToLower(c.Description + " " + c.Summary.CoreConcept)
	for _, kw := range frameworkKeywords {
		if strings.Contains(haystack, kw) {
			return false
		}
	}
	return true
}

// SelectTop returns the topN eligible candidates ranked by tier (best first),
// then overall feasibility score descending, then stars descending.
func SelectTop(candidates []types.Candidate, topN int) []types.Candidate {
	if topN <= 0 {
		topN = 5
	}
	var eligible []types.Candidate
	for _, c := range candidates {
		if Eligible(c) {
			eligible = append(eligible, c)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		ti, tj := tierRank[eligible[i].Summary.Tier], tierRank[eligible[j].Summary.Tier]
		if ti != tj {
			return ti > tj
		}
		oi, oj := overall(eligible[i]), overall(eligible[j])
		if oi != oj {
			return oi > oj
		}
		return eligible[i].Stars > eligible[j].Stars
	})
	if len(eligible) > topN {
		eligible = eligible[:topN]
	}
	return eligible
}

func overall(c types.Candidate) float64 {
	if c.Feasibility == nil {
		return 0
	}
	return c.Feasibility.Overall
}

// Digest renders the full markdown report for one run.
func Digest(date string, all, top []types.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Strategy Scout Digest — %s\n\n", date)
	fmt.Fprintf(&b, "Scanned %d repositories, %d novel, %d in today's shortlist.\n\n",
		len(all), countStatus(all, types.StatusNovel), len(top))

	if len(top) == 0 {
		b.WriteString("No eligible strategies today.\n")
		return b.String()
	}

	for i, c := range top {
		s := c.Summary
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, c.RepoName)
		fmt.Fprintf(&b, "- URL: %s\n", c.RepoURL)
		fmt.Fprintf(&b, "- Stars: %d | Tier: %s | Category: %s\n", c.Stars, s.Tier, s.Category)
		if c.Feasibility != nil {
			fmt.Fprintf(&b, "- Feasibility: %.2f (%s)\n", c.Feasibility.Overall, c.Feasibility.Recommendation)
		}
		if len(s.Indicators) > 0 {
			fmt.Fprintf(&b, "- Indicators: %s\n", strings.Join(s.Indicators, ", "))
		}
		fmt.Fprintf(&b, "- Timeframe: %s | Asset class: %s\n", s.Timeframe, s.AssetClass)
		if s.CoreConcept != "" {
			fmt.Fprintf(&b, "\n%s\n", s.CoreConcept)
		}
		fmt.Fprintf(&b, "\n- Entry: %s\n- Exit: %s\n\n", s.EntryLogic, s.ExitLogic)
	}
	return b.String()
}

// CompactDigest renders the short plain-text form used for notifications.
func CompactDigest(date string, all, top []types.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Strategy Scout — %s\n", date)
	fmt.Fprintf(&b, "%d scanned, %d novel\n\n", len(all), countStatus(all, types.StatusNovel))
	if len(top) == 0 {
		b.WriteString("No eligible strategies today.\n")
		return b.String()
	}
	for i, c := range top {
		line := fmt.Sprintf("%d. %s [%s]", i+1, c.RepoName, c.Summary.Tier)
		if c.Feasibility != nil {
			line += fmt.Sprintf(" %.2f %s", c.Feasibility.Overall, c.Feasibility.Recommendation)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// Write renders the digest for today's batch and writes it to
// <reportsDir>/digest_<date>.md atomically. It returns the report path and
// the rendered markdown.
func Write(cfg types.ReportConfig, date string, all []types.Candidate) (string, string, error) {
	dir := cfg.ReportsDir
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating reports directory: %w", err)
	}

	top := SelectTop(all, cfg.TopN)
	content := Digest(date, all, top)
	path := filepath.Join(dir, fmt.Sprintf("digest_%s.md", date))

	tmp, err := os.CreateTemp(dir, ".digest-*.tmp")
	if err != nil {
		return "", "", fmt.Errorf("creating temp report: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("closing report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("renaming report: %w", err)
	}
	return path, content, nil
}

// Today returns the UTC date string used in report filenames.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func countStatus(candidates []types.Candidate, status types.DedupStatus) int {
	n := 0
	for _, c := range candidates {
		if c.DedupStatus == status {
			n++
		}
	}
	return n
}
