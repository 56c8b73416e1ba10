// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

func candidate(name string, tier types.Tier, overall float64, stars int) types.Candidate {
	return types.Candidate{
		RepoName:    name,
		RepoURL:     "https://github.com/" + name,
		Stars:       stars,
		DedupStatus: types.StatusNovel,
		Summary: &types.StrategySummary{
			CoreConcept: "A momentum idea.",
			EntryLogic:  "buys strength",
			ExitLogic:   "sells weakness",
			Category:    types.CategoryMomentum,
			Tier:        tier,
		},
		Feasibility: &types.FeasibilityResult{
			Scores:         map[string]int{},
			Overall:        overall,
			Recommendation: types.RecommendMonitor,
		},
	}
}

func TestEligibleFilters(t *testing.T) {
	base := candidate("a/b", types.Tier1, 7, 10)
	if !Eligible(base) {
		t.Fatal("base candidate should be eligible")
	}

	dup := base
	dup.DedupStatus = types.StatusDuplicate
	if Eligible(dup) {
		t.Error("duplicate should be ineligible")
	}

	excluded := candidate("a/c", types.Tier1, 7, 10)
	excluded.Summary.Excluded = true
	if Eligible(excluded) {
		t.Error("excluded should be ineligible")
	}

	unclear := candidate("a/d", types.TierUnclear, 7, 10)
	if Eligible(unclear) {
		t.Error("Unclear tier should be ineligible")
	}

	framework := candidate("a/e", types.Tier1, 7, 10)
	framework.Description = "A backtesting framework for Python"
	if Eligible(framework) {
		t.Error("framework repo should be ineligible")
	}

	noSummary := types.Candidate{RepoName: "a/f", DedupStatus: types.StatusNovel}
	if Eligible(noSummary) {
		t.Error("candidate without summary should be ineligible")
	}
}

func TestSelectTopRanking(t *testing.T) {
	candidates := []types.Candidate{
		candidate("low-tier", types.Tier3, 9.0, 500),
		candidate("high-score", types.Tier1, 8.0, 10),
		candidate("low-score", types.Tier1, 6.0, 10),
		candidate("star-break", types.Tier1, 8.0, 99),
	}

	top := SelectTop(candidates, 3)
	if len(top) != 3 {
		t.Fatalf("got %d results, want 3", len(top))
	}
	// Tier 1 before Tier 3; within Tier 1 by score, then stars.
	want := []string{"star-break", "high-score", "low-score"}
	for i, name := range want {
		if top[i].RepoName != name {
			t.Errorf("top[%d] = %s, want %s", i, top[i].RepoName, name)
		}
	}
}

func TestSelectTopDefaultsToFive(t *testing.T) {
	var candidates []types.Candidate
	for i := 0; i < 8; i++ {
		candidates = append(candidates, candidate("a/b", types.Tier1, 7, i))
	}
	if got := SelectTop(candidates, 0); len(got) != 5 {
		t.Errorf("got %d results, want 5", len(got))
	}
}

func TestDigestEmptyBatch(t *testing.T) {
	out := Digest("2026-08-23", nil, nil)
	if !strings.Contains(out, "No eligible strategies today.") {
		t.Errorf("empty digest missing placeholder: %q", out)
	}
	if !strings.Contains(out, "2026-08-23") {
		t.Error("digest missing date")
	}
}

func TestDigestContents(t *testing.T) {
	c := candidate("alice/momo", types.Tier1, 7.25, 42)
	c.Summary.Indicators = []string{"RSI", "MACD"}
	c.Summary.Timeframe = "daily"
	c.Summary.AssetClass = "crypto"

	out := Digest("2026-08-23", []types.Candidate{c}, []types.Candidate{c})

	for _, want := range []string{
		"## 1. alice/momo",
		"https://github.com/alice/momo",
		"Tier: Tier 1",
		"7.25 (monitor)",
		"RSI, MACD",
		"daily",
		"Entry: buys strength",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("digest missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCreatesReportFile(t *testing.T) {
	dir := t.TempDir()
	cfg := types.ReportConfig{ReportsDir: dir, TopN: 5}

	path, content, err := Write(cfg, "2026-08-23", []types.Candidate{candidate("a/b", types.Tier1, 7, 1)})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "digest_2026-08-23.md" {
		t.Errorf("unexpected report name: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Error("file contents differ from returned content")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestCompactDigestShortForm(t *testing.T) {
	c := candidate("alice/momo", types.Tier1, 7.25, 42)
	out := CompactDigest("2026-08-23", []types.Candidate{c}, []types.Candidate{c})

	if !strings.Contains(out, "1. alice/momo [Tier 1] 7.25 monitor") {
		t.Errorf("compact digest format wrong:\n%s", out)
	}
	if strings.Contains(out, "#") {
		t.Error("compact digest should not contain markdown headings")
	}
}
