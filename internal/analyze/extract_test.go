// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

func TestCleanMarkdownStripsSyntax(t *testing.T) {
	in := "# My Strategy\n\nA **momentum** system using `pandas`.\n\n```python\nbuy()\n```\n\n[docs](https://example.com) ![badge](img.png)\n"
	got := CleanMarkdown(in)

	for _, banned := range []string{"#", "**", "```", "](", "pandas"} {
		if strings.Contains(got, banned) {
			t.Errorf("CleanMarkdown left %q in output: %q", banned, got)
		}
	}
	if !strings.Contains(got, "momentum") {
		t.Errorf("CleanMarkdown dropped prose: %q", got)
	}
	if !strings.Contains(got, "docs") {
		t.Errorf("CleanMarkdown should keep link text: %q", got)
	}
}

func TestCleanMarkdownRemovesHTML(t *testing.T) {
	in := "<div align=\"center\"><h1>Bot</h1></div>\n\nTrades breakouts on daily candles."
	got := CleanMarkdown(in)
	if strings.Contains(got, "<div") || strings.Contains(got, "align") {
		t.Errorf("HTML survived cleaning: %q", got)
	}
	if !strings.Contains(got, "breakouts") {
		t.Errorf("prose lost during HTML cleaning: %q", got)
	}
}

func TestDetectIndicators(t *testing.T) {
	text := "Uses RSI and macd crossovers with Bollinger Bands for confirmation."
	got := detectIndicators(text)

	want := []string{"RSI", "MACD", "Bollinger Bands"}
	if len(got) != len(want) {
		t.Fatalf("detectIndicators = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("indicator[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.Category
	}{
		{"momentum", "a trend following momentum system", types.CategoryMomentum},
		{"mean reversion", "price reverts to the mean when oversold", types.CategoryMeanReversion},
		{"ml", "LSTM neural network price prediction", types.CategoryML},
		{"statistical", "pairs trading with cointegration tests", types.CategoryStatistical},
		{"breakout", "trades channel breakout signals", types.CategoryBreakout},
		{"none", "a generic trading toolkit", types.CategoryOther},
		{"frequency wins", "momentum momentum momentum with one breakout", types.CategoryMomentum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyCategory(strings.ToLower(tt.text)); got != tt.want {
				t.Errorf("classifyCategory(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectTimeframe(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"operates on 5-minute candles", "5 minute"},
		{"rebalances daily", "daily"},
		{"tick level market making", "tick"},
		{"4h chart swing trades", "4 hour"},
		{"no timing words here", "not specified"},
	}
	for _, tt := range tests {
		if got := detectTimeframe(tt.text); got != tt.want {
			t.Errorf("detectTimeframe(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDetectAssetClass(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"trades bitcoin on binance", "crypto"},
		{"nasdaq stock screener", "equities"},
		{"eurusd scalper", "forex"},
		{"nothing specific", "not specified"},
	}
	for _, tt := range tests {
		if got := detectAssetClass(strings.ToLower(tt.text)); got != tt.want {
			t.Errorf("detectAssetClass(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractSummaryEntryExitHints(t *testing.T) {
	readme := "A momentum strategy for crypto markets that follows strong trends.\n" +
		"It enters a long position when RSI crosses above 30.\n" +
		"The position is closed when the stop-loss at 2% is hit.\n"

	s := ExtractSummary(readme, "", nil)

	if s.EntryLogic == NoEntryLogic {
		t.Error("entry hint not detected")
	}
	if !strings.Contains(s.EntryLogic, "RSI crosses above 30") {
		t.Errorf("EntryLogic = %q", s.EntryLogic)
	}
	if s.ExitLogic == NoExitLogic {
		t.Error("exit hint not detected")
	}
	if s.Category != types.CategoryMomentum {
		t.Errorf("Category = %q, want momentum", s.Category)
	}
	if s.Tier != types.Tier1 {
		t.Errorf("Tier = %q, want Tier 1", s.Tier)
	}
}

func TestExtractSummaryFallbacks(t *testing.T) {
	s := ExtractSummary("A short readme.", "", nil)
	if s.EntryLogic != NoEntryLogic {
		t.Errorf("EntryLogic = %q, want fallback", s.EntryLogic)
	}
	if s.ExitLogic != NoExitLogic {
		t.Errorf("ExitLogic = %q, want fallback", s.ExitLogic)
	}
	if s.Tier != types.TierUnclear {
		t.Errorf("Tier = %q, want Unclear", s.Tier)
	}
}

func TestEntryHintTruncatesOnRuneBoundary(t *testing.T) {
	line := "enters a long position when " + strings.Repeat("上昇トレンド", 50)
	s := ExtractSummary(line, "", nil)

	if s.EntryLogic == NoEntryLogic {
		t.Fatal("entry hint not detected")
	}
	if !utf8.ValidString(s.EntryLogic) {
		t.Error("truncated hint split a multibyte character")
	}
	if got := utf8.RuneCountInString(s.EntryLogic); got != 200 {
		t.Errorf("hint length = %d runes, want 200", got)
	}
}

func TestExtractSummaryExclusion(t *testing.T) {
	s := ExtractSummary("Cross-exchange arbitrage bot for crypto.", "", []string{"arbitrage"})
	if !s.Excluded {
		t.Fatal("expected candidate to be excluded")
	}
	if !strings.Contains(s.ExcludeReason, "arbitrage") {
		t.Errorf("ExcludeReason = %q", s.ExcludeReason)
	}
}

func TestAssignTier(t *testing.T) {
	tests := []struct {
		name     string
		category types.Category
		entry    string
		exit     string
		want     types.Tier
	}{
		{"full", types.CategoryMomentum, "buys when RSI low", "sells at target", types.Tier1},
		{"one hint", types.CategoryMomentum, "buys when RSI low", NoExitLogic, types.Tier2},
		{"category only", types.CategoryMomentum, NoEntryLogic, NoExitLogic, types.Tier3},
		{"nothing", types.CategoryOther, NoEntryLogic, NoExitLogic, types.TierUnclear},
		{"hints but no category", types.CategoryOther, "buys dips", "sells rips", types.TierUnclear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &types.StrategySummary{Category: tt.category, EntryLogic: tt.entry, ExitLogic: tt.exit}
			if got := assignTier(s); got != tt.want {
				t.Errorf("assignTier = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommentText(t *testing.T) {
	source := "# Mean reversion entry\ndef enter(self):\n    \"\"\"Buys when z-score < -2.\"\"\"\n    return True\n// closes at the mean\n"
	got := commentText(source)

	if !strings.Contains(got, "Mean reversion entry") {
		t.Errorf("hash comment missing: %q", got)
	}
	if !strings.Contains(got, "z-score < -2") {
		t.Errorf("docstring missing: %q", got)
	}
	if !strings.Contains(got, "closes at the mean") {
		t.Errorf("slash comment missing: %q", got)
	}
	if strings.Contains(got, "def enter") {
		t.Errorf("code leaked into comment text: %q", got)
	}
}

func TestLooksLikeCode(t *testing.T) {
	if !looksLikeCode("def calculate_rsi(prices):") {
		t.Error("python def not detected as code")
	}
	if looksLikeCode("This strategy buys low and sells high") {
		t.Error("prose misdetected as code")
	}
}
