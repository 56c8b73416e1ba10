// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

// Fallback sentinels for entry/exit logic when the text yields no hint.
const (
	NoEntryLogic = "No explicit entry logic described."
	NoExitLogic  = "No explicit exit logic described."
)

// knownIndicators is the detection vocabulary, in reporting order.
var knownIndicators = []string{
	"RSI", "MACD", "SMA", "EMA", "Bollinger Bands", "ATR", "VWAP", "OBV",
	"Stochastic", "ADX", "CCI", "Ichimoku", "Fibonacci", "Moving Average",
	"Volume Profile", "Supertrend", "Keltner", "Donchian", "Williams %R",
	"MFI", "ROC",
}

// categoryKeywords maps each category to the phrases counted during
// classification. Order fixes tie-breaking.
var categoryOrder = []types.Category{
	types.CategoryMomentum,
	types.CategoryMeanReversion,
	types.CategoryArbitrage,
	types.CategoryML,
	types.CategoryStatistical,
	types.CategoryBreakout,
}

var categoryKeywords = map[types.Category][]string{
	types.CategoryMomentum:      {"momentum", "trend following", "trend-following", "trending"},
	types.CategoryMeanReversion: {"mean reversion", "mean-reversion", "reverts", "oversold", "overbought"},
	types.CategoryArbitrage:     {"arbitrage", "arb ", "spread trading", "cross-exchange"},
	types.CategoryML:            {"machine learning", "neural network", "deep learning", "lstm", "reinforcement learning", "random forest", "xgboost"},
	types.CategoryStatistical:   {"statistical", "cointegration", "pairs trading", "stationar", "z-score", "kalman"},
	types.CategoryBreakout:      {"breakout", "break out", "channel break", "range break"},
}

// assetClassKeywords maps detection phrases to the asset class label, checked
// in order.
var assetClassOrder = []struct {
	label    string
	keywords []string
}{
	{"crypto", []string{"crypto", "bitcoin", "btc", "ethereum", "eth ", "binance", "coinbase", "altcoin"}},
	{"equities", []string{"stock", "equit", "nasdaq", "s&p", "nyse", "shares"}},
	{"forex", []string{"forex", "fx ", "currency pair", "eurusd", "usd/"}},
	{"futures", []string{"futures", "cme ", "commodit"}},
	{"options", []string{"options", "option chain", "straddle", "iron condor"}},
}

// timeframePatterns detect granularity labels, most specific first.
var timeframePatterns = []struct {
	re    *regexp.Regexp
	label func(match []string) string
}{
	{regexp.MustCompile(`(?i)\btick\b`), func([]string) string { return "tick" }},
	{regexp.MustCompile(`(?i)\b(\d+)[\s-]?min(ute)?s?\b`), func(m []string) string { return m[1] + " minute" }},
	{regexp.MustCompile(`(?i)\b(\d+)[\s-]?h(our)?s?\b`), func(m []string) string { return m[1] + " hour" }},
	{regexp.MustCompile(`(?i)\bhourly\b`), func([]string) string { return "hourly" }},
	{regexp.MustCompile(`(?i)\b(daily|1d\b|eod\b)`), func([]string) string { return "daily" }},
	{regexp.MustCompile(`(?i)\bweekly\b`), func([]string) string { return "weekly" }},
	{regexp.MustCompile(`(?i)\bintraday\b`), func([]string) string { return "intraday" }},
}

// Markdown stripping patterns, applied in order.
var (
	codeFenceRe    = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe   = regexp.MustCompile("`[^`]*`")
	imageRe        = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe         = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingRe      = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	emphasisRe     = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
	badgeRe        = regexp.MustCompile(`(?m)^\s*\[!\[.*$`)
	tableRowRe     = regexp.MustCompile(`(?m)^\s*\|.*\|\s*$`)
	blankRunRe     = regexp.MustCompile(`\n{3,}`)
	htmlFragmentRe = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
)

// entryHintRe and exitHintRe pick the first sentence mentioning trade entry
// or exit conditions.
var (
	entryHintRe = regexp.MustCompile(`(?i)[^.\n]*\b(enter(s|ed|ing)?|entry|buy(s)? when|long when|open(s)? a position|go(es)? long)\b[^.\n]*`)
	exitHintRe  = regexp.MustCompile(`(?i)[^.\n]*\b(exit(s|ed|ing)?|sell(s)? when|close(s|d)?|stop[- ]loss|take[- ]profit|go(es)? flat)\b[^.\n]*`)
)

// CleanMarkdown strips markdown syntax and embedded HTML from README text,
// returning plain prose suitable for signal extraction.
func CleanMarkdown(text string) string {
	text = codeFenceRe.ReplaceAllString(text, " ")
	text = badgeRe.ReplaceAllString(text, "")
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = inlineCodeRe.ReplaceAllString(text, " ")
	text = tableRowRe.ReplaceAllString(text, "")
	text = headingRe.ReplaceAllString(text, "")
	text = emphasisRe.ReplaceAllString(text, "$1")

	// READMEs frequently embed HTML blocks (centered logos, detail tags).
	// goquery parses whatever fragment survives and keeps only the text.
	if htmlFragmentRe.MatchString(text) {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			doc.Find("script,style").Remove()
			text = doc.Text()
		}
	}

	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// looksLikeCode reports whether a line is probably source code rather than
// prose, used to filter core-file content before extraction.
func looksLikeCode(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	codeMarkers := []string{"def ", "class ", "import ", "from ", "func ", "return ", "self.", "://", "{", "}", "==", ":=", ");"}
	for _, marker := range codeMarkers {
		if strings.Contains(trimmed, marker) {
			return true
		}
	}
	return false
}

// commentText extracts comment and docstring lines from source code; those
// lines carry most of the human-readable strategy description.
func commentText(source string) string {
	var out []string
	inDocstring := false
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.Contains(trimmed, `"""`) || strings.Contains(trimmed, "'''"):
			inDocstring = !inDocstring
			cleaned := strings.Trim(trimmed, `"'`)
			if cleaned != "" {
				out = append(out, cleaned)
			}
		case inDocstring:
			out = append(out, trimmed)
		case strings.HasPrefix(trimmed, "#"):
			out = append(out, strings.TrimLeft(trimmed, "# "))
		case strings.HasPrefix(trimmed, "//"):
			out = append(out, strings.TrimLeft(trimmed, "/ "))
		}
	}
	return strings.Join(out, "\n")
}

// ExtractSummary builds a strategy summary from cleaned README prose plus
// comment text from core files. excludeKeywords marks matching strategies
// as excluded without dropping them.
func ExtractSummary(readme, codeComments string, excludeKeywords []string) *types.StrategySummary {
	combined := readme
	if codeComments != "" {
		combined += "\n" + codeComments
	}
	lower := strings.ToLower(combined)

	s := &types.StrategySummary{
		CoreConcept: coreConcept(readme),
		EntryLogic:  firstHint(combined, entryHintRe, NoEntryLogic),
		ExitLogic:   firstHint(combined, exitHintRe, NoExitLogic),
		Indicators:  detectIndicators(combined),
		Timeframe:   detectTimeframe(combined),
		AssetClass:  detectAssetClass(lower),
		Category:    classifyCategory(lower),
	}
	s.Tier = assignTier(s)

	for _, kw := range excludeKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			s.Excluded = true
			s.ExcludeReason = "mentions excluded keyword: " + kw
			break
		}
	}
	return s
}

// coreConcept takes the first two non-trivial prose sentences of the README.
func coreConcept(readme string) string {
	var sentences []string
	for _, raw := range strings.Split(readme, ".") {
		sentence := strings.TrimSpace(strings.ReplaceAll(raw, "\n", " "))
		if len(sentence) < 20 || looksLikeCode(sentence) {
			continue
		}
		sentences = append(sentences, sentence)
		if len(sentences) == 2 {
			break
		}
	}
	if len(sentences) == 0 {
		return ""
	}
	return strings.Join(sentences, ". ") + "."
}

func firstHint(text string, re *regexp.Regexp, fallback string) string {
	for _, line := range strings.Split(text, "\n") {
		if looksLikeCode(line) {
			continue
		}
		if m := re.FindString(line); m != "" {
			hint := strings.TrimSpace(m)
			if runes := []rune(hint); len(runes) > 200 {
				hint = string(runes[:200])
			}
			return hint
		}
	}
	return fallback
}

func detectIndicators(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, ind := range knownIndicators {
		if strings.Contains(lower, strings.ToLower(ind)) {
			found = append(found, ind)
		}
	}
	return found
}

func detectTimeframe(text string) string {
	for _, p := range timeframePatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			return p.label(m)
		}
	}
	return "not specified"
}

func detectAssetClass(lower string) string {
	for _, ac := range assetClassOrder {
		for _, kw := range ac.keywords {
			if strings.Contains(lower, kw) {
				return ac.label
			}
		}
	}
	return "not specified"
}

// classifyCategory counts keyword occurrences per category and picks the
// highest count; ties break in categoryOrder. No hits at all yields other.
func classifyCategory(lower string) types.Category {
	best := types.CategoryOther
	bestCount := 0
	for _, cat := range categoryOrder {
		count := 0
		for _, kw := range categoryKeywords[cat] {
			count += strings.Count(lower, kw)
		}
		if count > bestCount {
			best = cat
			bestCount = count
		}
	}
	return best
}

// assignTier grades how complete the extracted summary is. Tier 1 needs a
// resolved category and both entry and exit hints; Tier 2 one hint; Tier 3
// category only; everything else is Unclear.
func assignTier(s *types.StrategySummary) types.Tier {
	hasCategory := s.Category != types.CategoryOther
	hasEntry := s.EntryLogic != NoEntryLogic
	hasExit := s.ExitLogic != NoExitLogic

	switch {
	case hasCategory && hasEntry && hasExit:
		return types.Tier1
	case hasCategory && (hasEntry || hasExit):
		return types.Tier2
	case hasCategory:
		return types.Tier3
	default:
		return types.TierUnclear
	}
}
