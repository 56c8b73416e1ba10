// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feasibility

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

// summaryView is a lowercased snapshot of the fields the rule tables key on,
// computed once per candidate.
type summaryView struct {
	concept    string
	entry      string
	exit       string
	asset      string
	timeframe  string
	category   types.Category
	indicators []string
}

func newSummaryView(s *types.StrategySummary) summaryView {
	if s == nil {
		s = &types.StrategySummary{}
	}
	return summaryView{
		concept:    strings.ToLower(s.CoreConcept),
		entry:      strings.ToLower(s.EntryLogic),
		exit:       strings.ToLower(s.ExitLogic),
		asset:      strings.ToLower(s.AssetClass),
		timeframe:  strings.ToLower(s.Timeframe),
		category:   s.Category,
		indicators: s.Indicators,
	}
}

// rule is one (predicate, adjustment) pair. Rules for a sub-score are
// applied in table order; every matching rule contributes its delta.
type rule struct {
	when  func(v summaryView) bool
	delta int
}

func applyRules(baseline int, rules []rule, v summaryView) int {
	score := baseline
	for _, r := range rules {
		if r.when(v) {
			score += r.delta
		}
	}
	return clamp(score)
}

func clamp(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// crowdedIndicators are indicators so widely used that stacking them
// suggests a crowded, decayed edge.
var crowdedIndicators = map[string]struct{}{
	"SMA": {}, "EMA": {}, "MACD": {}, "RSI": {},
}

func crowdedCount(indicators []string) int {
	n := 0
	for _, ind := range indicators {
		if _, ok := crowdedIndicators[ind]; ok {
			n++
		}
	}
	return n
}

var novelKeywords = []string{"alternative data", "sentiment", "on-chain", "orderbook", "microstructure"}

var expensiveDataKeywords = []string{
	"alternative data", "satellite", "sentiment", "news feed",
	"order flow", "level 2", "options chain", "dark pool",
}

var leverageKeywords = []string{"perpetual", "perp", "leverage", "futures"}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

var timeframeDigits = regexp.MustCompile(`(\d+)`)

// subMinuteFive reports whether the timeframe is a minute granularity finer
// than 5 minutes (e.g. "1 minute", "3 minute").
func subMinuteFive(timeframe string) bool {
	if !strings.Contains(timeframe, "minute") {
		return false
	}
	m := timeframeDigits.FindString(timeframe)
	if m == "" {
		return false
	}
	n, err := strconv.Atoi(m)
	return err == nil && n < 5
}

// Sub-score rule tables. Baselines are 5 except data requirements, which
// starts at 7 because most strategies run on standard OHLCV data.

var complexityRules = []rule{
	{func(v summaryView) bool { return len(v.indicators) <= 2 }, +2},
	{func(v summaryView) bool { return len(v.indicators) >= 3 && len(v.indicators) <= 4 }, +1},
	{func(v summaryView) bool { return len(v.indicators) > 6 }, -2},
	{func(v summaryView) bool { return v.category == types.CategoryML }, -3},
	{func(v summaryView) bool {
		switch v.category {
		case types.CategoryMomentum, types.CategoryMeanReversion, types.CategoryBreakout:
			return true
		}
		return false
	}, +1},
	{func(v summaryView) bool { return !strings.Contains(v.entry, "no explicit") }, +1},
	{func(v summaryView) bool { return !strings.Contains(v.exit, "no explicit") }, +1},
}

var capitalRules = []rule{
	{func(v summaryView) bool { return v.asset == "crypto" }, +3},
	{func(v summaryView) bool { return v.asset == "forex" }, +1},
	{func(v summaryView) bool { return v.asset == "futures" || v.asset == "options" }, -1},
	{func(v summaryView) bool { return v.asset == "equities" }, -1},
	{func(v summaryView) bool { return v.category == types.CategoryArbitrage }, -2},
	{func(v summaryView) bool { return strings.Contains(v.concept, "market making") }, -2},
	{func(v summaryView) bool {
		return strings.Contains(v.timeframe, "minute") || strings.Contains(v.timeframe, "tick")
	}, -1},
}

var durabilityRules = []rule{
	{func(v summaryView) bool { return crowdedCount(v.indicators) >= 3 }, -2},
	{func(v summaryView) bool { return crowdedCount(v.indicators) == 2 }, -1},
	{func(v summaryView) bool { return v.category == types.CategoryML }, +1},
	{func(v summaryView) bool { return v.category == types.CategoryStatistical }, +1},
	// Published on a public repo: whatever edge exists is already shared.
	{func(v summaryView) bool { return true }, -1},
	{func(v summaryView) bool { return containsAny(v.concept, novelKeywords) }, +2},
}

var platformRules = []rule{
	{func(v summaryView) bool { return v.asset == "crypto" }, +3},
	{func(v summaryView) bool { return v.asset == "equities" || v.asset == "forex" }, -1},
	{func(v summaryView) bool { return v.asset == "not specified" }, +1},
	{func(v summaryView) bool { return containsAny(v.concept, leverageKeywords) }, +1},
	{func(v summaryView) bool { return strings.Contains(v.timeframe, "tick") }, -2},
	{func(v summaryView) bool {
		return !strings.Contains(v.timeframe, "tick") && subMinuteFive(v.timeframe)
	}, -1},
}

func dataRules() []rule {
	rules := make([]rule, 0, len(expensiveDataKeywords)+2)
	for _, kw := range expensiveDataKeywords {
		kw := kw
		rules = append(rules, rule{func(v summaryView) bool { return strings.Contains(v.concept, kw) }, -2})
	}
	rules = append(rules,
		rule{func(v summaryView) bool {
			for _, ind := range v.indicators {
				if ind == "Volume Profile" {
					return true
				}
			}
			return false
		}, -1},
		rule{func(v summaryView) bool { return strings.Contains(v.concept, "on-chain") }, +1},
	)
	return rules
}
