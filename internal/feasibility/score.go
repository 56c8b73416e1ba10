// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feasibility scores strategy summaries on five practical criteria
// and maps the weighted overall score to a recommendation.
package feasibility

import (
	"fmt"
	"io"
	"math"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

// Sub-score names, also the keys of FeasibilityResult.Scores.
const (
	ScoreComplexity = "implementation_complexity"
	ScoreCapital    = "capital_efficiency"
	ScoreDurability = "edge_durability"
	ScorePlatform   = "platform_compatibility"
	ScoreData       = "data_requirements"
)

// weights for the overall score; they sum to 1.0.
var weights = map[string]float64{
	ScoreComplexity: 0.20,
	ScoreCapital:    0.25,
	ScoreDurability: 0.25,
	ScorePlatform:   0.15,
	ScoreData:       0.15,
}

// Recommendation thresholds on the overall score.
const (
	PursueThreshold  = 7.0
	MonitorThreshold = 4.5
)

// Score computes the five sub-scores and the weighted overall score for a
// summary. A nil summary scores as all-empty fields. The result is pure:
// identical input always yields an identical result.
func Score(summary *types.StrategySummary) types.FeasibilityResult {
	v := newSummaryView(summary)

	scores := map[string]int{
		ScoreComplexity: applyRules(5, complexityRules, v),
		ScoreCapital:    applyRules(5, capitalRules, v),
		ScoreDurability: applyRules(5, durabilityRules, v),
		ScorePlatform:   applyRules(5, platformRules, v),
		ScoreData:       applyRules(7, dataRules(), v),
	}

	var overall float64
	for name, w := range weights {
		overall += float64(scores[name]) * w
	}
	overall = round2(overall)

	return types.FeasibilityResult{
		Scores:         scores,
		Overall:        overall,
		Recommendation: recommend(overall),
	}
}

// DuplicateSentinel is the result assigned to candidates already classified
// duplicate: no sub-scores, overall zero, and the duplicate skip verdict.
func DuplicateSentinel() types.FeasibilityResult {
	return types.FeasibilityResult{
		Scores:         map[string]int{},
		Overall:        0,
		Recommendation: types.RecommendSkipDuplicate,
	}
}

// ScoreBatch annotates every candidate with a FeasibilityResult. Duplicates
// bypass scoring and receive the sentinel.
func ScoreBatch(candidates []types.Candidate, w io.Writer) []types.Candidate {
	results := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.DedupStatus == types.StatusDuplicate {
			fmt.Fprintf(w, "  skipping duplicate: %s\n", c.RepoName)
			sentinel := DuplicateSentinel()
			c.Feasibility = &sentinel
			results = append(results, c)
			continue
		}

		result := Score(c.Summary)
		c.Feasibility = &result
		fmt.Fprintf(w, "  %s: score %.2f, %s\n", c.RepoName, result.Overall, result.Recommendation)
		results = append(results, c)
	}
	return results
}

// recommend maps an overall score to a verdict. Boundaries are inclusive at
// the lower edge: 7.00 is pursue, 4.50 is monitor.
func recommend(overall float64) types.Recommendation {
	switch {
	case overall >= PursueThreshold:
		return types.RecommendPursue
	case overall >= MonitorThreshold:
		return types.RecommendMonitor
	default:
		return types.RecommendSkip
	}
}

// round2 rounds to two decimals, half away from zero. Go's math.Round gives
// half-up for the positive scores produced here, which keeps the 7.00 and
// 4.50 recommendation boundaries reproducible.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
