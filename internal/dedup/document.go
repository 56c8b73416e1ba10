// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"strings"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

// BuildDocument flattens a candidate's textual fields into the single corpus
// document string used for similarity comparison. Field order is fixed:
// description, core concept, entry logic, exit logic, category, asset class,
// timeframe, indicators, topics. Missing fields contribute an empty string,
// never a placeholder, so absent data cannot bias similarity.
func BuildDocument(c types.Candidate) string {
	summary := c.Summary
	if summary == nil {
		summary = &types.StrategySummary{}
	}

	parts := []string{
		c.Description,
		summary.CoreConcept,
		summary.EntryLogic,
		summary.ExitLogic,
		string(summary.Category),
		summary.AssetClass,
		summary.Timeframe,
		strings.Join(summary.Indicators, " "),
		strings.Join(c.Topics, " "),
	}
	return strings.Join(parts, " ")
}
