// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup classifies candidates as duplicate, similar, or novel
// against a persistent strategy corpus and manages corpus growth.
package dedup

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pdiddy/strategy-scout/internal/similarity"
	"github.com/pdiddy/strategy-scout/pkg/types"
)

const (
	// DefaultDuplicateThreshold flags similarity strictly above it as duplicate.
	DefaultDuplicateThreshold = 0.8

	// DefaultNovelThreshold flags similarity strictly below it as novel.
	// Similarity equal to either threshold classifies as similar.
	DefaultNovelThreshold = 0.5
)

// Classifier applies the three-way novelty policy to candidate batches.
type Classifier struct {
	store Store

	// maxSimilarity is the similarity function; tests substitute a stub.
	maxSimilarity func(doc string, corpus []string) float64

	duplicateThreshold float64
	novelThreshold     float64
}

// NewClassifier returns a classifier over store using the TF-IDF similarity
// engine. Threshold values of zero in cfg fall back to the defaults.
func NewClassifier(store Store, cfg types.DedupConfig) *Classifier {
	dup := cfg.DuplicateThreshold
	if dup == 0 {
		dup = DefaultDuplicateThreshold
	}
	novel := cfg.NovelThreshold
	if novel == 0 {
		novel = DefaultNovelThreshold
	}
	return &Classifier{
		store:              store,
		maxSimilarity:      similarity.MaxSimilarity,
		duplicateThreshold: dup,
		novelThreshold:     novel,
	}
}

// ClassifyBatch annotates each candidate with DedupStatus and MaxSimilarity,
// processing in input order. Candidates classified similar or novel are
// appended to the corpus immediately, so later candidates in the same batch
// are compared against them: two near-identical items in one batch classify
// the second as duplicate even against a previously empty corpus.
//
// The corpus is written back once, after the whole batch. A save failure is
// returned alongside the annotated batch; corpus additions from this batch
// are lost as a unit in that case.
func (c *Classifier) ClassifyBatch(candidates []types.Candidate, w io.Writer) ([]types.Candidate, error) {
	entries, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	docs := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = BuildDocument(e)
	}

	results := make([]types.Candidate, 0, len(candidates))
	added := 0

	for _, cand := range candidates {
		doc := BuildDocument(cand)

		// Nothing to compare now or later: classify novel without touching
		// the similarity engine and keep it out of the corpus.
		if strings.TrimSpace(doc) == "" {
			cand.DedupStatus = types.StatusNovel
			cand.MaxSimilarity = 0.0
			results = append(results, cand)
			continue
		}

		sim := c.maxSimilarity(doc, docs)
		cand.MaxSimilarity = round4(sim)

		switch {
		case sim > c.duplicateThreshold:
			cand.DedupStatus = types.StatusDuplicate
			fmt.Fprintf(w, "  DUPLICATE (%.2f): %s\n", sim, cand.RepoName)
		case sim < c.novelThreshold:
			cand.DedupStatus = types.StatusNovel
			fmt.Fprintf(w, "  NOVEL (%.2f): %s\n", sim, cand.RepoName)
			entries = append(entries, cand)
			docs = append(docs, doc)
			added++
		default:
			// Not a clear duplicate; keep it for future comparison.
			cand.DedupStatus = types.StatusSimilar
			fmt.Fprintf(w, "  SIMILAR (%.2f): %s\n", sim, cand.RepoName)
			entries = append(entries, cand)
			docs = append(docs, doc)
			added++
		}

		results = append(results, cand)
	}

	if err := c.store.Save(entries); err != nil {
		return results, fmt.Errorf("saving corpus: %w", err)
	}

	fmt.Fprintf(w, "Dedup complete: %d duplicate, %d similar, %d novel, %d added to corpus\n",
		countStatus(results, types.StatusDuplicate),
		countStatus(results, types.StatusSimilar),
		countStatus(results, types.StatusNovel),
		added)

	return results, nil
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

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
