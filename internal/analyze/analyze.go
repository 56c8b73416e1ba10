// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

// Analyzer enriches candidates with strategy summaries.
type Analyzer struct {
	fetcher *Fetcher
	limiter *rate.Limiter
	cfg     types.AnalyzeConfig
}

// NewAnalyzer returns an analyzer whose API calls are spaced at least
// cfg.RequestDelay apart.
func NewAnalyzer(client *http.Client, cfg types.AnalyzeConfig) *Analyzer {
	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	if cfg.MaxCoreFiles <= 0 {
		cfg.MaxCoreFiles = 3
	}
	if len(cfg.ExcludeKeywords) == 0 {
		cfg.ExcludeKeywords = []string{"arbitrage"}
	}
	return &Analyzer{
		fetcher: &Fetcher{Client: client, Token: cfg.Token, UserAgent: cfg.UserAgent},
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		cfg:     cfg,
	}
}

// EnrichBatch attaches a summary to each candidate. Candidates whose README
// cannot be fetched are dropped with a warning; core-file failures degrade to
// README-only analysis. The returned slice preserves input order.
func (a *Analyzer) EnrichBatch(ctx context.Context, candidates []types.Candidate, w io.Writer) ([]types.Candidate, error) {
	out := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if err := a.limiter.Wait(ctx); err != nil {
			return out, err
		}

		summary, err := a.enrichOne(ctx, c)
		if err != nil {
			fmt.Fprintf(w, "warning: dropping %s: %v\n", c.RepoName, err)
			continue
		}
		c.Summary = summary
		out = append(out, c)
		fmt.Fprintf(w, "  analyzed %s: %s / %s\n", c.RepoName, summary.Category, summary.Tier)
	}
	fmt.Fprintf(w, "analysis complete: %d of %d candidates enriched\n", len(out), len(candidates))
	return out, nil
}

func (a *Analyzer) enrichOne(ctx context.Context, c types.Candidate) (*types.StrategySummary, error) {
	readme, err := a.fetcher.FetchReadme(ctx, c.RepoName)
	if err != nil {
		return nil, fmt.Errorf("fetching README: %w", err)
	}
	cleaned := CleanMarkdown(readme)

	// Core files are best-effort: a failed tree listing or file fetch falls
	// back to README-only extraction.
	var comments []string
	if paths, listErr := a.fetcher.ListCoreFiles(ctx, c.RepoName, a.cfg.MaxCoreFiles); listErr == nil {
		for _, path := range paths {
			if err := a.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			source, fetchErr := a.fetcher.FetchFile(ctx, c.RepoName, path)
			if fetchErr != nil {
				continue
			}
			if text := commentText(source); text != "" {
				comments = append(comments, text)
			}
		}
	}

	summary := ExtractSummary(cleaned, strings.Join(comments, "\n"), a.cfg.ExcludeKeywords)
	if summary.CoreConcept == "" {
		summary.CoreConcept = strings.TrimSpace(c.Description)
	}
	return summary, nil
}
