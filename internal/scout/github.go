// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scout discovers candidate strategy repositories on GitHub.
package scout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/strategy-scout/internal/httputil"
	"github.com/pdiddy/strategy-scout/pkg/types"
)

// githubAPIBase is the GitHub REST API root. Declared as a var so tests can
// substitute an httptest server.
var githubAPIBase = "https://api.github.com"

// DefaultKeywords are the search phrases scanned when none are configured.
var DefaultKeywords = []string{
	"trading strategy",
	"algorithmic trading",
	"quant strategy",
	"trading bot",
	"backtest",
	"mean reversion",
	"momentum strategy",
	"crypto trading",
	"market making",
	"statistical arbitrage",
}

// Backend discovers candidates from a single source.
type Backend interface {
	Name() string
	Discover(ctx context.Context, cfg types.ScoutConfig, w io.Writer) ([]types.Candidate, error)
}

// GitHubBackend queries the GitHub search API.
type GitHubBackend struct {
	Client  *http.Client
	limiter *rate.Limiter
}

// NewGitHubBackend returns a backend whose API calls are spaced at least
// cfg.RequestDelay apart. The delay is a politeness policy toward the API,
// not a concurrency primitive; waits block the calling goroutine.
func NewGitHubBackend(client *http.Client, cfg types.ScoutConfig) *GitHubBackend {
	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &GitHubBackend{
		Client:  client,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Name returns the backend identifier.
func (b *GitHubBackend) Name() string { return "github" }

// Discover searches each configured keyword for recently pushed repositories,
// filters by star count, language, and README presence, and returns
// candidates deduplicated by URL in discovery order. Individual keyword
// failures are warnings; the scan continues with the remaining keywords.
func (b *GitHubBackend) Discover(ctx context.Context, cfg types.ScoutConfig, w io.Writer) ([]types.Candidate, error) {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lookback := cfg.LookbackWindow
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	since := time.Now().UTC().Add(-lookback).Format("2006-01-02")

	seen := make(map[string]struct{})
	var results []types.Candidate

	for _, keyword := range keywords {
		if err := b.limiter.Wait(ctx); err != nil {
			return results, err
		}
		fmt.Fprintf(w, "searching keyword: %s\n", keyword)

		repos, err := b.searchRepos(ctx, keyword, since, cfg)
		if err != nil {
			fmt.Fprintf(w, "warning: search failed for %q: %v\n", keyword, err)
			continue
		}

		for _, repo := range repos {
			if _, ok := seen[repo.HTMLURL]; ok {
				continue
			}
			seen[repo.HTMLURL] = struct{}{}

			if cfg.PreferredLanguage != "" && repo.Language != "" && repo.Language != cfg.PreferredLanguage {
				continue
			}

			if err := b.limiter.Wait(ctx); err != nil {
				return results, err
			}
			if !b.hasReadme(ctx, repo.FullName, cfg) {
				continue
			}

			c := types.Candidate{
				RepoURL:     repo.HTMLURL,
				RepoName:    repo.FullName,
				Description: repo.Description,
				Stars:       repo.Stars,
				Language:    repo.Language,
				Topics:      repo.Topics,
			}
			if t, parseErr := time.Parse(time.RFC3339, repo.CreatedAt); parseErr == nil {
				c.CreatedAt = t
			}
			results = append(results, c)
			fmt.Fprintf(w, "found: %s (%d stars)\n", c.RepoName, c.Stars)
		}
	}

	fmt.Fprintf(w, "scout complete: %d repositories\n", len(results))
	return results, nil
}

// GitHub search API JSON structures.
type searchResponse struct {
	Items []repoItem `json:"items"`
}

type repoItem struct {
	HTMLURL     string   `json:"html_url"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Stars       int      `json:"stargazers_count"`
	Language    string   `json:"language"`
	CreatedAt   string   `json:"created_at"`
	Topics      []string `json:"topics"`
}

func (b *GitHubBackend) searchRepos(ctx context.Context, keyword, since string, cfg types.ScoutConfig) ([]repoItem, error) {
	query := fmt.Sprintf("%q pushed:>%s stars:>=%d", keyword, since, cfg.MinStars)
	params := url.Values{
		"q":        {query},
		"sort":     {"updated"},
		"order":    {"desc"},
		"per_page": {"30"},
	}
	reqURL := githubAPIBase + "/search/repositories?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	setGitHubHeaders(req, cfg.UserAgent, cfg.Token)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("GitHub search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub search returned HTTP %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	return sr.Items, nil
}

// hasReadme reports whether the repository serves a README. Any error
// counts as absent.
func (b *GitHubBackend) hasReadme(ctx context.Context, fullName string, cfg types.ScoutConfig) bool {
	reqURL := fmt.Sprintf("%s/repos/%s/readme", githubAPIBase, fullName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false
	}
	setGitHubHeaders(req, cfg.UserAgent, cfg.Token)

	resp, err := b.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func setGitHubHeaders(req *http.Request, userAgent, token string) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
