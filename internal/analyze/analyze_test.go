// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

func fastAnalyzeConfig() types.AnalyzeConfig {
	return types.AnalyzeConfig{
		MaxCoreFiles: 3,
		RequestDelay: time.Millisecond,
	}
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

// newContentServer serves READMEs, trees, and file contents keyed by repo.
func newContentServer(readmes map[string]string, trees map[string][]treeEntry, files map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/readme"):
			repo := strings.TrimSuffix(strings.TrimPrefix(path, "/repos/"), "/readme")
			readme, ok := readmes[repo]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, `{"content": %q, "encoding": "base64"}`, b64(readme))
		case strings.Contains(path, "/git/trees/"):
			repo := strings.TrimSuffix(strings.TrimPrefix(path, "/repos/"), "/git/trees/HEAD")
			payload := struct {
				Tree []treeEntry `json:"tree"`
			}{Tree: trees[repo]}
			json.NewEncoder(w).Encode(payload)
		case strings.Contains(path, "/contents/"):
			parts := strings.SplitN(strings.TrimPrefix(path, "/repos/"), "/contents/", 2)
			content, ok := files[parts[0]+"|"+parts[1]]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, `{"content": %q, "encoding": "base64"}`, b64(content))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestEnrichBatchAttachesSummaries(t *testing.T) {
	readme := "# Momo\n\nA momentum strategy for bitcoin that follows strong daily trends.\n" +
		"It enters a long position when RSI crosses above 30.\n" +
		"Positions are closed at the stop-loss.\n"
	ts := newContentServer(
		map[string]string{"alice/momo": readme},
		map[string][]treeEntry{"alice/momo": {{Path: "strategy.py", Type: "blob", Size: 100}}},
		map[string]string{"alice/momo|strategy.py": "# uses MACD confirmation\ndef run():\n    pass\n"},
	)
	defer ts.Close()

	old := githubAPIBase
	githubAPIBase = ts.URL
	defer func() { githubAPIBase = old }()

	a := NewAnalyzer(ts.Client(), fastAnalyzeConfig())
	got, err := a.EnrichBatch(context.Background(), []types.Candidate{
		{RepoName: "alice/momo", RepoURL: "https://github.com/alice/momo"},
	}, io.Discard)
	require.NoError(t, err)
	require.Len(t, got, 1)

	s := got[0].Summary
	require.NotNil(t, s)
	assert.Equal(t, types.CategoryMomentum, s.Category)
	assert.Equal(t, "crypto", s.AssetClass)
	assert.Equal(t, "daily", s.Timeframe)
	assert.Contains(t, s.Indicators, "RSI")
	assert.Contains(t, s.Indicators, "MACD") // picked up from the core file comment
	assert.Equal(t, types.Tier1, s.Tier)
}

func TestEnrichBatchDropsUnfetchable(t *testing.T) {
	ts := newContentServer(
		map[string]string{"alice/momo": "A momentum strategy that follows market trends."},
		nil, nil,
	)
	defer ts.Close()

	old := githubAPIBase
	githubAPIBase = ts.URL
	defer func() { githubAPIBase = old }()

	var log strings.Builder
	a := NewAnalyzer(ts.Client(), fastAnalyzeConfig())
	got, err := a.EnrichBatch(context.Background(), []types.Candidate{
		{RepoName: "bob/gone"},
		{RepoName: "alice/momo"},
	}, &log)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "alice/momo", got[0].RepoName)
	assert.Contains(t, log.String(), "warning: dropping bob/gone")
}

func TestEnrichBatchCoreFileFailureDegrades(t *testing.T) {
	// Tree lists a file that 404s on fetch; analysis proceeds README-only.
	ts := newContentServer(
		map[string]string{"alice/momo": "A momentum strategy that follows market trends."},
		map[string][]treeEntry{"alice/momo": {{Path: "strategy.py", Type: "blob", Size: 100}}},
		nil,
	)
	defer ts.Close()

	old := githubAPIBase
	githubAPIBase = ts.URL
	defer func() { githubAPIBase = old }()

	a := NewAnalyzer(ts.Client(), fastAnalyzeConfig())
	got, err := a.EnrichBatch(context.Background(), []types.Candidate{{RepoName: "alice/momo"}}, io.Discard)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Summary)
	assert.Equal(t, types.CategoryMomentum, got[0].Summary.Category)
}

func TestListCoreFilesPrefersStrategyNames(t *testing.T) {
	ts := newContentServer(nil, map[string][]treeEntry{
		"alice/momo": {
			{Path: "utils.py", Type: "blob", Size: 9000},
			{Path: "strategy.py", Type: "blob", Size: 100},
			{Path: "README.md", Type: "blob", Size: 500},
			{Path: "signals/core.py", Type: "blob", Size: 200},
			{Path: "docs", Type: "tree", Size: 0},
		},
	}, nil)
	defer ts.Close()

	old := githubAPIBase
	githubAPIBase = ts.URL
	defer func() { githubAPIBase = old }()

	f := &Fetcher{Client: ts.Client()}
	got, err := f.ListCoreFiles(context.Background(), "alice/momo", 2)
	require.NoError(t, err)

	// Pattern-matching files first (by size), non-matching sources after.
	require.Len(t, got, 2)
	assert.Equal(t, "signals/core.py", got[0])
	assert.Equal(t, "strategy.py", got[1])
}

func TestFetchReadmeDecodesBase64(t *testing.T) {
	ts := newContentServer(map[string]string{"alice/momo": "hello readme"}, nil, nil)
	defer ts.Close()

	old := githubAPIBase
	githubAPIBase = ts.URL
	defer func() { githubAPIBase = old }()

	f := &Fetcher{Client: ts.Client()}
	got, err := f.FetchReadme(context.Background(), "alice/momo")
	require.NoError(t, err)
	assert.Equal(t, "hello readme", got)
}
