// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze enriches discovered repositories with a structured
// strategy summary extracted from their README and core source files.
package analyze

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/strategy-scout/internal/httputil"
)

// githubAPIBase is the GitHub REST API root, overridable in tests.
var githubAPIBase = "https://api.github.com"

// maxFileBytes caps how much of a source file is fetched for analysis.
const maxFileBytes = 30_000

// coreFilePattern matches filenames that likely hold the strategy logic.
var coreFilePattern = regexp.MustCompile(`(?i)(strategy|signal|trade|backtest|engine|core)`)

// sourceExtensions are the file suffixes considered source code.
var sourceExtensions = []string{".py", ".go", ".js", ".ts", ".rs", ".c", ".cpp", ".java", ".jl", ".r"}

// Fetcher retrieves repository content from the GitHub API.
type Fetcher struct {
	Client    *http.Client
	Token     string
	UserAgent string
}

// FetchReadme returns the decoded README contents, or an error when the
// repository has none or the request fails.
func (f *Fetcher) FetchReadme(ctx context.Context, fullName string) (string, error) {
	var payload struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := f.getJSON(ctx, fmt.Sprintf("/repos/%s/readme", fullName), &payload); err != nil {
		return "", err
	}
	if payload.Encoding != "base64" {
		return payload.Content, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decoding README for %s: %w", fullName, err)
	}
	return string(decoded), nil
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

// ListCoreFiles returns up to limit source file paths from the repository
// tree, preferring names that look like strategy logic and breaking ties by
// size descending.
func (f *Fetcher) ListCoreFiles(ctx context.Context, fullName string, limit int) ([]string, error) {
	var payload struct {
		Tree []treeEntry `json:"tree"`
	}
	if err := f.getJSON(ctx, fmt.Sprintf("/repos/%s/git/trees/HEAD?recursive=1", fullName), &payload); err != nil {
		return nil, err
	}

	var files []treeEntry
	for _, entry := range payload.Tree {
		if entry.Type != "blob" || !isSourceFile(entry.Path) {
			continue
		}
		files = append(files, entry)
	}

	sort.SliceStable(files, func(i, j int) bool {
		pi := coreFilePattern.MatchString(files[i].Path)
		pj := coreFilePattern.MatchString(files[j].Path)
		if pi != pj {
			return pi
		}
		return files[i].Size > files[j].Size
	})

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	paths := make([]string, len(files))
	for i, entry := range files {
		paths[i] = entry.Path
	}
	return paths, nil
}

// FetchFile returns the decoded file contents, truncated to maxFileBytes.
func (f *Fetcher) FetchFile(ctx context.Context, fullName, path string) (string, error) {
	var payload struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := f.getJSON(ctx, fmt.Sprintf("/repos/%s/contents/%s", fullName, path), &payload); err != nil {
		return "", err
	}
	content := payload.Content
	if payload.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content, "\n", ""))
		if err != nil {
			return "", fmt.Errorf("decoding %s in %s: %w", path, fullName, err)
		}
		content = string(decoded)
	}
	if len(content) > maxFileBytes {
		content = content[:maxFileBytes]
	}
	return content, nil
}

func (f *Fetcher) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubAPIBase+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, 0)
	if err != nil {
		return fmt.Errorf("GitHub request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub %s returned HTTP %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response for %s: %w", path, err)
	}
	return nil
}

func isSourceFile(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
