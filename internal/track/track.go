// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package track maintains the slug-keyed list of strategies promoted to
// active monitoring.
package track

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

// List is the persistent active-strategies file.
type List struct {
	path string
}

// NewList returns a list backed by the configured path.
func NewList(cfg types.TrackConfig) *List {
	path := cfg.Path
	if path == "" {
		path = filepath.Join("data", "active_strategies.yaml")
	}
	return &List{path: path}
}

// Slug derives the stable registration key from a repository name: lowercase,
// non-alphanumeric runs collapsed to single dashes, leading and trailing
// dashes trimmed.
func Slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Load reads the list. A missing file yields an empty list; a corrupt file is
// an error because silently resetting it would orphan tracked strategies.
func (l *List) Load() ([]types.ActiveStrategy, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading tracking list: %w", err)
	}

	var entries []types.ActiveStrategy
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing tracking list %s: %w", l.path, err)
	}
	return entries, nil
}

// Save atomically rewrites the list.
func (l *List) Save(entries []types.ActiveStrategy) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding tracking list: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating tracking directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tracking-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp tracking file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing tracking list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing tracking list: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming tracking list: %w", err)
	}
	return nil
}

// Register appends pursue-recommended, non-duplicate candidates that are not
// already tracked. Registration is idempotent: an existing slug is never
// overwritten. It returns the number of newly added strategies.
func (l *List) Register(candidates []types.Candidate, now time.Time) (int, error) {
	entries, err := l.Load()
	if err != nil {
		return 0, err
	}

	known := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		known[e.ID] = struct{}{}
	}

	added := 0
	for _, c := range candidates {
		if c.DedupStatus == types.StatusDuplicate {
			continue
		}
		if c.Feasibility == nil || c.Feasibility.Recommendation != types.RecommendPursue {
			continue
		}

		slug := Slug(c.RepoName)
		if slug == "" {
			continue
		}
		if _, ok := known[slug]; ok {
			continue
		}
		known[slug] = struct{}{}

		entry := types.ActiveStrategy{
			ID:        slug,
			Name:      c.RepoName,
			Status:    types.StrategyStatusForwardTest,
			CreatedAt: now.UTC(),
		}
		if c.Summary != nil {
			entry.StrategyTag = string(c.Summary.Category)
			entry.Summary = c.Summary.CoreConcept
		}
		entries = append(entries, entry)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	if err := l.Save(entries); err != nil {
		return 0, err
	}
	return added, nil
}
