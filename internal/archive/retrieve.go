// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

// QueryOptions narrow a Retrieve call. Zero values mean "no filter".
type QueryOptions struct {
	// Text runs a full-text match over description and core concept.
	Text string

	// Category, Status, and Recommendation filter on exact values.
	Category       string
	Status         string
	Recommendation string

	// MinScore keeps candidates at or above this overall score.
	MinScore float64

	// Since and Until bound the run date (inclusive, YYYY-MM-DD).
	Since string
	Until string

	// Limit caps the result count; zero uses the store default.
	Limit int
}

// Retrieve returns archived candidates matching the options, newest runs
// first. Candidates are decoded from the stored JSON payload so all stage
// fields survive the round trip.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.Candidate, error) {
	var (
		conditions []string
		args       []any
	)

	query := `SELECT c.payload FROM candidates c JOIN runs r ON r.id = c.run_id`
	if opts.Text != "" {
		if s.ftsEnabled {
			query += ` JOIN candidates_fts ON candidates_fts.rowid = c.rowid`
			conditions = append(conditions, `candidates_fts MATCH ?`)
			args = append(args, opts.Text)
		} else {
			pattern := "%" + opts.Text + "%"
			conditions = append(conditions, `(c.description LIKE ? OR c.core_concept LIKE ?)`)
			args = append(args, pattern, pattern)
		}
	}
	if opts.Category != "" {
		conditions = append(conditions, `c.category = ?`)
		args = append(args, opts.Category)
	}
	if opts.Status != "" {
		conditions = append(conditions, `c.dedup_status = ?`)
		args = append(args, opts.Status)
	}
	if opts.Recommendation != "" {
		conditions = append(conditions, `c.recommendation = ?`)
		args = append(args, opts.Recommendation)
	}
	if opts.MinScore > 0 {
		conditions = append(conditions, `c.overall_score >= ?`)
		args = append(args, opts.MinScore)
	}
	if opts.Since != "" {
		conditions = append(conditions, `r.date >= ?`)
		args = append(args, opts.Since)
	}
	if opts.Until != "" {
		conditions = append(conditions, `r.date <= ?`)
		args = append(args, opts.Until)
	}

	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}
	query += ` ORDER BY r.date DESC, c.rowid ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var results []types.Candidate
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning candidate row: %w", err)
		}
		var c types.Candidate
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			return nil, fmt.Errorf("decoding candidate payload: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// RunsBetween returns run records with dates in [since, until], oldest first.
func (s *Store) RunsBetween(ctx context.Context, since, until string) ([]types.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, discovered, novel, pursue FROM runs
		 WHERE date >= ? AND date <= ? ORDER BY date ASC`, since, until)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		var r types.RunRecord
		if err := rows.Scan(&r.ID, &r.Date, &r.Discovered, &r.Novel, &r.Pursue); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CategoryBreakdown counts archived candidates per category within the date
// range, excluding duplicates.
func (s *Store) CategoryBreakdown(ctx context.Context, since, until string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.category, count(*) FROM candidates c JOIN runs r ON r.id = c.run_id
		 WHERE r.date >= ? AND r.date <= ? AND c.dedup_status != ?
		 GROUP BY c.category`, since, until, string(types.StatusDuplicate))
	if err != nil {
		return nil, fmt.Errorf("querying category breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scanning breakdown row: %w", err)
		}
		breakdown[category] = count
	}
	return breakdown, rows.Err()
}

// Export writes matching candidates to path as YAML or JSON depending on the
// file extension.
func (s *Store) Export(ctx context.Context, path string, opts QueryOptions) error {
	candidates, err := s.Retrieve(ctx, opts)
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(candidates, "", "  ")
	default:
		data, err = yaml.Marshal(candidates)
	}
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
