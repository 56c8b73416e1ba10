// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists scan history: a SQLite index of every run and
// candidate, plus dated JSON audit files of each day's raw batch.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/strategy-scout/pkg/types"
)

const (
	dbFile       = "scans.db"
	dailyScanDir = "daily_scans"
)

// Store manages the scan-history SQLite database under the data directory.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int

	// ftsEnabled records whether the FTS5 index exists. The sqlite3 driver
	// only compiles FTS5 under the sqlite_fts5 build tag; without it the
	// store falls back to LIKE matching so runs never abort on startup.
	ftsEnabled bool
}

// NewStore opens or creates the database at dataDir/scans.db, creating the
// schema when missing.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dataDir: dataDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			discovered INTEGER,
			novel INTEGER,
			pursue INTEGER,
			started_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			repo_url TEXT NOT NULL,
			repo_name TEXT,
			description TEXT,
			core_concept TEXT,
			stars INTEGER,
			category TEXT,
			tier TEXT,
			dedup_status TEXT,
			max_similarity REAL,
			overall_score REAL,
			recommendation TEXT,
			payload TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_run_id ON candidates(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_category ON candidates(category)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='candidates_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists > 0 {
		s.ftsEnabled = true
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE candidates_fts USING fts5(description, core_concept, content=candidates, content_rowid=rowid)`,
		`CREATE TRIGGER candidates_ai AFTER INSERT ON candidates BEGIN
			INSERT INTO candidates_fts(rowid, description, core_concept) VALUES (new.rowid, new.description, new.core_concept);
		END`,
		`CREATE TRIGGER candidates_ad AFTER DELETE ON candidates BEGIN
			INSERT INTO candidates_fts(candidates_fts, rowid, description, core_concept) VALUES('delete', old.rowid, old.description, old.core_concept);
		END`,
		`CREATE TRIGGER candidates_au AFTER UPDATE ON candidates BEGIN
			INSERT INTO candidates_fts(candidates_fts, rowid, description, core_concept) VALUES('delete', old.rowid, old.description, old.core_concept);
			INSERT INTO candidates_fts(rowid, description, core_concept) VALUES (new.rowid, new.description, new.core_concept);
		END`,
	}
	for i, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			if i == 0 && strings.Contains(err.Error(), "fts5") {
				// Driver built without the sqlite_fts5 tag. Full-text queries
				// degrade to LIKE matching; everything else works unchanged.
				return nil
			}
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.ftsEnabled = true

	return nil
}

// Ingest records one run and its candidates in a single transaction, and
// writes the dated JSON audit file alongside the database.
func (s *Store) Ingest(ctx context.Context, run types.RunRecord, candidates []types.Candidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, date, discovered, novel, pursue, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Date, run.Discovered, run.Novel, run.Pursue, run.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO candidates (run_id, repo_url, repo_name, description, core_concept, stars,
			category, tier, dedup_status, max_similarity, overall_score, recommendation, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing candidate insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candidates {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encoding candidate %s: %w", c.RepoURL, err)
		}

		var concept, category, tier string
		if c.Summary != nil {
			concept = c.Summary.CoreConcept
			category = string(c.Summary.Category)
			tier = string(c.Summary.Tier)
		}
		var overall float64
		var recommendation string
		if c.Feasibility != nil {
			overall = c.Feasibility.Overall
			recommendation = string(c.Feasibility.Recommendation)
		}

		if _, err := stmt.ExecContext(ctx,
			run.ID, c.RepoURL, c.RepoName, c.Description, concept, c.Stars,
			category, tier, string(c.DedupStatus), c.MaxSimilarity, overall, recommendation,
			string(payload),
		); err != nil {
			return fmt.Errorf("inserting candidate %s: %w", c.RepoURL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}

	return s.writeDailyScan(run, candidates)
}

// writeDailyScan dumps the raw batch to dataDir/daily_scans/scan_<date>.json
// so a run stays auditable even if the database is rebuilt.
func (s *Store) writeDailyScan(run types.RunRecord, candidates []types.Candidate) error {
	dir := filepath.Join(s.dataDir, dailyScanDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating daily scan directory: %w", err)
	}

	doc := struct {
		Run        types.RunRecord   `json:"run"`
		Candidates []types.Candidate `json:"candidates"`
	}{Run: run, Candidates: candidates}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding daily scan: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("scan_%s.json", run.Date))
	tmp, err := os.CreateTemp(dir, ".scan-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp scan file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing daily scan: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing daily scan: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming daily scan: %w", err)
	}
	return nil
}
