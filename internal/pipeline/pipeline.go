// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline chains the daily stages: discover, enrich, classify,
// score, report, notify, archive, and register. Each stage consumes the
// previous stage's batch; a stage failure either degrades the batch or
// aborts the run depending on the stage.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/strategy-scout/internal/analyze"
	"github.com/pdiddy/strategy-scout/internal/archive"
	"github.com/pdiddy/strategy-scout/internal/dedup"
	"github.com/pdiddy/strategy-scout/internal/feasibility"
	"github.com/pdiddy/strategy-scout/internal/notify"
	"github.com/pdiddy/strategy-scout/internal/report"
	"github.com/pdiddy/strategy-scout/internal/scout"
	"github.com/pdiddy/strategy-scout/internal/track"
	"github.com/pdiddy/strategy-scout/pkg/types"
)

// Outcome is how a stage ended.
type Outcome string

const (
	// OutcomeOK means the stage completed normally.
	OutcomeOK Outcome = "ok"

	// OutcomeDegraded means the stage failed but the run continued with a
	// reduced batch (unenriched, all-novel, or unscored candidates).
	OutcomeDegraded Outcome = "degraded"

	// OutcomeFatal means the stage failure aborted the run. Only discovery
	// is fatal: without a batch nothing downstream has input.
	OutcomeFatal Outcome = "fatal"
)

// StageResult records one stage's outcome for the run summary.
type StageResult struct {
	Name    string
	Outcome Outcome
	Err     error
}

// Result summarizes a full pipeline run.
type Result struct {
	Run        types.RunRecord
	Candidates []types.Candidate
	Stages     []StageResult
	ReportPath string
	Registered int
}

// HasDegradations reports whether any stage degraded.
func (r Result) HasDegradations() bool {
	for _, s := range r.Stages {
		if s.Outcome == OutcomeDegraded {
			return true
		}
	}
	return false
}

// Pipeline holds the stage functions. The struct fields are injectable so
// tests can substitute failing or canned stages.
type Pipeline struct {
	Discover func(ctx context.Context, w io.Writer) ([]types.Candidate, error)
	Enrich   func(ctx context.Context, batch []types.Candidate, w io.Writer) ([]types.Candidate, error)
	Classify func(batch []types.Candidate, w io.Writer) ([]types.Candidate, error)
	Score    func(batch []types.Candidate, w io.Writer) []types.Candidate
	Report   func(date string, batch []types.Candidate) (path, content string, err error)
	Notify   func(ctx context.Context, text string) error
	Archive  func(ctx context.Context, run types.RunRecord, batch []types.Candidate) error
	Register func(batch []types.Candidate, now time.Time) (int, error)
}

// New wires a pipeline from the configuration. The archive store is owned by
// the caller so it can be shared with ad-hoc queries and closed once.
func New(cfg types.PipelineConfig, store *archive.Store) *Pipeline {
	client := &http.Client{Timeout: cfg.Scout.Timeout}
	if client.Timeout <= 0 {
		client.Timeout = 30 * time.Second
	}

	backend := scout.NewGitHubBackend(client, cfg.Scout)
	analyzer := analyze.NewAnalyzer(client, cfg.Analyze)
	classifier := dedup.NewClassifier(dedup.NewFileStore(cfg.Dedup.CorpusPath), cfg.Dedup)
	notifier := notify.NewNotifier(client, cfg.Notify)
	tracking := track.NewList(cfg.Track)

	return &Pipeline{
		Discover: func(ctx context.Context, w io.Writer) ([]types.Candidate, error) {
			return backend.Discover(ctx, cfg.Scout, w)
		},
		Enrich:   analyzer.EnrichBatch,
		Classify: classifier.ClassifyBatch,
		Score:    feasibility.ScoreBatch,
		Report: func(date string, batch []types.Candidate) (string, string, error) {
			path, _, err := report.Write(cfg.Report, date, batch)
			if err != nil {
				return "", "", err
			}
			compact := report.CompactDigest(date, batch, report.SelectTop(batch, cfg.Report.TopN))
			return path, compact, nil
		},
		Notify:   notifier.Send,
		Archive:  store.Ingest,
		Register: tracking.Register,
	}
}

// Run executes the stages in order, writing progress to w.
//
// Failure policy: discovery failure aborts; enrichment failure degrades to
// the unenriched batch; classification failure degrades to an all-novel
// batch; report and notify failures are logged; archive and register
// failures are logged. The run record and batch are returned even on a
// degraded run.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) (Result, error) {
	started := time.Now().UTC()
	date := started.Format("2006-01-02")
	result := Result{
		Run: types.RunRecord{
			ID:        uuid.NewString(),
			Date:      date,
			StartedAt: started,
		},
	}

	record := func(name string, outcome Outcome, err error) {
		result.Stages = append(result.Stages, StageResult{Name: name, Outcome: outcome, Err: err})
	}

	// Discovery.
	fmt.Fprintf(w, "== discover ==\n")
	batch, err := p.Discover(ctx, w)
	if err != nil {
		record("discover", OutcomeFatal, err)
		return result, fmt.Errorf("discovery failed: %w", err)
	}
	record("discover", OutcomeOK, nil)
	result.Run.Discovered = len(batch)

	// Enrichment.
	fmt.Fprintf(w, "== analyze ==\n")
	if enriched, err := p.Enrich(ctx, batch, w); err != nil {
		fmt.Fprintf(w, "warning: analysis failed, continuing unenriched: %v\n", err)
		record("analyze", OutcomeDegraded, err)
	} else {
		batch = enriched
		record("analyze", OutcomeOK, nil)
	}

	// Novelty classification.
	fmt.Fprintf(w, "== dedup ==\n")
	if classified, err := p.Classify(batch, w); err != nil {
		if classified != nil {
			// Classification succeeded but the corpus save failed; keep the
			// annotated batch and let tomorrow's run re-learn today's docs.
			batch = classified
		} else {
			for i := range batch {
				batch[i].DedupStatus = types.StatusNovel
				batch[i].MaxSimilarity = 0.0
			}
		}
		fmt.Fprintf(w, "warning: dedup degraded: %v\n", err)
		record("dedup", OutcomeDegraded, err)
	} else {
		batch = classified
		record("dedup", OutcomeOK, nil)
	}
	result.Run.Novel = countStatus(batch, types.StatusNovel)

	// Feasibility scoring.
	fmt.Fprintf(w, "== score ==\n")
	batch = p.Score(batch, w)
	record("score", OutcomeOK, nil)
	result.Run.Pursue = countPursue(batch)
	result.Candidates = batch

	// Report and notification.
	fmt.Fprintf(w, "== report ==\n")
	path, compact, err := p.Report(date, batch)
	if err != nil {
		fmt.Fprintf(w, "warning: report failed: %v\n", err)
		record("report", OutcomeDegraded, err)
	} else {
		result.ReportPath = path
		fmt.Fprintf(w, "report written: %s\n", path)
		record("report", OutcomeOK, nil)

		if err := p.Notify(ctx, compact); err != nil {
			fmt.Fprintf(w, "warning: notification failed: %v\n", err)
			record("notify", OutcomeDegraded, err)
		} else {
			record("notify", OutcomeOK, nil)
		}
	}

	// Archive and registration.
	fmt.Fprintf(w, "== archive ==\n")
	if err := p.Archive(ctx, result.Run, batch); err != nil {
		fmt.Fprintf(w, "warning: archive failed: %v\n", err)
		record("archive", OutcomeDegraded, err)
	} else {
		record("archive", OutcomeOK, nil)
	}

	if added, err := p.Register(batch, started); err != nil {
		fmt.Fprintf(w, "warning: registration failed: %v\n", err)
		record("register", OutcomeDegraded, err)
	} else {
		result.Registered = added
		record("register", OutcomeOK, nil)
	}

	fmt.Fprintf(w, "run complete: %d discovered, %d novel, %d pursue, %d registered\n",
		result.Run.Discovered, result.Run.Novel, result.Run.Pursue, result.Registered)
	return result, nil
}

func countStatus(batch []types.Candidate, status types.DedupStatus) int {
	n := 0
	for _, c := range batch {
		if c.DedupStatus == status {
			n++
		}
	}
	return n
}

func countPursue(batch []types.Candidate) int {
	n := 0
	for _, c := range batch {
		if c.Feasibility != nil && c.Feasibility.Recommendation == types.RecommendPursue {
			n++
		}
	}
	return n
}
