// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/strategy-scout/internal/archive"
	"github.com/pdiddy/strategy-scout/pkg/types"
)

func novelCandidate(name string) types.Candidate {
	return types.Candidate{
		RepoName: name,
		RepoURL:  "https://github.com/" + name,
	}
}

// passthroughPipeline returns a pipeline whose stages succeed with canned
// behavior; individual tests override the stage under test.
func passthroughPipeline(batch []types.Candidate) *Pipeline {
	return &Pipeline{
		Discover: func(context.Context, io.Writer) ([]types.Candidate, error) {
			return batch, nil
		},
		Enrich: func(_ context.Context, b []types.Candidate, _ io.Writer) ([]types.Candidate, error) {
			for i := range b {
				b[i].Summary = &types.StrategySummary{Category: types.CategoryMomentum, Tier: types.Tier3}
			}
			return b, nil
		},
		Classify: func(b []types.Candidate, _ io.Writer) ([]types.Candidate, error) {
			for i := range b {
				b[i].DedupStatus = types.StatusNovel
			}
			return b, nil
		},
		Score: func(b []types.Candidate, _ io.Writer) []types.Candidate {
			for i := range b {
				b[i].Feasibility = &types.FeasibilityResult{
					Overall:        7.5,
					Recommendation: types.RecommendPursue,
				}
			}
			return b
		},
		Report: func(string, []types.Candidate) (string, string, error) {
			return "reports/digest.md", "compact", nil
		},
		Notify: func(context.Context, string) error { return nil },
		Archive: func(context.Context, types.RunRecord, []types.Candidate) error {
			return nil
		},
		Register: func(b []types.Candidate, _ time.Time) (int, error) {
			return len(b), nil
		},
	}
}

func TestRunHappyPath(t *testing.T) {
	batch := []types.Candidate{novelCandidate("a/1"), novelCandidate("a/2"), novelCandidate("a/3")}
	p := passthroughPipeline(batch)

	result, err := p.Run(context.Background(), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Run.Discovered)
	assert.Equal(t, 3, result.Run.Novel)
	assert.Equal(t, 3, result.Run.Pursue)
	assert.Equal(t, 3, result.Registered)
	assert.Equal(t, "reports/digest.md", result.ReportPath)
	assert.False(t, result.HasDegradations())
	assert.NotEmpty(t, result.Run.ID)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), result.Run.Date)
}

func TestRunDiscoveryFailureAborts(t *testing.T) {
	p := passthroughPipeline(nil)
	reported := false
	p.Discover = func(context.Context, io.Writer) ([]types.Candidate, error) {
		return nil, errors.New("rate limited")
	}
	p.Report = func(string, []types.Candidate) (string, string, error) {
		reported = true
		return "", "", nil
	}

	result, err := p.Run(context.Background(), io.Discard)
	require.Error(t, err)
	assert.False(t, reported, "no downstream stage should run after a fatal discovery failure")
	require.Len(t, result.Stages, 1)
	assert.Equal(t, OutcomeFatal, result.Stages[0].Outcome)
}

func TestRunEnrichFailureDegrades(t *testing.T) {
	batch := []types.Candidate{novelCandidate("a/1")}
	p := passthroughPipeline(batch)
	p.Enrich = func(context.Context, []types.Candidate, io.Writer) ([]types.Candidate, error) {
		return nil, errors.New("github down")
	}

	var log strings.Builder
	result, err := p.Run(context.Background(), &log)
	require.NoError(t, err)

	assert.True(t, result.HasDegradations())
	assert.Contains(t, log.String(), "continuing unenriched")
	// The unenriched batch still flows to later stages.
	require.Len(t, result.Candidates, 1)
	assert.Nil(t, result.Candidates[0].Summary)
	assert.Equal(t, types.StatusNovel, result.Candidates[0].DedupStatus)
}

func TestRunClassifyFailureFallsBackToNovel(t *testing.T) {
	batch := []types.Candidate{novelCandidate("a/1"), novelCandidate("a/2")}
	p := passthroughPipeline(batch)
	p.Classify = func([]types.Candidate, io.Writer) ([]types.Candidate, error) {
		return nil, errors.New("corpus unreadable")
	}

	result, err := p.Run(context.Background(), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Run.Novel)
	for _, c := range result.Candidates {
		assert.Equal(t, types.StatusNovel, c.DedupStatus)
		assert.Equal(t, 0.0, c.MaxSimilarity)
	}
}

func TestRunClassifySaveFailureKeepsAnnotations(t *testing.T) {
	batch := []types.Candidate{novelCandidate("a/1")}
	p := passthroughPipeline(batch)
	p.Classify = func(b []types.Candidate, _ io.Writer) ([]types.Candidate, error) {
		b[0].DedupStatus = types.StatusSimilar
		b[0].MaxSimilarity = 0.6
		return b, errors.New("disk full")
	}

	result, err := p.Run(context.Background(), io.Discard)
	require.NoError(t, err)

	assert.True(t, result.HasDegradations())
	assert.Equal(t, types.StatusSimilar, result.Candidates[0].DedupStatus)
}

func TestRunReportFailureSkipsNotify(t *testing.T) {
	batch := []types.Candidate{novelCandidate("a/1")}
	p := passthroughPipeline(batch)
	notified := false
	p.Report = func(string, []types.Candidate) (string, string, error) {
		return "", "", errors.New("disk full")
	}
	p.Notify = func(context.Context, string) error {
		notified = true
		return nil
	}

	result, err := p.Run(context.Background(), io.Discard)
	require.NoError(t, err)
	assert.False(t, notified, "nothing to send when the report failed")
	assert.True(t, result.HasDegradations())
	assert.Empty(t, result.ReportPath)
}

func TestRunNotifyFailureIsLoggedOnly(t *testing.T) {
	batch := []types.Candidate{novelCandidate("a/1")}
	p := passthroughPipeline(batch)
	p.Notify = func(context.Context, string) error {
		return errors.New("telegram down")
	}

	var log strings.Builder
	result, err := p.Run(context.Background(), &log)
	require.NoError(t, err)
	assert.Contains(t, log.String(), "notification failed")
	assert.Equal(t, 1, result.Registered, "registration still runs after notify failure")
}

func TestRunArchiveFailureContinuesToRegister(t *testing.T) {
	batch := []types.Candidate{novelCandidate("a/1")}
	p := passthroughPipeline(batch)
	p.Archive = func(context.Context, types.RunRecord, []types.Candidate) error {
		return errors.New("database locked")
	}

	result, err := p.Run(context.Background(), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Registered)
	assert.True(t, result.HasDegradations())
}

func TestNewWiresReportStage(t *testing.T) {
	dataDir := t.TempDir()
	reportsDir := t.TempDir()

	store, err := archive.NewStore(types.ArchiveConfig{DataDir: dataDir})
	require.NoError(t, err)
	defer store.Close()

	cfg := types.PipelineConfig{
		Report:  types.ReportConfig{ReportsDir: reportsDir, TopN: 5},
		Dedup:   types.DedupConfig{CorpusPath: filepath.Join(dataDir, "strategy_db.yaml")},
		Archive: types.ArchiveConfig{DataDir: dataDir},
		Track:   types.TrackConfig{Path: filepath.Join(dataDir, "active_strategies.yaml")},
	}
	p := New(cfg, store)

	batch := []types.Candidate{{
		RepoName:    "alice/momo",
		RepoURL:     "https://github.com/alice/momo",
		Stars:       42,
		DedupStatus: types.StatusNovel,
		Summary: &types.StrategySummary{
			CoreConcept: "Daily momentum.",
			EntryLogic:  "buys strength",
			ExitLogic:   "sells weakness",
			Category:    types.CategoryMomentum,
			Tier:        types.Tier1,
		},
		Feasibility: &types.FeasibilityResult{
			Overall:        7.5,
			Recommendation: types.RecommendPursue,
		},
	}}

	path, compact, err := p.Report("2026-08-23", batch)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alice/momo")
	assert.Contains(t, compact, "alice/momo")
	assert.NotContains(t, compact, "#", "notification text uses the compact form, not markdown")
}

func TestRunEmptyDiscovery(t *testing.T) {
	p := passthroughPipeline(nil)
	var archivedRun types.RunRecord
	p.Archive = func(_ context.Context, run types.RunRecord, _ []types.Candidate) error {
		archivedRun = run
		return nil
	}
	p.Register = func(b []types.Candidate, _ time.Time) (int, error) { return 0, nil }

	result, err := p.Run(context.Background(), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Run.Discovered)
	assert.Equal(t, 0, result.Registered)
	assert.Equal(t, result.Run.ID, archivedRun.ID, "empty runs are still archived")
}
