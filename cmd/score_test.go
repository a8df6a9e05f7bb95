package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nonprofit-intel/internal/config"
	"github.com/sells-group/nonprofit-intel/internal/model"
	"github.com/sells-group/nonprofit-intel/internal/opportunity"
	"github.com/sells-group/nonprofit-intel/internal/store"
)

func scoreOf(v float64) model.QualityScore {
	qs := model.NewQualityScore()
	qs.OverallScore = v
	return qs
}

func TestRankTargets(t *testing.T) {
	targets := []scoredTarget{
		{ID: "c", Score: scoreOf(0.5)},
		{ID: "b", Score: scoreOf(0.9)},
		{ID: "a", Score: scoreOf(0.5)},
	}
	rankTargets(targets)
	assert.Equal(t, "b", targets[0].ID)
	assert.Equal(t, "a", targets[1].ID)
	assert.Equal(t, "c", targets[2].ID)
}

func TestSubjectOr(t *testing.T) {
	prev := scoreSubjectID
	t.Cleanup(func() { scoreSubjectID = prev })

	scoreSubjectID = ""
	assert.Equal(t, "p-1", subjectOr("p-1"))
	scoreSubjectID = "override"
	assert.Equal(t, "override", subjectOr("p-1"))
}

func TestDiscoveryScore(t *testing.T) {
	r := opportunity.DiscoveryResult{
		CandidateID:     "c-1",
		Score:           0.72,
		Category:        opportunity.CategoryTop,
		ComponentScores: map[string]float64{opportunity.DimensionMission: 1},
	}
	qs := discoveryScore(r)
	assert.Equal(t, 0.72, qs.OverallScore)
	assert.Equal(t, model.Rating("top_match"), qs.Rating)
	assert.Equal(t, 1.0, qs.ComponentScores[opportunity.DimensionMission])
	assert.NotNil(t, qs.MissingFields)
}

func TestFormatScores(t *testing.T) {
	qs := scoreOf(0.905)
	qs.Rating = model.RatingExcellent
	qs.MissingFields = []string{"profile.region"}

	var buf bytes.Buffer
	formatScores(&buf, []scoredTarget{{ID: "f-1", Name: "River Fund", Score: qs}})
	out := buf.String()
	assert.Contains(t, out, "RATING")
	assert.Contains(t, out, "River Fund")
	assert.Contains(t, out, "0.9050")
	assert.Contains(t, out, "EXCELLENT")
}

func TestFormatDiscovery(t *testing.T) {
	var buf bytes.Buffer
	formatDiscovery(&buf, []opportunity.DiscoveryResult{
		{CandidateID: "c-1", Name: "Oak Trust", Score: 0.8, Category: opportunity.CategoryStrong, Rank: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "Oak Trust")
	assert.Contains(t, out, "strong_match")
	assert.Contains(t, out, "0.8000")
}

func TestSaveScores(t *testing.T) {
	prevCfg, prevSave := cfg, scoreSave
	t.Cleanup(func() { cfg, scoreSave = prevCfg, prevSave })

	cfg = testConfig()
	cfg.Store = config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "scores.db"), RetryAttempts: 2}
	ctx := context.Background()

	recs := []store.QualityScoreRecord{
		{Kind: store.ScoreKindFunding, SubjectID: "p-1", TargetID: "f-1", Score: scoreOf(0.9)},
		{Kind: store.ScoreKindFunding, SubjectID: "p-1", TargetID: "f-2", Score: scoreOf(0.4)},
	}

	scoreSave = false
	require.NoError(t, saveScores(ctx, recs))

	scoreSave = true
	require.NoError(t, saveScores(ctx, recs))
	require.NoError(t, saveScores(ctx, []store.QualityScoreRecord{
		{Kind: store.ScoreKindProfile, SubjectID: "p-1", Score: scoreOf(0.7)},
	}))

	st, err := store.Open(ctx, cfg.Store)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	funding, err := st.ListQualityScores(ctx, store.ScoreFilter{Kind: store.ScoreKindFunding})
	require.NoError(t, err)
	assert.Len(t, funding, 2)

	all, err := st.ListQualityScores(ctx, store.ScoreFilter{SubjectID: "p-1"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveScores_RequiresSubject(t *testing.T) {
	prevSave := scoreSave
	t.Cleanup(func() { scoreSave = prevSave })
	scoreSave = true

	err := saveScores(context.Background(), []store.QualityScoreRecord{{Kind: store.ScoreKindFunding, TargetID: "f-1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--subject-id is required")
}
