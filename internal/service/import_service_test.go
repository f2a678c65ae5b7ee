package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/importer"
	"github.com/alexanderramin/trackscope/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func validSeedSchema() *importer.SeedSchema {
	return &importer.SeedSchema{Tracks: []importer.TrackSeed{{
		Key:   "security",
		Name:  "Security services",
		Scope: "1 Guarding\n1.1 Night patrols\nCover every gate.\n2 Reporting",
		Tasks: []importer.TaskSeed{
			{Title: "Hire guards", Progress: floatPtr(50)},
			{Title: "Install cameras"},
		},
		Reports: []importer.ReportSeed{{Title: "January"}},
		KPIs:    []importer.KPISeed{{Name: "Incidents closed", Actual: 8, Target: 10}},
	}}}
}

func TestImportSeed_WritesEverything(t *testing.T) {
	database, repos := setupRepos(t)
	svc := NewImportService(testutil.NewTestUoW(database))
	ctx := context.Background()

	res, err := svc.ImportSeedFromSchema(ctx, validSeedSchema())
	require.NoError(t, err)
	require.Len(t, res.Tracks, 1)
	assert.Equal(t, 2, res.TaskCount)
	assert.Equal(t, 1, res.ReportCount)
	assert.Equal(t, 1, res.KPICount)
	assert.Equal(t, 3, res.ScopeCount)

	track, err := repos.Tracks.GetByKey(ctx, "security")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "1.1", "2"}, codesByOrder(t, repos, track.ID))
}

func TestImportSeed_FromFile(t *testing.T) {
	database, _ := setupRepos(t)
	svc := NewImportService(testutil.NewTestUoW(database))

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tracks":[{"key":"ops","name":"Operations","scope":"1 Run\n2 Watch"}]}`), 0o644))

	res, err := svc.ImportSeed(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ScopeCount)
}

func TestImportSeed_ValidationCollectsAllErrors(t *testing.T) {
	database, _ := setupRepos(t)
	svc := NewImportService(testutil.NewTestUoW(database))

	schema := &importer.SeedSchema{Tracks: []importer.TrackSeed{
		{Key: "Bad Key"},
		{Key: "ok", Name: "Fine", Tasks: []importer.TaskSeed{{Title: "t", Progress: floatPtr(140)}}},
	}}
	_, err := svc.ImportSeedFromSchema(context.Background(), schema)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "tracks[0].key")
	assert.Contains(t, err.Error(), "tracks[0].name is required")
	assert.Contains(t, err.Error(), "tracks[1].tasks[0].progress")
}

func TestImportSeed_RollbackOnTaskFailure(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()

	// Exec #1 = track create, #2 = first task.
	failUoW := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: errors.New("injected task failure")}
	svc := NewImportService(failUoW)

	_, err := svc.ImportSeedFromSchema(ctx, validSeedSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected task failure")

	tracks, err := repos.Tracks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tracks, "no tracks should exist after rollback")
}

func TestImportSeed_RollbackOnScopeFailure(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()

	// Track, 2 tasks, 1 report, 1 KPI, then scope node #1 fails on exec #6.
	failUoW := &testutil.FailOnNthExecUoW{DB: database, FailOn: 6, Err: errors.New("injected scope failure")}
	svc := NewImportService(failUoW)

	_, err := svc.ImportSeedFromSchema(ctx, validSeedSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected scope failure")

	n, err := repos.Tasks.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImportSeed_DuplicateKeyConflicts(t *testing.T) {
	database, repos := setupRepos(t)
	seedTrack(t, repos, "Security", testutil.WithTrackKey("security"))
	svc := NewImportService(testutil.NewTestUoW(database))

	_, err := svc.ImportSeedFromSchema(context.Background(), validSeedSchema())
	assert.ErrorIs(t, err, domain.ErrConflict)
}
