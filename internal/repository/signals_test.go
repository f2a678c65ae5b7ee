package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepo_ProgressAndAggregate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	track := testutil.NewTestTrack("Tasks")
	require.NoError(t, NewSQLiteTrackRepo(db).Create(ctx, track))
	repo := NewSQLiteTaskRepo(db)

	task := testutil.NewTestTask(track.ID, "Survey", 0)
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(track.ID, "Draft", 100)))

	require.NoError(t, task.SetProgress(60, time.Now().UTC()))
	require.NoError(t, repo.UpdateProgress(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.Progress)
	assert.Equal(t, domain.StatusInProgress, got.Status)

	agg, err := repo.Aggregate(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Total)
	assert.Equal(t, 80.0, agg.AvgProgress)
	assert.Equal(t, 50.0, agg.CompletedRatio())

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportAndKPIRepos(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	track := testutil.NewTestTrack("Signals")
	require.NoError(t, NewSQLiteTrackRepo(db).Create(ctx, track))

	reports := NewSQLiteReportRepo(db)
	require.NoError(t, reports.Create(ctx, &domain.Report{TrackID: track.ID, Title: "Q1"}))
	require.NoError(t, reports.Create(ctx, &domain.Report{TrackID: track.ID, Title: "Q2"}))
	n, err := reports.CountByTrack(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	kpis := NewSQLiteKPIEntryRepo(db)
	require.NoError(t, kpis.Create(ctx, &domain.KPIEntry{TrackID: track.ID, Name: "uptime", Actual: 90, Target: 100}))
	entries, err := kpis.ListByTrack(ctx, track.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 90.0, entries[0].Attainment())

	assert.Error(t, kpis.Create(ctx, &domain.KPIEntry{TrackID: track.ID, Name: "bad", Target: -1}))
}

func TestExtractedRepos_DeleteByTrack(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	track := testutil.NewTestTrack("Extracted")
	require.NoError(t, NewSQLiteTrackRepo(db).Create(ctx, track))

	trackKPIs := NewSQLiteTrackKPIRepo(db)
	penalties := NewSQLitePenaltyRepo(db)
	records := NewSQLiteRecordRepo(db)

	require.NoError(t, trackKPIs.Create(ctx, &domain.TrackKPI{TrackID: track.ID, Name: "second", SortOrder: 2}))
	require.NoError(t, trackKPIs.Create(ctx, &domain.TrackKPI{TrackID: track.ID, Name: "first", SortOrder: 1}))
	list, err := trackKPIs.ListByTrack(ctx, track.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Name)

	p := &domain.Penalty{TrackID: track.ID, Violation: "Late delivery, 2% deduction"}
	require.NoError(t, penalties.Create(ctx, p))
	assert.Equal(t, domain.SeverityHigh, p.Severity)
	require.NoError(t, penalties.Create(ctx, &domain.Penalty{TrackID: track.ID, Violation: "Minor", Resolved: true}))
	total, unresolved, err := penalties.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, unresolved)

	require.NoError(t, records.Create(ctx, &domain.Record{TrackID: track.ID, Title: "Handbook", Progress: 100}))
	recs, err := records.ListByTrack(ctx, track.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.StatusCompleted, recs[0].Status)

	deleted, err := trackKPIs.DeleteByTrack(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	deleted, err = penalties.DeleteByTrack(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	deleted, err = records.DeleteByTrack(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}
