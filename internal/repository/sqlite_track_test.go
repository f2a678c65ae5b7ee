package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteTrackRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	track := testutil.NewTestTrack("Water Supply", testutil.WithTrackKey("water"))
	track.NameAlt = "Approvisionnement"
	require.NoError(t, repo.Create(ctx, track))

	got, err := repo.GetByID(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, "water", got.Key)
	assert.Equal(t, "Water Supply", got.Name)
	assert.Equal(t, "Approvisionnement", got.NameAlt)
	assert.True(t, track.CreatedAt.Equal(got.CreatedAt))

	byKey, err := repo.GetByKey(ctx, "water")
	require.NoError(t, err)
	assert.Equal(t, track.ID, byKey.ID)
}

func TestTrackRepo_NotFound(t *testing.T) {
	repo := NewSQLiteTrackRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByKey(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrNotFound)
}

func TestTrackRepo_DuplicateKeyRejected(t *testing.T) {
	repo := NewSQLiteTrackRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTrack("A", testutil.WithTrackKey("dup"))))
	assert.Error(t, repo.Create(ctx, testutil.NewTestTrack("B", testutil.WithTrackKey("dup"))))
}

func TestTrackRepo_ListUpdateDelete(t *testing.T) {
	repo := NewSQLiteTrackRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	b := testutil.NewTestTrack("Bravo")
	a := testutil.NewTestTrack("Alpha")
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, a))

	tracks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Alpha", tracks[0].Name)

	require.NoError(t, repo.UpdateDescription(ctx, a.ID, "short", "long"))
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "short", got.Description)
	assert.Equal(t, "long", got.DescriptionExtended)

	require.NoError(t, repo.Delete(ctx, b.ID))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
