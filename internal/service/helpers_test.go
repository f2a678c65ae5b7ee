package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/testutil"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (*sql.DB, Repos) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return database, NewSQLiteRepos(database)
}

func seedTrack(t *testing.T, repos Repos, name string, opts ...testutil.TrackOption) *domain.Track {
	t.Helper()
	track := testutil.NewTestTrack(name, opts...)
	require.NoError(t, repos.Tracks.Create(context.Background(), track))
	return track
}

func seedNode(t *testing.T, repos Repos, trackID, code, title string, opts ...testutil.NodeOption) *domain.ScopeNode {
	t.Helper()
	n := testutil.NewTestScopeNode(trackID, code, title, opts...)
	require.NoError(t, repos.ScopeNodes.Create(context.Background(), n))
	return n
}

func codesByOrder(t *testing.T, repos Repos, trackID string) []string {
	t.Helper()
	nodes, err := repos.ScopeNodes.ListByTrack(context.Background(), trackID)
	require.NoError(t, err)
	codes := make([]string, len(nodes))
	for i, n := range nodes {
		codes[i] = n.Code
	}
	return codes
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}
