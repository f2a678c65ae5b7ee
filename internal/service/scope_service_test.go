package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/testutil"
	"github.com/alexanderramin/trackscope/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScopeService(t *testing.T, observers ...UseCaseObserver) (ScopeService, Repos) {
	t.Helper()
	database, repos := setupRepos(t)
	svc := NewScopeService(repos.Tracks, repos.ScopeNodes, testutil.NewTestUoW(database), observers...)
	return svc, repos
}

func TestImportText_NestsByDottedPrefix(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "T1")

	res, err := svc.ImportText(ctx, track.ID, "1.7 Access Control\nDetails.\n1.7.1 Entry Permits\nMore details.")
	require.NoError(t, err)
	require.Len(t, res.Created, 2)

	root, child := res.Created[0], res.Created[1]
	assert.Equal(t, "1.7", root.Code)
	assert.Equal(t, "Access Control", root.Title)
	assert.Equal(t, "Details.", root.Body)
	assert.Nil(t, root.ParentID)

	assert.Equal(t, "1.7.1", child.Code)
	assert.Equal(t, "Entry Permits", child.Title)
	assert.Equal(t, "More details.", child.Body)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)
}

func TestImportText_KeepsExistingNodes(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Appendable")

	originals := []*domain.ScopeNode{
		seedNode(t, repos, track.ID, "1.1", "Existing one", testutil.WithOrderIndex(0), testutil.WithProgress(30)),
		seedNode(t, repos, track.ID, "1.2", "Existing two", testutil.WithOrderIndex(1)),
		seedNode(t, repos, track.ID, "1.3", "Existing three", testutil.WithOrderIndex(2)),
	}

	res, err := svc.ImportText(ctx, track.Key, "1.1 New section\n2 Other section\nBody line")
	require.NoError(t, err)
	require.Len(t, res.Created, 2)

	assert.Equal(t, "1.1_1", res.Created[0].Code, "colliding code is suffixed, not rejected")
	assert.Equal(t, "2", res.Created[1].Code)
	assert.Equal(t, "Body line", res.Created[1].Body)
	assert.Equal(t, 3, res.Created[0].OrderIndex)
	assert.Equal(t, 4, res.Created[1].OrderIndex)

	for _, o := range originals {
		got, err := repos.ScopeNodes.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.Code, got.Code)
		assert.Equal(t, o.Title, got.Title)
		assert.Equal(t, o.Progress, got.Progress)
	}
	assert.Equal(t, []string{"1.1", "1.2", "1.3", "1.1_1", "2"}, codesByOrder(t, repos, track.ID))
}

func TestImportText_RejectsEmptyText(t *testing.T) {
	svc, repos := setupScopeService(t)
	track := seedTrack(t, repos, "Empty")

	_, err := svc.ImportText(context.Background(), track.ID, "  \n\t ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestImportText_UnknownTrack(t *testing.T) {
	svc, _ := setupScopeService(t)

	_, err := svc.ImportText(context.Background(), "missing", "1 Anything")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportText_ReportsUseCase(t *testing.T) {
	obs := &recordingObserver{}
	svc, repos := setupScopeService(t, obs)
	track := seedTrack(t, repos, "Observed")

	_, err := svc.ImportText(context.Background(), track.ID, "1 Root\n1.1 Child")
	require.NoError(t, err)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "scope.import_text", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, 2, obs.events[0].Fields["created"])
}

func TestSetProgress_DerivesStatus(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Progress")
	node := seedNode(t, repos, track.ID, "1", "Leaf")

	cases := []struct {
		progress float64
		want     domain.NodeStatus
	}{
		{0, domain.StatusPending},
		{0.5, domain.StatusInProgress},
		{99.9, domain.StatusInProgress},
		{100, domain.StatusCompleted},
	}
	for _, tc := range cases {
		got, err := svc.SetProgress(ctx, node.ID, SetProgressRequest{Progress: tc.progress})
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Status, "progress %v", tc.progress)

		stored, err := repos.ScopeNodes.GetByID(ctx, node.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.progress, stored.Progress)
		assert.Equal(t, tc.want, stored.Status)
	}
}

func TestSetProgress_StatusOverride(t *testing.T) {
	svc, repos := setupScopeService(t)
	track := seedTrack(t, repos, "Override")
	node := seedNode(t, repos, track.ID, "1", "Leaf")

	status := domain.StatusCompleted
	got, err := svc.SetProgress(context.Background(), node.ID, SetProgressRequest{Progress: 80, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 80.0, got.Progress)
}

func TestSetProgress_RejectsBeforeWriting(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Guarded")
	node := seedNode(t, repos, track.ID, "1", "Leaf", testutil.WithProgress(40))

	bogus := domain.NodeStatus("done")
	for _, req := range []SetProgressRequest{
		{Progress: 150},
		{Progress: -1},
		{Progress: 10, Status: &bogus},
	} {
		_, err := svc.SetProgress(ctx, node.ID, req)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	stored, err := repos.ScopeNodes.GetByID(ctx, node.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stored.Progress)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
}

func TestSetProgress_UnknownNode(t *testing.T) {
	svc, _ := setupScopeService(t)

	_, err := svc.SetProgress(context.Background(), "nope", SetProgressRequest{Progress: 10})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetProgress_DoesNotTouchParent(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Parents")
	parent := seedNode(t, repos, track.ID, "1", "Parent")
	child := seedNode(t, repos, track.ID, "1.1", "Child", testutil.WithParent(parent.ID))

	_, err := svc.SetProgress(ctx, child.ID, SetProgressRequest{Progress: 100})
	require.NoError(t, err)

	stored, err := repos.ScopeNodes.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Progress)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestCreateNode_SynthesizesAndResolvesCodes(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Manual")
	first := seedNode(t, repos, track.ID, "1", "First", testutil.WithOrderIndex(0))

	root, err := svc.CreateNode(ctx, CreateNodeRequest{TrackID: track.ID, Title: "Second"})
	require.NoError(t, err)
	assert.Equal(t, "2", root.Code)
	assert.Equal(t, 1, root.OrderIndex)

	child, err := svc.CreateNode(ctx, CreateNodeRequest{TrackID: track.Key, ParentID: &first.ID, Title: "Nested"})
	require.NoError(t, err)
	assert.Equal(t, "1.1", child.Code)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, first.ID, *child.ParentID)

	dup, err := svc.CreateNode(ctx, CreateNodeRequest{TrackID: track.ID, Code: "1", Title: "Clash"})
	require.NoError(t, err)
	assert.Equal(t, "1_1", dup.Code)
}

func TestCreateNode_Validation(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Strict")
	other := seedTrack(t, repos, "Other")
	foreign := seedNode(t, repos, other.ID, "1", "Foreign")

	_, err := svc.CreateNode(ctx, CreateNodeRequest{TrackID: track.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateNode(ctx, CreateNodeRequest{TrackID: track.ID, Title: "x", ParentID: &foreign.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	negative := -1
	_, err = svc.CreateNode(ctx, CreateNodeRequest{TrackID: track.ID, Title: "x", OrderIndex: &negative})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateNode_EditsTextOnly(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Editable")
	node := seedNode(t, repos, track.ID, "3.1", "Old title", testutil.WithProgress(20))

	title, body := "New title", "New body"
	got, err := svc.UpdateNode(ctx, node.ID, UpdateNodeRequest{Title: &title, Body: &body})
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "New body", got.Body)
	assert.Equal(t, "3.1", got.Code)
	assert.Equal(t, 20.0, got.Progress)

	empty := ""
	_, err = svc.UpdateNode(ctx, node.ID, UpdateNodeRequest{Title: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReorder_AppliesAll(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Ordered")
	a := seedNode(t, repos, track.ID, "A", "a", testutil.WithOrderIndex(0))
	b := seedNode(t, repos, track.ID, "B", "b", testutil.WithOrderIndex(1))

	err := svc.Reorder(ctx, track.ID, []contract.OrderItem{{ID: a.ID, OrderIndex: 1}, {ID: b.ID, OrderIndex: 0}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, codesByOrder(t, repos, track.ID))
}

func TestReorder_RollsBackOnUnknownNode(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Atomic")
	other := seedTrack(t, repos, "Elsewhere")
	a := seedNode(t, repos, track.ID, "A", "a", testutil.WithOrderIndex(0))
	seedNode(t, repos, track.ID, "B", "b", testutil.WithOrderIndex(1))
	foreign := seedNode(t, repos, other.ID, "X", "x")

	err := svc.Reorder(ctx, track.ID, []contract.OrderItem{{ID: a.ID, OrderIndex: 5}, {ID: foreign.ID, OrderIndex: 0}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"A", "B"}, codesByOrder(t, repos, track.ID))

	err = svc.Reorder(ctx, track.ID, []contract.OrderItem{{ID: a.ID, OrderIndex: 1}, {ID: a.ID, OrderIndex: 2}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateNode_RejectsTakenSiblingOrder(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Slots")
	first := seedNode(t, repos, track.ID, "1", "First", testutil.WithOrderIndex(0))

	zero := 0
	_, err := svc.CreateNode(ctx, CreateNodeRequest{TrackID: track.ID, Title: "Second", OrderIndex: &zero})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"1"}, codesByOrder(t, repos, track.ID), "nothing written")

	// The same index is free under another parent.
	child, err := svc.CreateNode(ctx, CreateNodeRequest{TrackID: track.ID, ParentID: &first.ID, Title: "Nested", OrderIndex: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, child.OrderIndex)

	three := 3
	root, err := svc.CreateNode(ctx, CreateNodeRequest{TrackID: track.ID, Title: "Later", OrderIndex: &three})
	require.NoError(t, err)
	assert.Equal(t, 3, root.OrderIndex)
}

func TestReorder_RejectsSharedSiblingOrder(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Crowded")
	a := seedNode(t, repos, track.ID, "A", "a", testutil.WithOrderIndex(0))
	b := seedNode(t, repos, track.ID, "B", "b", testutil.WithOrderIndex(1))
	seedNode(t, repos, track.ID, "C", "c", testutil.WithOrderIndex(2))
	child := seedNode(t, repos, track.ID, "A.1", "a1", testutil.WithParent(a.ID), testutil.WithOrderIndex(0))

	err := svc.Reorder(ctx, track.ID, []contract.OrderItem{{ID: a.ID, OrderIndex: 5}, {ID: b.ID, OrderIndex: 5}})
	assert.ErrorIs(t, err, domain.ErrValidation, "two listed siblings on one index")

	err = svc.Reorder(ctx, track.ID, []contract.OrderItem{{ID: a.ID, OrderIndex: 2}})
	assert.ErrorIs(t, err, domain.ErrValidation, "index held by an unlisted sibling")
	assert.Equal(t, []string{"A", "A.1", "B", "C"}, codesByOrder(t, repos, track.ID))

	// Swapping two siblings frees each other's slot.
	require.NoError(t, svc.Reorder(ctx, track.ID, []contract.OrderItem{{ID: a.ID, OrderIndex: 1}, {ID: b.ID, OrderIndex: 0}}))

	// Children are compared only with their own siblings.
	require.NoError(t, svc.Reorder(ctx, track.ID, []contract.OrderItem{{ID: child.ID, OrderIndex: 2}}))
}

func TestSearch_KeepsAncestors(t *testing.T) {
	svc, repos := setupScopeService(t)
	ctx := context.Background()
	track := seedTrack(t, repos, "Searchable")

	_, err := svc.ImportText(ctx, track.ID, "1 Governance\n1.1 Permits\n1.2 Audits\n2 Operations")
	require.NoError(t, err)

	roots, err := svc.Search(ctx, track.ID, "permit")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "1", roots[0].Scope.Code)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "1.1", roots[0].Children[0].Scope.Code)

	all, err := svc.Tree(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, tree.Count(all))
}

func TestStats_RoundsMean(t *testing.T) {
	svc, repos := setupScopeService(t)
	track := seedTrack(t, repos, "Stats")
	seedNode(t, repos, track.ID, "1", "a", testutil.WithProgress(10))
	seedNode(t, repos, track.ID, "2", "b", testutil.WithProgress(20))
	seedNode(t, repos, track.ID, "3", "c", testutil.WithProgress(100))

	stats, err := svc.Stats(context.Background(), track.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 43.33, stats.AvgProgress)
	assert.Equal(t, 2, stats.ByStatus[domain.StatusInProgress])
	assert.Equal(t, 1, stats.ByStatus[domain.StatusCompleted])
	assert.Equal(t, 0, stats.ByStatus[domain.StatusPending])
}

func TestStats_UnknownTrack(t *testing.T) {
	svc, _ := setupScopeService(t)

	_, err := svc.Stats(context.Background(), "ghost")
	var nf *domain.NotFoundError
	assert.True(t, errors.As(err, &nf))
}
