package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/service"
	"github.com/alexanderramin/trackscope/internal/testutil"
)

func setupServices(t *testing.T) (Services, *domain.Track) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repos := service.NewSQLiteRepos(database)
	uow := db.NewSQLiteUnitOfWork(database)

	track := testutil.NewTestTrack("Alpha", testutil.WithTrackKey("alpha"))
	require.NoError(t, repos.Tracks.Create(context.Background(), track))

	return Services{
		Tracks:   service.NewTrackService(repos.Tracks),
		Scope:    service.NewScopeService(repos.Tracks, repos.ScopeNodes, uow),
		Progress: service.NewProgressService(repos, domain.ModeAverage),
	}, track
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

const outline = "1 Design\n1.1 Sketch\n1.2 Review\n2 Build"

func TestImportThenTreeAndSearch(t *testing.T) {
	svcs, _ := setupServices(t)

	out, isErr := call(t, importScopeTextHandler(svcs), map[string]any{"track": "alpha", "text": outline})
	require.False(t, isErr, out)
	assert.Contains(t, out, "Imported 4 scope nodes.")

	out, isErr = call(t, scopeTreeHandler(svcs), map[string]any{"track": "alpha"})
	require.False(t, isErr)
	assert.Contains(t, out, "1 Design [pending 0%]")
	assert.Contains(t, out, "  1.1 Sketch")

	out, isErr = call(t, scopeSearchHandler(svcs), map[string]any{"track": "alpha", "query": "sketch"})
	require.False(t, isErr)
	assert.Contains(t, out, "1 Design")
	assert.Contains(t, out, "1.1 Sketch")
	assert.NotContains(t, out, "Build")

	out, _ = call(t, scopeSearchHandler(svcs), map[string]any{"track": "alpha", "query": "nothing"})
	assert.Equal(t, "No results found.", out)
}

func TestSetScopeProgress(t *testing.T) {
	svcs, track := setupServices(t)
	res, err := svcs.Scope.ImportText(context.Background(), track.ID, outline)
	require.NoError(t, err)
	id := res.Created[0].ID

	out, isErr := call(t, setScopeProgressHandler(svcs), map[string]any{"node_id": id, "progress": 100.0})
	require.False(t, isErr, out)
	assert.Contains(t, out, "100% (completed)")

	out, isErr = call(t, setScopeProgressHandler(svcs), map[string]any{"node_id": id, "progress": 30.0, "status": "completed"})
	require.False(t, isErr, out)
	assert.Contains(t, out, "30% (completed)")

	_, isErr = call(t, setScopeProgressHandler(svcs), map[string]any{"node_id": id, "progress": 120.0})
	assert.True(t, isErr)

	_, isErr = call(t, setScopeProgressHandler(svcs), map[string]any{"node_id": id})
	assert.True(t, isErr)
}

func TestProgressTools(t *testing.T) {
	svcs, track := setupServices(t)
	res, err := svcs.Scope.ImportText(context.Background(), track.ID, outline)
	require.NoError(t, err)
	_, err = svcs.Scope.SetProgress(context.Background(), res.Created[0].ID, service.SetProgressRequest{Progress: 100})
	require.NoError(t, err)

	out, isErr := call(t, trackProgressHandler(svcs), map[string]any{"track": "alpha", "mode": "completion"})
	require.False(t, isErr, out)
	var tp contract.TrackProgress
	require.NoError(t, json.Unmarshal([]byte(out), &tp))
	assert.InDelta(t, 25, tp.Breakdown.ScopeBlocks, 1e-9)

	out, isErr = call(t, progressSummaryHandler(svcs), map[string]any{})
	require.False(t, isErr, out)
	var summary contract.ExecutiveSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, domain.ModeAverage, summary.Mode)
	assert.Len(t, summary.Tracks, 1)

	out, isErr = call(t, scopeStatsHandler(svcs), map[string]any{"track": "alpha"})
	require.False(t, isErr)
	var stats contract.ScopeStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 4, stats.Total)

	_, isErr = call(t, trackProgressHandler(svcs), map[string]any{"track": "alpha", "mode": "weighted"})
	assert.True(t, isErr)
}

func TestToolErrors(t *testing.T) {
	svcs, _ := setupServices(t)

	out, isErr := call(t, scopeTreeHandler(svcs), map[string]any{"track": "missing"})
	assert.True(t, isErr)
	assert.Contains(t, out, "not found")

	_, isErr = call(t, scopeTreeHandler(svcs), map[string]any{})
	assert.True(t, isErr)

	_, isErr = call(t, importScopeTextHandler(svcs), map[string]any{"track": "alpha", "text": "   "})
	assert.True(t, isErr)
}

func TestListTracksAndRegistration(t *testing.T) {
	svcs, _ := setupServices(t)

	out, isErr := call(t, listTracksHandler(svcs), nil)
	require.False(t, isErr)
	assert.Contains(t, out, "alpha  Alpha")

	s := server.NewMCPServer("trackscope-test", "0.0.0", server.WithToolCapabilities(true))
	RegisterReadTools(s, svcs)
	RegisterWriteTools(s, svcs)

	resp := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{
		"list_tracks", "scope_tree", "scope_search", "scope_stats",
		"track_progress", "progress_summary", "import_scope_text", "set_scope_progress",
	} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}
