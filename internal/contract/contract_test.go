package contract

import (
	"testing"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdown_MeanIsUnweighted(t *testing.T) {
	b := Breakdown{Tasks: 50, Reports: 3, ScopeBlocks: 62.5, KPIs: 80}
	assert.InDelta(t, 48.875, b.Mean(), 1e-9)
	assert.Zero(t, Breakdown{}.Mean())
}

func TestRebuildReport_FailuresAndEmpty(t *testing.T) {
	r := &RebuildReport{Owners: []OwnerResult{
		{TrackKey: "a", Nodes: 4},
		{TrackKey: "b", Nodes: 0},
		{TrackKey: "c", Error: "boom"},
	}}
	assert.Equal(t, 1, r.Failures())
	assert.Equal(t, []string{"b"}, r.Empty())
}

func TestNewScopeTree_KeepsNesting(t *testing.T) {
	parentID := "p"
	roots := tree.Build([]*domain.ScopeNode{
		{ID: "p", Code: "1", OrderIndex: 0},
		{ID: "c", Code: "1.1", ParentID: &parentID, OrderIndex: 1},
		{ID: "q", Code: "2", OrderIndex: 2},
	})

	got := NewScopeTree(roots)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Code)
	require.Len(t, got[0].Children, 1)
	assert.Equal(t, "1.1", got[0].Children[0].Code)
	assert.Empty(t, got[1].Children)
	assert.NotNil(t, got[1].Children, "leaves encode as an empty list")
}
