package tree

import (
	"testing"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id, code, title string, order int, parent string) *domain.ScopeNode {
	n := &domain.ScopeNode{ID: id, Code: code, Title: title, OrderIndex: order}
	if parent != "" {
		n.ParentID = &parent
	}
	return n
}

// sample:
//
//	1 Security          (a)
//	  1.1 Gates         (b)
//	  1.2 Patrols       (c)
//	     1.2.1 Night    (d)
//	2 Cleaning          (e)
func sample() []*Node {
	return Build([]*domain.ScopeNode{
		node("d", "1.2.1", "Night rounds", 4, "c"),
		node("e", "2", "Cleaning", 5, ""),
		node("c", "1.2", "Patrols", 3, "a"),
		node("a", "1", "Security", 0, ""),
		node("b", "1.1", "Gates", 1, "a"),
	})
}

func codes(roots []*Node) []string {
	var out []string
	Walk(roots, func(n *Node, _ int) { out = append(out, n.Scope.Code) })
	return out
}

func TestBuild_NestsAndOrders(t *testing.T) {
	roots := sample()
	require.Len(t, roots, 2)
	assert.Equal(t, []string{"1", "1.1", "1.2", "1.2.1", "2"}, codes(roots))
	assert.Equal(t, 5, Count(roots))
}

func TestBuild_OrphanBecomesRoot(t *testing.T) {
	roots := Build([]*domain.ScopeNode{
		node("x", "3.1", "Orphan", 2, "missing"),
		node("y", "1", "Root", 1, ""),
	})
	assert.Equal(t, []string{"1", "3.1"}, codes(roots))
}

func TestFind(t *testing.T) {
	roots := sample()
	n := Find(roots, "d")
	require.NotNil(t, n)
	assert.Equal(t, "1.2.1", n.Scope.Code)
	assert.Nil(t, Find(roots, "zzz"))
}

func TestFilter_KeepsAncestorsOfMatches(t *testing.T) {
	got := Filter(sample(), "night")
	assert.Equal(t, []string{"1", "1.2", "1.2.1"}, codes(got))
}

func TestFilter_MatchingParentDropsNonMatchingLeaves(t *testing.T) {
	got := Filter(sample(), "security")
	assert.Equal(t, []string{"1"}, codes(got))
	assert.Empty(t, got[0].Children)
}

func TestFilter_MatchesCodeAndBody(t *testing.T) {
	roots := sample()
	Find(roots, "e").Scope.Body = "Daily WASTE removal"

	assert.Equal(t, []string{"2"}, codes(Filter(roots, "waste")))
	assert.Equal(t, []string{"1", "1.2", "1.2.1"}, codes(Filter(roots, "1.2.1")))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	roots := sample()
	_ = Filter(roots, "night")
	assert.Len(t, roots[0].Children, 2)
	assert.Equal(t, 5, Count(roots))
}

func TestFilter_EmptyQueryAndNoMatch(t *testing.T) {
	roots := sample()
	assert.Equal(t, roots, Filter(roots, "  "))
	assert.Empty(t, Filter(roots, "nothing-like-this"))
}
