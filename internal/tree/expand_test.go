package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandState_ExpandAllAndCollapseAll(t *testing.T) {
	roots := sample()
	s := NewExpandState()

	s.ExpandAll(roots)
	assert.Equal(t, 5, s.Len())
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		assert.True(t, s.IsExpanded(id), id)
	}

	s.CollapseAll()
	assert.Zero(t, s.Len())
	assert.False(t, s.IsExpanded("a"))
}

func TestExpandState_Toggle(t *testing.T) {
	s := NewExpandState()
	assert.True(t, s.Toggle("a"))
	assert.True(t, s.IsExpanded("a"))
	assert.False(t, s.Toggle("a"))
	assert.False(t, s.IsExpanded("a"))
}

func TestFlatten_RespectsExpansion(t *testing.T) {
	roots := sample()
	s := NewExpandState()

	rows := Flatten(roots, s.IsExpanded)
	assert.Len(t, rows, 2, "only roots when nothing is expanded")

	s.Expand("a")
	rows = Flatten(roots, s.IsExpanded)
	var got []string
	for _, r := range rows {
		got = append(got, r.Node.Scope.Code)
	}
	assert.Equal(t, []string{"1", "1.1", "1.2", "2"}, got)

	assert.True(t, rows[0].Expanded)
	assert.False(t, rows[2].Expanded, "1.2 has children but is closed")
	assert.True(t, rows[2].HasChildren())
	assert.True(t, rows[2].IsLast)
	assert.Equal(t, 1, rows[2].Depth)
}

func TestFlatten_NilShowsAll(t *testing.T) {
	rows := Flatten(sample(), nil)
	assert.Len(t, rows, 5)
	assert.Equal(t, 2, rows[3].Depth)
}

func TestExpandState_SurvivesReload(t *testing.T) {
	s := NewExpandState()
	s.Expand("c")

	reloaded := sample()
	assert.True(t, s.IsExpanded(Find(reloaded, "c").Scope.ID))
}
