package scope

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_LayersByDepth(t *testing.T) {
	tree := ParseOutline("1 A\n1.1 B\n1.1.1 C\n2 D\n2.1 E", NewResolver(), 0)

	layers := Plan(tree)
	require.Len(t, layers, 3)

	codes := func(layer []*Step) []string {
		var out []string
		for _, s := range layer {
			out = append(out, s.Node.Code)
		}
		return out
	}
	assert.Equal(t, []string{"1", "2"}, codes(layers[0]))
	assert.Equal(t, []string{"1.1", "2.1"}, codes(layers[1]))
	assert.Equal(t, []string{"1.1.1"}, codes(layers[2]))

	assert.Nil(t, layers[0][0].Parent)
	assert.Same(t, layers[0][0], layers[1][0].Parent)
}

func TestExecute_WritesParentsBeforeChildren(t *testing.T) {
	tree := ParseOutline("1 A\n1.1 B\n1.1.1 C\n2 D", NewResolver(), 0)

	written := map[string]string{} // id -> parent id
	var order []string
	n, err := Execute(context.Background(), Plan(tree), func(_ context.Context, s *Step, parentID *string) (string, error) {
		id := "id-" + s.Node.Code
		if parentID != nil {
			_, ok := written[*parentID]
			require.True(t, ok, "parent %s must already be written", *parentID)
			written[id] = *parentID
		} else {
			written[id] = ""
		}
		order = append(order, s.Node.Code)
		return id, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"1", "2", "1.1", "1.1.1"}, order)
	assert.Equal(t, "id-1.1", written["id-1.1.1"])
}

func TestExecute_StopsAtFirstError(t *testing.T) {
	tree := ParseOutline("1 A\n2 B\n3 C", NewResolver(), 0)
	boom := errors.New("disk full")

	calls := 0
	n, err := Execute(context.Background(), Plan(tree), func(_ context.Context, s *Step, _ *string) (string, error) {
		calls++
		if calls == 2 {
			return "", boom
		}
		return fmt.Sprintf("id-%d", calls), nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, calls)
}

func TestStep_ParentIDRequiresPersistedParent(t *testing.T) {
	parent := &Step{Node: &Node{Code: "1"}}
	child := &Step{Node: &Node{Code: "1.1"}, Parent: parent, Depth: 1}

	_, err := child.ParentID()
	require.Error(t, err)

	parent.ID = "p-1"
	id, err := child.ParentID()
	require.NoError(t, err)
	assert.Equal(t, "p-1", *id)
}

func TestPlan_AcyclicParentChains(t *testing.T) {
	primary, r := BuildRows([]string{"R row", "1 A", "a", "b", "2 B"})
	extended, _ := BuildRows([]string{"1 X", "x"})
	layers := Plan(Merge(primary, extended, r))

	for _, layer := range layers {
		for _, s := range layer {
			seen := map[*Step]bool{}
			for p := s; p != nil; p = p.Parent {
				require.False(t, seen[p], "cycle at %s", s.Node.Code)
				seen[p] = true
			}
			assert.Equal(t, s.Depth+1, len(seen))
		}
	}
}
