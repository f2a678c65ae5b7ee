package scope

import (
	"context"
	"fmt"
	"sort"
)

// Step is one node awaiting persistence. ID is filled in once the node has
// been written; children read their parent's ID from Parent.
type Step struct {
	Node   *Node
	Parent *Step
	Depth  int
	ID     string
}

// ParentID returns the persisted ID of the step's parent, or nil for roots.
func (s *Step) ParentID() (*string, error) {
	if s.Parent == nil {
		return nil, nil
	}
	if s.Parent.ID == "" {
		return nil, fmt.Errorf("scope node %s: parent %s not persisted yet", s.Node.Code, s.Parent.Node.Code)
	}
	id := s.Parent.ID
	return &id, nil
}

// Plan groups a tree into depth layers. Layer 0 holds the roots; layer k+1
// holds the children of layer k. Each layer is sorted by orderIndex so the
// write order matches discovery order.
func Plan(t *Tree) [][]*Step {
	var layers [][]*Step
	steps := make(map[*Node]*Step)

	t.Walk(func(n, parent *Node, depth int) {
		s := &Step{Node: n, Depth: depth}
		if parent != nil {
			s.Parent = steps[parent]
		}
		steps[n] = s
		for len(layers) <= depth {
			layers = append(layers, nil)
		}
		layers[depth] = append(layers[depth], s)
	})

	for _, layer := range layers {
		sort.SliceStable(layer, func(i, j int) bool {
			return layer[i].Node.OrderIndex < layer[j].Node.OrderIndex
		})
	}
	return layers
}

// PersistFunc writes one step and returns the generated identity.
type PersistFunc func(ctx context.Context, s *Step, parentID *string) (string, error)

// Execute writes every layer in order, so a node is written only after its
// parent has an ID. It stops at the first error and returns how many nodes
// were written before it.
func Execute(ctx context.Context, layers [][]*Step, persist PersistFunc) (int, error) {
	written := 0
	for _, layer := range layers {
		for _, s := range layer {
			parentID, err := s.ParentID()
			if err != nil {
				return written, err
			}
			id, err := persist(ctx, s, parentID)
			if err != nil {
				return written, fmt.Errorf("persisting scope node %s: %w", s.Node.Code, err)
			}
			s.ID = id
			written++
		}
	}
	return written, nil
}
