package scope

import "fmt"

// ReprefixMarker is prepended to extended-tree codes that collide with the
// primary tree during Merge.
const ReprefixMarker = "S"

// Resolver hands out codes that are unique within one owner. A Resolver must
// not be shared between owners.
type Resolver struct {
	used map[string]struct{}
}

// NewResolver returns a Resolver with the given codes already reserved.
func NewResolver(reserved ...string) *Resolver {
	r := &Resolver{used: make(map[string]struct{}, len(reserved))}
	for _, c := range reserved {
		r.used[c] = struct{}{}
	}
	return r
}

// Has reports whether code is already reserved.
func (r *Resolver) Has(code string) bool {
	_, ok := r.used[code]
	return ok
}

// Len returns the number of reserved codes.
func (r *Resolver) Len() int {
	return len(r.used)
}

// Reserve claims proposed, or the first free "<proposed>_<n>" for n = 1, 2, ...
func (r *Resolver) Reserve(proposed string) string {
	code := proposed
	for n := 1; r.Has(code); n++ {
		code = fmt.Sprintf("%s_%d", proposed, n)
	}
	r.used[code] = struct{}{}
	return code
}

// Merge appends the extended tree to primary. r must hold every code of the
// primary tree. Extended roots that collide are re-prefixed with
// ReprefixMarker until free; their descendants are renumbered as
// "<parent>.<position>" and the extended nodes get orderIndex values after the
// primary tree's. The extended tree's nodes are modified in place.
func Merge(primary, extended *Tree, r *Resolver) *Tree {
	merged := &Tree{Roots: append([]*Node(nil), primary.Roots...)}
	if extended == nil || len(extended.Roots) == 0 {
		return merged
	}

	for _, root := range extended.Roots {
		code := root.Code
		for r.Has(code) {
			code = ReprefixMarker + code
		}
		root.Code = r.Reserve(code)
		renumberChildren(root, r)
		merged.Roots = append(merged.Roots, root)
	}

	next := primary.NextOrder()
	extended.Walk(func(n, _ *Node, _ int) {
		n.OrderIndex = next
		next++
	})
	return merged
}

func renumberChildren(parent *Node, r *Resolver) {
	for i, child := range parent.Children {
		child.Code = r.Reserve(fmt.Sprintf("%s.%d", parent.Code, i+1))
		renumberChildren(child, r)
	}
}
