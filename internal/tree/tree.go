// Package tree models how a persisted scope forest is browsed: nesting,
// expand/collapse state, ancestor-preserving search and flattening for
// line-oriented displays.
package tree

import (
	"sort"
	"strings"

	"github.com/alexanderramin/trackscope/internal/domain"
)

// Node is a scope node with its ordered children.
type Node struct {
	Scope    *domain.ScopeNode
	Children []*Node
}

// Build nests a flat node list. Nodes whose parent is not in the list are
// treated as roots. Siblings are ordered by orderIndex, then code.
func Build(nodes []*domain.ScopeNode) []*Node {
	byID := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = &Node{Scope: n}
	}

	var roots []*Node
	for _, n := range nodes {
		tn := byID[n.ID]
		if n.ParentID != nil {
			if parent, ok := byID[*n.ParentID]; ok && parent != tn {
				parent.Children = append(parent.Children, tn)
				continue
			}
		}
		roots = append(roots, tn)
	}

	sortSiblings(roots)
	for _, tn := range byID {
		sortSiblings(tn.Children)
	}
	return roots
}

func sortSiblings(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Scope, nodes[j].Scope
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		return a.Code < b.Code
	})
}

// Walk visits nodes depth-first in display order.
func Walk(roots []*Node, fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
}

// Count returns the number of nodes in the forest.
func Count(roots []*Node) int {
	n := 0
	Walk(roots, func(*Node, int) { n++ })
	return n
}

// Find returns the node with the given scope id.
func Find(roots []*Node, id string) *Node {
	var found *Node
	Walk(roots, func(n *Node, _ int) {
		if found == nil && n.Scope.ID == id {
			found = n
		}
	})
	return found
}

// Filter keeps nodes whose code, title or body contains query
// (case-insensitive), plus every ancestor of such a node. A matching node
// keeps only those children that survive filtering themselves. The input is
// not modified. An empty query returns roots unchanged.
func Filter(roots []*Node, query string) []*Node {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return roots
	}
	return filter(roots, q)
}

func filter(nodes []*Node, q string) []*Node {
	var out []*Node
	for _, n := range nodes {
		children := filter(n.Children, q)
		if matches(n.Scope, q) || len(children) > 0 {
			out = append(out, &Node{Scope: n.Scope, Children: children})
		}
	}
	return out
}

func matches(s *domain.ScopeNode, q string) bool {
	for _, field := range []string{s.Code, s.Title, s.TitleAlt, s.Body, s.BodyAlt} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
