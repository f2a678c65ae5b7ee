package contract

import (
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/tree"
)

// ScopeStats summarizes one track's scope nodes.
type ScopeStats struct {
	TrackID     string                    `json:"track_id"`
	Total       int                       `json:"total"`
	AvgProgress float64                   `json:"avg_progress"`
	ByStatus    map[domain.NodeStatus]int `json:"by_status"`
}

// ScopeTreeNode is the nested read model of one node and its subtree.
type ScopeTreeNode struct {
	*domain.ScopeNode
	Children []*ScopeTreeNode `json:"children"`
}

// ImportResult reports the nodes appended by an incremental text import.
type ImportResult struct {
	TrackID string              `json:"track_id"`
	Created []*domain.ScopeNode `json:"created"`
}

// OrderItem assigns a new orderIndex to one node.
type OrderItem struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
}

// NewScopeTree converts a browsed forest into its nested read model.
func NewScopeTree(roots []*tree.Node) []*ScopeTreeNode {
	out := make([]*ScopeTreeNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, &ScopeTreeNode{ScopeNode: r.Scope, Children: NewScopeTree(r.Children)})
	}
	return out
}
