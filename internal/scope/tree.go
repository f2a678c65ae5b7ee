package scope

// Node is a candidate scope node before persistence.
type Node struct {
	Code       string
	Title      string
	Body       string
	OrderIndex int
	Children   []*Node
}

func (n *Node) appendBody(line string) {
	if n.Body == "" {
		n.Body = line
		return
	}
	n.Body += "\n" + line
}

// Tree is an ordered forest of candidate nodes for one owner.
type Tree struct {
	Roots []*Node
}

// Walk visits nodes depth-first in discovery order.
func (t *Tree) Walk(fn func(n, parent *Node, depth int)) {
	if t == nil {
		return
	}
	var visit func(n, parent *Node, depth int)
	visit = func(n, parent *Node, depth int) {
		fn(n, parent, depth)
		for _, c := range n.Children {
			visit(c, n, depth+1)
		}
	}
	for _, r := range t.Roots {
		visit(r, nil, 0)
	}
}

// Len counts every node in the tree.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node, *Node, int) { count++ })
	return count
}

// Codes lists node codes in discovery order.
func (t *Tree) Codes() []string {
	var codes []string
	t.Walk(func(n, _ *Node, _ int) { codes = append(codes, n.Code) })
	return codes
}

// NextOrder returns one past the largest orderIndex in the tree, or 0 when empty.
func (t *Tree) NextOrder() int {
	next := 0
	t.Walk(func(n, _ *Node, _ int) {
		if n.OrderIndex >= next {
			next = n.OrderIndex + 1
		}
	})
	return next
}
