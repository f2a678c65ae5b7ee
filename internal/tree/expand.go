package tree

// ExpandState is the set of expanded node ids. It is kept apart from the
// data so reloading the tree does not reset what the user opened.
type ExpandState struct {
	open map[string]struct{}
}

func NewExpandState() *ExpandState {
	return &ExpandState{open: make(map[string]struct{})}
}

func (s *ExpandState) IsExpanded(id string) bool {
	_, ok := s.open[id]
	return ok
}

func (s *ExpandState) Expand(id string) {
	s.open[id] = struct{}{}
}

func (s *ExpandState) Collapse(id string) {
	delete(s.open, id)
}

// Toggle flips id and reports whether it is now expanded.
func (s *ExpandState) Toggle(id string) bool {
	if s.IsExpanded(id) {
		s.Collapse(id)
		return false
	}
	s.Expand(id)
	return true
}

// ExpandAll marks every node in the forest as expanded.
func (s *ExpandState) ExpandAll(roots []*Node) {
	Walk(roots, func(n *Node, _ int) { s.Expand(n.Scope.ID) })
}

// CollapseAll empties the set.
func (s *ExpandState) CollapseAll() {
	s.open = make(map[string]struct{})
}

func (s *ExpandState) Len() int {
	return len(s.open)
}

// Row is one visible line of a flattened forest.
type Row struct {
	Node     *Node
	Depth    int
	IsLast   bool
	Expanded bool
}

// HasChildren reports whether the row's node has children.
func (r Row) HasChildren() bool {
	return len(r.Node.Children) > 0
}

// Flatten lists the visible rows: roots always, children only under expanded
// parents. A nil isOpen shows everything.
func Flatten(roots []*Node, isOpen func(id string) bool) []Row {
	var rows []Row
	var visit func(nodes []*Node, depth int)
	visit = func(nodes []*Node, depth int) {
		for i, n := range nodes {
			open := isOpen == nil || isOpen(n.Scope.ID)
			rows = append(rows, Row{
				Node:     n,
				Depth:    depth,
				IsLast:   i == len(nodes)-1,
				Expanded: open && len(n.Children) > 0,
			})
			if open {
				visit(n.Children, depth+1)
			}
		}
	}
	visit(roots, 0)
	return rows
}
