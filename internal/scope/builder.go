package scope

import (
	"fmt"
	"strings"
)

// MaxTitleRunes bounds titles synthesized from free text.
const MaxTitleRunes = 200

// Builder accumulates candidate nodes from source rows. Every node it emits
// carries a code reserved through the Builder's Resolver.
type Builder struct {
	resolver    *Resolver
	tree        *Tree
	current     *Node
	standalones int
	order       int
}

// NewBuilder starts an empty tree. orderIndex values begin at startOrder.
func NewBuilder(r *Resolver, startOrder int) *Builder {
	return &Builder{resolver: r, tree: &Tree{}, order: startOrder}
}

// Tree returns the tree built so far.
func (b *Builder) Tree() *Tree {
	return b.tree
}

func (b *Builder) nextOrder() int {
	o := b.order
	b.order++
	return o
}

// AddRow classifies one scope cell. A cell whose first line is numbered opens
// a root section; any other cell becomes the next child of the open section,
// or a standalone "R<n>" root when no section is open yet. Blank cells are
// skipped.
func (b *Builder) AddRow(cell string) {
	lines := Lines(cell)
	if len(lines) == 0 {
		return
	}

	if raw, title, ok := Heading(lines[0]); ok {
		n := &Node{
			Code:       b.resolver.Reserve(raw),
			Title:      title,
			Body:       strings.Join(lines[1:], "\n"),
			OrderIndex: b.nextOrder(),
		}
		b.tree.Roots = append(b.tree.Roots, n)
		b.current = n
		return
	}

	text := strings.Join(lines, "\n")
	if b.current != nil {
		parent := b.current
		parent.Children = append(parent.Children, &Node{
			Code:       b.resolver.Reserve(fmt.Sprintf("%s.%d", parent.Code, len(parent.Children)+1)),
			Title:      truncateRunes(text, MaxTitleRunes),
			Body:       text,
			OrderIndex: b.nextOrder(),
		})
		return
	}
	b.tree.Roots = append(b.tree.Roots, b.standalone(text))
}

func (b *Builder) standalone(text string) *Node {
	b.standalones++
	return &Node{
		Code:       b.resolver.Reserve(fmt.Sprintf("R%d", b.standalones)),
		Title:      truncateRunes(text, MaxTitleRunes),
		Body:       text,
		OrderIndex: b.nextOrder(),
	}
}

// BuildRows parses a column of scope cells with a fresh Resolver.
func BuildRows(cells []string) (*Tree, *Resolver) {
	r := NewResolver()
	b := NewBuilder(r, 0)
	for _, c := range cells {
		b.AddRow(c)
	}
	return b.Tree(), r
}

// ParseOutline parses a free-text outline. Numbered lines open nodes and are
// nested under the nearest earlier node whose proposed code is a dotted
// prefix of theirs; unnumbered lines extend the body of the last opened node.
// Codes are reserved through r, so passing a Resolver seeded with an owner's
// existing codes keeps the result collision-free against them.
func ParseOutline(text string, r *Resolver, startOrder int) *Tree {
	b := NewBuilder(r, startOrder)
	byProposed := make(map[string]*Node)

	for _, line := range Lines(text) {
		raw, title, ok := Heading(line)
		if !ok {
			if b.current != nil {
				b.current.appendBody(line)
				continue
			}
			n := b.standalone(line)
			b.tree.Roots = append(b.tree.Roots, n)
			b.current = n
			continue
		}

		n := &Node{
			Code:       r.Reserve(raw),
			Title:      title,
			OrderIndex: b.nextOrder(),
		}
		if parent := nearestAncestor(byProposed, raw); parent != nil {
			parent.Children = append(parent.Children, n)
		} else {
			b.tree.Roots = append(b.tree.Roots, n)
		}
		byProposed[raw] = n
		b.current = n
	}
	return b.Tree()
}

func nearestAncestor(byProposed map[string]*Node, code string) *Node {
	for {
		i := strings.LastIndex(code, ".")
		if i < 0 {
			return nil
		}
		code = code[:i]
		if n, ok := byProposed[code]; ok {
			return n
		}
	}
}
