package cst

import (
	"iter"

	"yamlcheck/internal/source"
)

// Line describes the indentation run of one non-blank source line.
type Line struct {
	Number   uint32 // zero-based
	Span     source.Span
	Width    int
	Text     string
	HasTab   bool
	InFlow   bool
	InScalar bool // content line of a block scalar
}

// Tree is the CST of one source file: one or more documents.
type Tree struct {
	File  *source.File
	Docs  []NodeID
	Lines []Line
	nodes *Arena[Node]
}

func NewTree(file *source.File) *Tree {
	capHint := uint(len(file.Content) / 8)
	return &Tree{
		File:  file,
		nodes: NewArena[Node](capHint),
	}
}

// New allocates a detached node.
func (t *Tree) New(n Node) NodeID {
	return NodeID(t.nodes.Allocate(n))
}

// Node returns the node for id, or nil for NoNodeID.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() int {
	return int(t.nodes.Len())
}

// AppendChild links child under parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	p, c := t.Node(parent), t.Node(child)
	if p == nil || c == nil {
		return
	}
	c.Parent = parent
	p.Children = append(p.Children, child)
}

// ReplaceChild swaps old for repl in parent's children and relinks repl.
func (t *Tree) ReplaceChild(parent, old, repl NodeID) {
	p := t.Node(parent)
	if p == nil {
		return
	}
	for i, id := range p.Children {
		if id == old {
			p.Children[i] = repl
			t.Node(repl).Parent = parent
			return
		}
	}
}

// Parent returns the parent of id.
func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

// Ancestors yields the parents of id from nearest to the document.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
			if !yield(p) {
				return
			}
		}
	}
}

// Document returns the document containing id.
func (t *Tree) Document(id NodeID) NodeID {
	for ; id.IsValid(); id = t.Parent(id) {
		if t.Node(id).Kind == KindDocument {
			return id
		}
	}
	return NoNodeID
}

// Walk visits the subtree rooted at root in pre-order. Returning false from
// visit skips the node's children. The walk keeps its own stack.
func (t *Tree) Walk(root NodeID, visit func(id NodeID, n *Node) bool) {
	if !root.IsValid() {
		return
	}
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.Node(id)
		if n == nil || !visit(id, n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// All yields every node of every document in pre-order.
func (t *Tree) All() iter.Seq2[NodeID, *Node] {
	return func(yield func(NodeID, *Node) bool) {
		stopped := false
		for _, doc := range t.Docs {
			t.Walk(doc, func(id NodeID, n *Node) bool {
				if stopped {
					return false
				}
				if !yield(id, n) {
					stopped = true
					return false
				}
				return true
			})
			if stopped {
				return
			}
		}
	}
}

// LinesOf returns the line records that fall inside the document's span.
func (t *Tree) LinesOf(doc NodeID) []Line {
	n := t.Node(doc)
	if n == nil {
		return nil
	}
	var out []Line
	for _, l := range t.Lines {
		if l.Number >= n.Start.Line && l.Number <= n.End.Line {
			out = append(out, l)
		}
	}
	return out
}

// FinishSpans widens every node to cover its children. Children are always
// allocated after their parents, so one backward pass suffices.
func (t *Tree) FinishSpans() {
	for i := t.nodes.Len(); i >= 1; i-- {
		n := t.nodes.Get(i)
		if n.End.Offset < n.Start.Offset {
			n.End = n.Start
		}
		n.Span = source.SpanOf(t.File.ID, n.Start, n.End)
		p := t.Node(n.Parent)
		if p == nil {
			continue
		}
		if n.End.Offset > p.End.Offset {
			p.End = n.End
		}
		if n.Start.Offset < p.Start.Offset {
			p.Start = n.Start
		}
	}
}
