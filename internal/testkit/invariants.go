// Package testkit holds structural checks shared by the scanner, parser and
// fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

// CheckTokenInvariants verifies a complete token stream of file:
// 1) it ends with exactly one EOF
// 2) every token lies within the content and ends no earlier than it starts
// 3) no token starts before the previous one ended
func CheckTokenInvariants(file *source.File, toks []token.Token) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	for i, tok := range toks {
		if tok.Kind == token.EOF && i != len(toks)-1 {
			return fmt.Errorf("EOF at %d of %d tokens", i, len(toks))
		}
		if tok.End.Offset < tok.Start.Offset {
			return fmt.Errorf("token %d (%v) ends before it starts: %d < %d", i, tok.Kind, tok.End.Offset, tok.Start.Offset)
		}
		if tok.End.Offset > size {
			return fmt.Errorf("token %d (%v) ends beyond content: %d > %d", i, tok.Kind, tok.End.Offset, size)
		}
		if i > 0 && tok.Start.Offset < toks[i-1].End.Offset {
			return fmt.Errorf("token %d (%v) starts at %d, before previous end %d", i, tok.Kind, tok.Start.Offset, toks[i-1].End.Offset)
		}
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		return fmt.Errorf("stream ends with %v, not EOF", last.Kind)
	}
	return nil
}

// CheckTreeInvariants verifies the ownership shape of a CST:
// 1) documents have no parent
// 2) every child points back at the node that owns it
// 3) no node is reachable twice
// 4) node offsets stay within the content
func CheckTreeInvariants(tree *cst.Tree) error {
	if tree == nil || tree.File == nil {
		return fmt.Errorf("nil tree or file")
	}
	size, err := safecast.Conv[uint32](len(tree.File.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	seen := make(map[cst.NodeID]struct{}, tree.Len())
	for _, doc := range tree.Docs {
		d := tree.Node(doc)
		if d == nil {
			return fmt.Errorf("missing document node %d", doc)
		}
		if d.Kind != cst.KindDocument {
			return fmt.Errorf("document slot %d holds %v", doc, d.Kind)
		}
		if d.Parent.IsValid() {
			return fmt.Errorf("document %d has parent %d", doc, d.Parent)
		}
		var walkErr error
		tree.Walk(doc, func(id cst.NodeID, n *cst.Node) bool {
			if walkErr != nil {
				return false
			}
			if _, dup := seen[id]; dup {
				walkErr = fmt.Errorf("node %d (%v) is owned twice", id, n.Kind)
				return false
			}
			seen[id] = struct{}{}
			if n.Start.Offset > size || n.End.Offset > size {
				walkErr = fmt.Errorf("node %d (%v) %d-%d outside content of %d bytes", id, n.Kind, n.Start.Offset, n.End.Offset, size)
				return false
			}
			for _, c := range n.Children {
				child := tree.Node(c)
				if child == nil {
					walkErr = fmt.Errorf("node %d (%v) has missing child %d", id, n.Kind, c)
					return false
				}
				if child.Parent != id {
					walkErr = fmt.Errorf("child %d (%v) of %d points at parent %d", c, child.Kind, id, child.Parent)
					return false
				}
			}
			return true
		})
		if walkErr != nil {
			return walkErr
		}
	}
	return nil
}
