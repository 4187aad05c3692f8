package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"yamlcheck/internal/cst"
)

var nodeFlagNames = []struct {
	flag cst.Flags
	name string
}{
	{cst.FlagExplicitKey, "explicit-key"},
	{cst.FlagRecovered, "recovered"},
	{cst.FlagIndentless, "indentless"},
	{cst.FlagImplicitPair, "implicit-pair"},
	{cst.FlagEmpty, "empty"},
	{cst.FlagExplicitStart, "explicit-start"},
	{cst.FlagExplicitEnd, "explicit-end"},
	{cst.FlagMultiline, "multiline"},
}

// FormatTree prints every document of tree, one node per line, children
// indented under their parent:
//
//	Document 1:1-2:5 version=1.2
//	  Mapping 1:1-2:5 indent=0
//	    MappingEntry 1:1-1:5 indent=0
//	      Scalar plain "a" 1:1-1:2 indent=0
func FormatTree(w io.Writer, tree *cst.Tree) error {
	type frame struct {
		id    cst.NodeID
		depth int
	}
	var b strings.Builder
	for _, doc := range tree.Docs {
		stack := []frame{{doc, 0}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := tree.Node(f.id)
			if n == nil {
				continue
			}
			b.WriteString(strings.Repeat("  ", f.depth))
			describeNode(&b, n)
			b.WriteByte('\n')
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{n.Children[i], f.depth + 1})
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func describeNode(b *strings.Builder, n *cst.Node) {
	b.WriteString(n.Kind.String())
	switch n.Kind {
	case cst.KindScalar:
		fmt.Fprintf(b, " %s %q", n.Style.String(), n.Value)
	case cst.KindAlias:
		fmt.Fprintf(b, " *%s", n.Value)
	case cst.KindComment:
		fmt.Fprintf(b, " %q", n.Text)
	}
	s, e := n.Start.LineCol(), n.End.LineCol()
	fmt.Fprintf(b, " %d:%d-%d:%d", s.Line, s.Col, e.Line, e.Col)
	if n.Kind == cst.KindDocument {
		fmt.Fprintf(b, " version=%s", n.Version)
	} else {
		fmt.Fprintf(b, " indent=%d", n.Indent)
	}
	if n.Anchor.Text != "" {
		b.WriteString(" " + n.Anchor.Text)
	}
	if n.Tag.Text != "" {
		b.WriteString(" " + n.Tag.Text)
	}
	var flags []string
	for _, f := range nodeFlagNames {
		if n.Has(f.flag) {
			flags = append(flags, f.name)
		}
	}
	if len(flags) > 0 {
		fmt.Fprintf(b, " [%s]", strings.Join(flags, ", "))
	}
}
