package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/lexer"
	"yamlcheck/internal/parser"
	"yamlcheck/internal/source"
	"yamlcheck/internal/testkit"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func parse(t *testing.T, src string) (*cst.Tree, *testReporter, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.yaml", []byte(src)))
	rep := &testReporter{}
	tree, err := parser.ParseFile(file, parser.Options{Reporter: rep})
	return tree, rep, err
}

func parseClean(t *testing.T, src string) *cst.Tree {
	t.Helper()
	tree, rep, err := parse(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.diagnostics)
	}
	return tree
}

// render prints the tree compactly: block collections as {..} and [..],
// flow ones with an f prefix, nulls as ~ and recovered nodes with !.
func render(tr *cst.Tree, id cst.NodeID) string {
	n := tr.Node(id)
	if n == nil {
		return "~"
	}
	var s string
	switch n.Kind {
	case cst.KindScalar:
		if n.Has(cst.FlagEmpty) {
			s = "~"
		} else {
			s = n.Value
		}
	case cst.KindAlias:
		s = "*" + n.Value
	case cst.KindMapping, cst.KindFlowMapping, cst.KindSequence, cst.KindFlowSequence:
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			if tr.Node(c).Kind != cst.KindComment {
				parts = append(parts, render(tr, c))
			}
		}
		lb, rb := "[", "]"
		if n.Kind.IsMapping() {
			lb, rb = "{", "}"
		}
		if n.Kind.IsFlowCollection() {
			lb = "f" + lb
		}
		s = lb + strings.Join(parts, ", ") + rb
	case cst.KindMappingEntry:
		s = render(tr, n.Key) + ": " + render(tr, n.ValueNode) + extras(tr, n)
	case cst.KindSequenceItem, cst.KindDocument:
		s = render(tr, n.ValueNode) + extras(tr, n)
	}
	if n.Has(cst.FlagRecovered) {
		s = "!" + s
	}
	return s
}

func extras(tr *cst.Tree, n *cst.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		if c == n.Key || c == n.ValueNode || tr.Node(c).Kind == cst.KindComment {
			continue
		}
		b.WriteString(" " + render(tr, c))
	}
	return b.String()
}

func renderDocs(tr *cst.Tree) []string {
	out := make([]string, 0, len(tr.Docs))
	for _, d := range tr.Docs {
		out = append(out, render(tr, d))
	}
	return out
}

func TestParseStructure(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"mapping", "a: 1\nb:\n  - x\n  - y\nc: {d: e}\n", "{a: 1, b: [x, y], c: f{d: e}}"},
		{"indentless sequence", "a:\n- x\n- y\nb: 1\n", "{a: [x, y], b: 1}"},
		{"compact nesting", "- - a\n  - b\n- c: 1\n  d: 2\n", "[[a, b], {c: 1, d: 2}]"},
		{"explicit key", "? a\n: 1\n", "{a: 1}"},
		{"empty key", ": value\n", "{~: value}"},
		{"empty value", "a:\nb: 2\n", "{a: ~, b: 2}"},
		{"flow pairs", "[a: 1, b]\n", "f[f{a: 1}, b]"},
		{"nested flow", "{a: [1, {b: c}], d: e}\n", "f{a: f[1, f{b: c}], d: e}"},
		{"multiline flow", "a: [\n  1,\n  2\n]\n", "{a: f[1, 2]}"},
		{"aliases", "a: &x 1\nb: *x\n", "{a: 1, b: *x}"},
		{"root scalar", "hello\n", "hello"},
		{"empty stream", "", "~"},
		{"comments only", "# one\n# two\n", "~"},
		{"tab in indentation", "a:\n\tb: 1\n", "{a: {b: 1}}"},
		{"quoted keys", "'a b': \"c\\td\"\n", "{a b: c\td}"},
		{"deep dedent", "a:\n  b:\n    c: 1\nd: 2\n", "{a: {b: {c: 1}}, d: 2}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseClean(t, tt.src)
			got := renderDocs(tree)
			if diff := cmp.Diff([]string{tt.want}, got); diff != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlainContinuation(t *testing.T) {
	tree := parseClean(t, "a: one\n  two\n\n  three\nb: 2\n")
	if diff := cmp.Diff([]string{"{a: one two\nthree, b: 2}"}, renderDocs(tree)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockScalar(t *testing.T) {
	tree := parseClean(t, "a: |\n  line1\n  line2\nb: >-\n  one\n  two\nc: 3\n")
	if diff := cmp.Diff([]string{"{a: line1\nline2\n, b: one two, c: 3}"}, renderDocs(tree)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	var inScalar []uint32
	for _, l := range tree.Lines {
		if l.InScalar {
			inScalar = append(inScalar, l.Number)
		}
	}
	if diff := cmp.Diff([]uint32{1, 2, 4, 5}, inScalar); diff != "" {
		t.Fatalf("block scalar lines (-want +got):\n%s", diff)
	}
}

func TestDocuments(t *testing.T) {
	tree := parseClean(t, "%YAML 1.1\n---\na: 1\n...\n--- b\n")
	if diff := cmp.Diff([]string{"{a: 1}", "b"}, renderDocs(tree)); diff != "" {
		t.Fatalf("docs mismatch (-want +got):\n%s", diff)
	}
	first := tree.Node(tree.Docs[0])
	if !first.Has(cst.FlagExplicitStart) || !first.Has(cst.FlagExplicitEnd) {
		t.Errorf("first document flags = %b", first.Flags)
	}
	if first.Version != "1.1" || len(first.Directives) != 1 {
		t.Errorf("first document version %q directives %v", first.Version, first.Directives)
	}
	if v := tree.Node(tree.Docs[1]).Version; v != parser.DefaultYAMLVersion {
		t.Errorf("second document version = %q", v)
	}
}

func TestProperties(t *testing.T) {
	tree := parseClean(t, "a: !!map\n  b: 1\nc: &k\n  - x\n")
	root := tree.Node(tree.Node(tree.Docs[0]).ValueNode)
	a := tree.Node(tree.Node(root.Children[0]).ValueNode)
	if a.Kind != cst.KindMapping || a.Tag.Text != "!!map" {
		t.Errorf("a value = %v tag %q", a.Kind, a.Tag.Text)
	}
	c := tree.Node(tree.Node(root.Children[1]).ValueNode)
	if c.Kind != cst.KindSequence || c.Anchor.Text != "&k" {
		t.Errorf("c value = %v anchor %q", c.Kind, c.Anchor.Text)
	}
}

func TestPositionsAndParents(t *testing.T) {
	tree := parseClean(t, "list:\n  - name: x\n    tags: [a, b]\n")
	for id, n := range tree.All() {
		for _, c := range n.Children {
			if tree.Node(c).Parent != id {
				t.Fatalf("child %d of %d has parent %d", c, id, tree.Node(c).Parent)
			}
		}
		if n.Kind != cst.KindDocument && n.Start.Offset > n.End.Offset {
			t.Fatalf("node %d (%v) has inverted span", id, n.Kind)
		}
	}

	root := tree.Node(tree.Node(tree.Docs[0]).ValueNode)
	seq := tree.Node(tree.Node(root.Children[0]).ValueNode)
	item := tree.Node(seq.Children[0])
	if item.Column() != 2 || !item.HasIndicator() || !item.Has(cst.FlagStartsLine) {
		t.Errorf("item column %d indicator %v flags %b", item.Column(), item.HasIndicator(), item.Flags)
	}
	inner := tree.Node(item.ValueNode)
	if inner.Kind != cst.KindMapping || inner.Column() != 4 || inner.Has(cst.FlagStartsLine) {
		t.Errorf("compact mapping kind %v column %d flags %b", inner.Kind, inner.Column(), inner.Flags)
	}
	tags := tree.Node(tree.Node(inner.Children[1]).ValueNode)
	if tags.Start.Line != 2 || tags.End.Line != 2 || tags.Close.Text != "]" {
		t.Errorf("flow span %+v-%+v", tags.Start, tags.End)
	}
}

func TestRecoveryReportsOnce(t *testing.T) {
	var b strings.Builder
	for i := range 50 {
		fmt.Fprintf(&b, "k%d: v%d\n", i, i)
		if i == 24 {
			b.WriteString(" - oops\n")
		}
	}
	tree, rep, err := parse(t, b.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]diag.Code{diag.SynMisalignedSequence}, rep.codes()); diff != "" {
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
	root := tree.Node(tree.Node(tree.Docs[0]).ValueNode)
	if len(root.Children) != 50 {
		t.Fatalf("mapping kept %d entries, want 50", len(root.Children))
	}
	entry := tree.Node(root.Children[24])
	if got := render(tree, root.Children[24]); got != "k24: v24 ![oops]" {
		t.Fatalf("recovered entry = %q (children %v)", got, entry.Children)
	}
}

func TestRecoveryReopensClosedBlocks(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		extra string
		want  string
	}{
		{"sequence", "k%d:\n  - a%d\n", " - oops\n  - b\n", "k24: [a24, b] ![oops]"},
		{"mapping", "k%d:\n  sub: v%d\n", " - oops\n  other: x\n", "k24: {sub: v24, other: x} ![oops]"},
		{"nested content", "k%d:\n  - a%d\n", " - oops:\n     deep: 1\n  - b\n", "k24: [a24, b] ![{oops: {deep: 1}}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			for i := range 50 {
				fmt.Fprintf(&b, tt.entry, i, i)
				if i == 24 {
					b.WriteString(tt.extra)
				}
			}
			tree, rep, err := parse(t, b.String())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff([]diag.Code{diag.SynMisalignedSequence}, rep.codes()); diff != "" {
				t.Fatalf("diagnostics (-want +got):\n%s", diff)
			}
			root := tree.Node(tree.Node(tree.Docs[0]).ValueNode)
			if len(root.Children) != 50 {
				t.Fatalf("mapping kept %d entries, want 50", len(root.Children))
			}
			if got := render(tree, root.Children[24]); got != tt.want {
				t.Fatalf("recovered entry = %q, want %q", got, tt.want)
			}
			if got := render(tree, root.Children[25]); got == "" || strings.Contains(got, "!") {
				t.Fatalf("next entry = %q", got)
			}
			if err := testkit.CheckTreeInvariants(tree); err != nil {
				t.Fatalf("recovered tree: %v", err)
			}
		})
	}
}

func TestRecoverableErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []diag.Code
		tree string
	}{
		{"nested mapping value", "a: b: c\nd: 1\n", []diag.Code{diag.SynNestedMappingValue}, "{a: ~, d: 1}"},
		{"sequence after key", "a: - b\n", []diag.Code{diag.SynUnexpectedToken}, "{a: ~}"},
		{"over-indented key", "a: 1\n  b: 2\nc: 3\n", []diag.Code{diag.SynBadIndentation}, "{a: 1 !{b: 2}, c: 3}"},
		{"stray value", "a: 1\nb\nc: 3\n", []diag.Code{diag.SynBadIndentation}, "{a: 1 !b, c: 3}"},
		{"mismatched flow end", "a: [1, 2}\n", []diag.Code{diag.SynMismatchedFlowEnd}, "{a: f[1, 2]}"},
		{"missing comma", "a: [1, 2 [3]]\n", []diag.Code{diag.SynExpectComma}, "{a: f[1, 2, f[3]]}"},
		{"duplicate anchor", "a: &x &y 1\n", []diag.Code{diag.SynDuplicateProperty}, "{a: 1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, rep, err := parse(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, rep.codes()); diff != "" {
				t.Fatalf("diagnostics (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{tt.tree}, renderDocs(tree)); diff != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", diff)
			}
			if err := testkit.CheckTreeInvariants(tree); err != nil {
				t.Fatalf("recovered tree: %v", err)
			}
		})
	}
}

func TestUnterminatedFlowIsFatal(t *testing.T) {
	tree, _, err := parse(t, "a: [1, 2\nb: 3\n")
	var perr *parser.ParseError
	if !errors.As(err, &perr) || !errors.Is(err, parser.ErrUnterminatedFlow) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Pos.Line != 0 || perr.Pos.Col != 3 {
		t.Fatalf("error position = %+v", perr.Pos)
	}
	if tree == nil || len(tree.Docs) != 1 {
		t.Fatalf("partial tree missing")
	}
}

func TestInvalidEncodingStopsEarly(t *testing.T) {
	tree, _, err := parse(t, "a: 1\nb: \xff\n")
	if !errors.Is(err, lexer.ErrInvalidEncoding) {
		t.Fatalf("expected encoding error, got %v", err)
	}
	if got := renderDocs(tree); len(got) != 1 || !strings.HasPrefix(got[0], "{a: 1") {
		t.Fatalf("partial tree = %v", got)
	}
}

func TestMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.yaml", []byte("a: b: c\nd: e: f\ng: h: i\n")))
	rep := &testReporter{}
	if _, err := parser.ParseFile(file, parser.Options{Reporter: rep, MaxErrors: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.diagnostics) != 2 {
		t.Fatalf("reported %d diagnostics, want 2", len(rep.diagnostics))
	}
}
