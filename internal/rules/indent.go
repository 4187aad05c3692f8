package rules

import (
	"fmt"
	"strings"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/lint"
	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

type indentRule struct{}

func (indentRule) Meta() lint.Meta {
	return lint.Meta{
		ID:           IndentID,
		Description:  "enforce consistent indentation",
		Category:     lint.CategoryLayout,
		DefaultLevel: lint.LevelError,
		Fixable:      true,
	}
}

func (indentRule) Configure(opts lint.Options) (lint.Checker, error) {
	r := opts.Reader()
	c := &indentChecker{
		width:     r.Int(0, "width", 2, 1),
		seqIndent: r.Bool("indentBlockSequences", true),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return lint.Stateless(c.visit,
		cst.KindMappingEntry, cst.KindSequenceItem,
		cst.KindScalar, cst.KindAlias,
		cst.KindFlowMapping, cst.KindFlowSequence,
	), nil
}

type indentChecker struct {
	width     int
	seqIndent bool
}

func (c *indentChecker) visit(ctx *lint.Context, _ cst.NodeID, n *cst.Node) {
	switch n.Kind {
	case cst.KindMappingEntry, cst.KindSequenceItem:
		parent := ctx.Node(n.Parent)
		if parent == nil || !parent.Kind.IsBlockCollection() {
			c.checkFlowChild(ctx, n)
			return
		}
		if !n.Has(cst.FlagStartsLine) {
			return
		}
		if want, ok := c.collectionColumn(ctx, parent); ok {
			c.expect(ctx, n, want)
		}
	case cst.KindScalar, cst.KindAlias:
		if n.Has(cst.FlagRecovered) || leadsEntry(ctx, n) {
			return
		}
		if c.checkFlowChild(ctx, n) {
			return
		}
		if n.Has(cst.FlagStartsLine) && !n.Has(cst.FlagEmpty) {
			if want, ok := c.expectedChild(ctx, n); ok {
				c.expect(ctx, n, want)
			}
		}
		if n.Style.IsBlock() {
			c.checkBlockScalar(ctx, n)
		}
	case cst.KindFlowMapping, cst.KindFlowSequence:
		if !c.checkFlowChild(ctx, n) && n.Has(cst.FlagStartsLine) && !n.Has(cst.FlagRecovered) && !leadsEntry(ctx, n) {
			if want, ok := c.expectedChild(ctx, n); ok {
				c.expect(ctx, n, want)
			}
		}
		c.checkFlowClose(ctx, n)
	}
}

// leadsEntry reports the implicit key of a block entry; the entry itself is checked.
func leadsEntry(ctx *lint.Context, n *cst.Node) bool {
	p := ctx.Node(n.Parent)
	return p != nil && p.Kind == cst.KindMappingEntry && p.Start.Offset == n.Start.Offset
}

// collectionColumn is where the entries or items of a block collection belong.
func (c *indentChecker) collectionColumn(ctx *lint.Context, coll *cst.Node) (int, bool) {
	if coll.Has(cst.FlagRecovered) {
		return 0, false
	}
	if !coll.Has(cst.FlagStartsLine) {
		// компактная запись "- a: 1": колонку задаёт первая строка
		return coll.Column(), true
	}
	return c.expectedChild(ctx, coll)
}

// expectedChild is the column of a node that starts its own line below its owner.
func (c *indentChecker) expectedChild(ctx *lint.Context, n *cst.Node) (int, bool) {
	owner := ctx.Node(n.Parent)
	if owner == nil {
		return 0, false
	}
	switch owner.Kind {
	case cst.KindDocument:
		return 0, true
	case cst.KindSequenceItem:
		return owner.Column() + c.width, true
	case cst.KindMappingEntry:
		if p := ctx.Node(owner.Parent); p == nil || !p.Kind.IsBlockCollection() {
			return 0, false
		}
		if n.Kind == cst.KindSequence && !c.seqIndent && !owner.Has(cst.FlagExplicitKey) {
			return owner.Column(), true
		}
		return owner.Column() + c.width, true
	}
	return 0, false
}

// checkFlowChild handles nodes directly inside a flow collection. It reports
// whether n was one.
func (c *indentChecker) checkFlowChild(ctx *lint.Context, n *cst.Node) bool {
	flow := c.enclosingFlow(ctx, n)
	if flow == nil {
		return false
	}
	if n.Has(cst.FlagStartsLine) && !n.Has(cst.FlagEmpty) {
		c.expect(ctx, n, flow.Indent+c.width)
	}
	return true
}

// enclosingFlow returns the flow collection n is an element of. Pair
// wrappers and entries in between are looked through; a node sharing its
// start with the element that holds it is not checked twice.
func (c *indentChecker) enclosingFlow(ctx *lint.Context, n *cst.Node) *cst.Node {
	p := ctx.Node(n.Parent)
	if p == nil {
		return nil
	}
	if p.Kind == cst.KindMappingEntry {
		if p.Start.Offset == n.Start.Offset {
			return nil
		}
		p = ctx.Node(p.Parent)
		if p == nil || !p.Kind.IsFlowCollection() {
			return nil
		}
		if p.Has(cst.FlagImplicitPair) {
			return ctx.Node(p.Parent)
		}
		return p
	}
	if !p.Kind.IsFlowCollection() {
		return nil
	}
	if p.Has(cst.FlagImplicitPair) {
		// проверяется сама обёртка пары
		return nil
	}
	return p
}

func (c *indentChecker) checkFlowClose(ctx *lint.Context, n *cst.Node) {
	if n.Has(cst.FlagImplicitPair) || !n.Close.Kind.IsFlowEnd() {
		return
	}
	l, ok := lineOf(ctx.Tree, n.Close.Start.Line)
	if !ok || l.Span.End != n.Close.Start.Offset {
		return
	}
	if found := int(n.Close.Start.Col); found != n.Indent {
		c.report(ctx, l, n.Close.Start, n.Indent, found)
	}
}

func (c *indentChecker) expect(ctx *lint.Context, n *cst.Node, want int) {
	found := n.Column()
	if found == want {
		return
	}
	l, ok := lineOf(ctx.Tree, n.Start.Line)
	if !ok {
		return
	}
	c.report(ctx, l, n.Start, want, found)
}

func (c *indentChecker) report(ctx *lint.Context, l cst.Line, at source.Pos, want, found int) {
	ctx.Report(lint.Report{
		Start:   lineStart(l),
		End:     at,
		Message: fmt.Sprintf("Expected indentation of %s but found %d.", spaces(want), found),
		Fix:     reindent(l, want),
	})
}

// checkBlockScalar verifies the content indentation of a literal or folded
// scalar written without an indentation indicator.
func (c *indentChecker) checkBlockScalar(ctx *lint.Context, n *cst.Node) {
	if hasIndentIndicator(n) {
		return
	}
	owner := ctx.Node(n.Parent)
	if owner == nil || owner.Kind == cst.KindDocument {
		return
	}
	want := owner.Column() + c.width
	if p := ctx.Node(owner.Parent); owner.Kind == cst.KindMappingEntry && (p == nil || !p.Kind.IsBlockCollection()) {
		return
	}

	var content []cst.Line
	for _, l := range linesBetween(ctx.Tree, n.Start.Line+1, n.End.Line) {
		if l.InScalar {
			content = append(content, l)
		}
	}
	if len(content) == 0 || content[0].Width == want {
		return
	}
	first := content[0]
	shift := want - first.Width
	fix := &diag.Fix{Title: fmt.Sprintf("indent block content with %s", spaces(want))}
	for _, l := range content {
		w := max(l.Width+shift, want)
		fix.Edits = append(fix.Edits, diag.FixEdit{Span: l.Span, NewText: strings.Repeat(" ", w)})
	}
	ctx.Report(lint.Report{
		Start:   lineStart(first),
		End:     indentEnd(first),
		Message: fmt.Sprintf("Expected indentation of %s but found %d.", spaces(want), first.Width),
		Fix:     fix,
	})
}

// hasIndentIndicator looks for a digit in the "|2-" header of a block scalar.
func hasIndentIndicator(n *cst.Node) bool {
	header, _, _ := strings.Cut(n.Text, "\n")
	if i := strings.Index(header, " #"); i >= 0 {
		header = header[:i]
	}
	ind := "|"
	if n.Style == token.StyleFolded {
		ind = ">"
	}
	i := strings.LastIndex(header, ind)
	if i < 0 {
		return false
	}
	return strings.ContainsAny(header[i+1:], "123456789")
}
