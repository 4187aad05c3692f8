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

const (
	styleNever  = "never"
	styleAlways = "always"
)

// indicatorStyle reads the shared "never"/"always" option of the indicator rules.
func indicatorStyle(r *lint.Reader) string {
	return r.Enum(0, "position", styleNever, styleNever, styleAlways)
}

type questionIndicatorRule struct{}

func (questionIndicatorRule) Meta() lint.Meta {
	return lint.Meta{
		ID:          QuestionIndicatorID,
		Description: "enforce consistent line breaks after the '?' indicator",
		Category:    lint.CategoryLayout,
		Fixable:     true,
	}
}

func (questionIndicatorRule) Configure(opts lint.Options) (lint.Checker, error) {
	r := opts.Reader()
	style := indicatorStyle(r)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return lint.Stateless(func(ctx *lint.Context, _ cst.NodeID, n *cst.Node) {
		if !n.Has(cst.FlagExplicitKey) || !isBlockChild(ctx, n) {
			return
		}
		checkIndicator(ctx, "question", style, n.Indicator, ctx.Node(n.Key))
	}, cst.KindMappingEntry), nil
}

type colonIndicatorRule struct{}

func (colonIndicatorRule) Meta() lint.Meta {
	return lint.Meta{
		ID:          ColonIndicatorID,
		Description: "enforce consistent line breaks after the ':' indicator",
		Category:    lint.CategoryLayout,
		Fixable:     true,
	}
}

func (colonIndicatorRule) Configure(opts lint.Options) (lint.Checker, error) {
	r := opts.Reader()
	style := indicatorStyle(r)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return lint.Stateless(func(ctx *lint.Context, _ cst.NodeID, n *cst.Node) {
		if !n.HasColon() || !isBlockChild(ctx, n) {
			return
		}
		val := ctx.Node(n.ValueNode)
		if val == nil || val.Kind.IsBlockCollection() {
			// блочная коллекция не может начинаться на строке с ':'
			return
		}
		checkIndicator(ctx, "colon", style, n.Colon, val)
	}, cst.KindMappingEntry), nil
}

type hyphenIndicatorRule struct{}

func (hyphenIndicatorRule) Meta() lint.Meta {
	return lint.Meta{
		ID:          HyphenIndicatorID,
		Description: "enforce consistent line breaks after the '-' indicator",
		Category:    lint.CategoryLayout,
		Fixable:     true,
	}
}

func (hyphenIndicatorRule) Configure(opts lint.Options) (lint.Checker, error) {
	r := opts.Reader()
	style := indicatorStyle(r)
	nested := r.Enum(-1, "nestedHyphen", styleAlways, styleNever, styleAlways)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return lint.Stateless(func(ctx *lint.Context, _ cst.NodeID, n *cst.Node) {
		val := ctx.Node(n.ValueNode)
		if val == nil || !n.HasIndicator() {
			return
		}
		s := style
		if val.Kind == cst.KindSequence {
			s = nested
		}
		checkIndicator(ctx, "hyphen", s, n.Indicator, val)
	}, cst.KindSequenceItem), nil
}

func isBlockChild(ctx *lint.Context, n *cst.Node) bool {
	p := ctx.Node(n.Parent)
	return p != nil && p.Kind == cst.KindMapping
}

// contentStart is where a node begins including its anchor and tag, which
// may sit on the indicator's line while the node itself starts below.
func contentStart(n *cst.Node) source.Pos {
	start := n.Start
	for _, t := range []token.Token{n.Anchor, n.Tag} {
		if t.Kind != token.Invalid && t.Start.Offset < start.Offset {
			start = t.Start
		}
	}
	return start
}

func checkIndicator(ctx *lint.Context, name, style string, ind token.Token, content *cst.Node) {
	if content == nil || ind.Kind == token.Invalid {
		return
	}
	if content.Has(cst.FlagEmpty) && content.Anchor.Kind == token.Invalid && content.Tag.Kind == token.Invalid {
		return
	}
	start := contentStart(content)
	broken := start.Line != ind.End.Line
	gap := source.SpanOf(ctx.File.ID, ind.End, start)

	switch {
	case style == styleNever && broken:
		if hasCommentBetween(ctx, gap) {
			ctx.Reportf(ind.Start, ind.End, "Unexpected line break after this %s indicator.", name)
			return
		}
		ctx.Report(lint.Report{
			Start:   ind.Start,
			End:     ind.End,
			Message: fmt.Sprintf("Unexpected line break after this %s indicator.", name),
			Fix: &diag.Fix{
				Title: "join with the indicator line",
				Edits: []diag.FixEdit{{Span: gap, NewText: " "}},
			},
		})
	case style == styleAlways && !broken:
		indent := 0
		if l, ok := lineOf(ctx.Tree, ind.Start.Line); ok {
			indent = l.Width
		}
		ctx.Report(lint.Report{
			Start:   ind.Start,
			End:     ind.End,
			Message: fmt.Sprintf("Expected a line break after this %s indicator.", name),
			Fix: &diag.Fix{
				Title: "break the line after the indicator",
				Edits: []diag.FixEdit{{Span: gap, NewText: "\n" + strings.Repeat(" ", indent+2)}},
			},
		})
	}
}

// hasCommentBetween reports a comment inside the gap; joining the lines
// would swallow the content into it.
func hasCommentBetween(ctx *lint.Context, gap source.Span) bool {
	if int(gap.End) > len(ctx.File.Content) {
		return false
	}
	return strings.Contains(string(ctx.File.Content[gap.Start:gap.End]), "#")
}
