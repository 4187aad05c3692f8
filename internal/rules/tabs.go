package rules

import (
	"yamlcheck/internal/cst"
	"yamlcheck/internal/lint"
)

type noTabIndentRule struct{}

func (noTabIndentRule) Meta() lint.Meta {
	return lint.Meta{
		ID:           NoTabIndentID,
		Description:  "disallow tabs in indentation",
		Category:     lint.CategoryLayout,
		DefaultLevel: lint.LevelError,
	}
}

func (noTabIndentRule) Configure(opts lint.Options) (lint.Checker, error) {
	if err := opts.Reader().Err(); err != nil {
		return nil, err
	}
	return tabChecker{}, nil
}

// tabChecker visits no nodes: it reads the line table once the walk is over.
type tabChecker struct{}

func (tabChecker) Kinds() []cst.Kind        { return nil }
func (tabChecker) NewVisitor() lint.Visitor { return tabVisitor{} }

type tabVisitor struct{}

func (tabVisitor) Visit(*lint.Context, cst.NodeID, *cst.Node) {}

func (tabVisitor) Finish(ctx *lint.Context) {
	for _, l := range ctx.Tree.LinesOf(ctx.Doc) {
		if !l.HasTab {
			continue
		}
		ctx.Report(lint.Report{
			Start:   lineStart(l),
			End:     indentEnd(l),
			Message: "Unexpected tab character in indentation.",
		})
	}
}
