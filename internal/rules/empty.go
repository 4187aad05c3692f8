package rules

import (
	"yamlcheck/internal/cst"
	"yamlcheck/internal/lint"
)

type noEmptyKeyRule struct{}

func (noEmptyKeyRule) Meta() lint.Meta {
	return lint.Meta{
		ID:           NoEmptyKeyID,
		Description:  "disallow empty mapping keys",
		Category:     lint.CategoryPractices,
		DefaultLevel: lint.LevelError,
	}
}

func (noEmptyKeyRule) Configure(opts lint.Options) (lint.Checker, error) {
	if err := opts.Reader().Err(); err != nil {
		return nil, err
	}
	return lint.Stateless(func(ctx *lint.Context, _ cst.NodeID, n *cst.Node) {
		key := ctx.Node(n.Key)
		if key != nil && !key.IsEmptyScalar() {
			return
		}
		at := n.Start
		if key != nil {
			at = key.Start
		} else if n.HasIndicator() {
			at = n.Indicator.End
		}
		ctx.Reportf(at, at, "Empty mapping keys are forbidden.")
	}, cst.KindMappingEntry), nil
}

type noEmptyMappingValueRule struct{}

func (noEmptyMappingValueRule) Meta() lint.Meta {
	return lint.Meta{
		ID:           NoEmptyMappingValueID,
		Description:  "disallow empty mapping values",
		Category:     lint.CategoryPractices,
		DefaultLevel: lint.LevelOff,
	}
}

func (noEmptyMappingValueRule) Configure(opts lint.Options) (lint.Checker, error) {
	if err := opts.Reader().Err(); err != nil {
		return nil, err
	}
	return lint.Stateless(func(ctx *lint.Context, _ cst.NodeID, n *cst.Node) {
		val := ctx.Node(n.ValueNode)
		if val != nil && !val.IsEmptyScalar() {
			return
		}
		at := n.End
		if n.HasColon() {
			at = n.Colon.Start
		}
		if val != nil {
			at = val.Start
		}
		ctx.Reportf(at, at, "Empty mapping values are forbidden.")
	}, cst.KindMappingEntry), nil
}
