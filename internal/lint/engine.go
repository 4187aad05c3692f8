// Package lint is the rule engine: it resolves a rule set against a
// registry once, then walks each document in a single pre-order pass and
// hands every node to the rules interested in its kind.
package lint

import (
	"errors"
	"slices"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
)

type active struct {
	id      string
	level   Level
	checker Checker
}

// Engine is immutable after NewEngine and safe for concurrent Lint calls.
type Engine struct {
	rules []active
	// dispatch[kind] lists indices into rules; disabled rules never appear.
	dispatch [cst.KindCount][]int
}

// NewEngine resolves set against reg. Unknown ids and rejected options fail
// with *ConfigError. Rules at LevelOff are left out entirely: they are not
// configured and never dispatched.
func NewEngine(reg *Registry, set RuleSet) (*Engine, error) {
	e := &Engine{}
	for _, id := range set.IDs() {
		rc := set[id]
		rule, ok := reg.Lookup(id)
		if !ok {
			return nil, &ConfigError{Rule: id, Err: ErrUnknownRule}
		}
		if rc.Level == LevelOff {
			continue
		}
		checker, err := rule.Configure(rc.Options)
		if err != nil {
			return nil, configError(id, err)
		}
		idx := len(e.rules)
		e.rules = append(e.rules, active{id: id, level: rc.Level, checker: checker})
		for _, k := range checker.Kinds() {
			if k < cst.KindCount && !slices.Contains(e.dispatch[k], idx) {
				e.dispatch[k] = append(e.dispatch[k], idx)
			}
		}
	}
	return e, nil
}

func configError(id string, err error) error {
	var oe *OptionError
	if errors.As(err, &oe) {
		return &ConfigError{Rule: id, Option: oe.Option, Msg: oe.Msg, Err: ErrBadOption}
	}
	return &ConfigError{Rule: id, Msg: err.Error(), Err: ErrBadOption}
}

// Enabled reports whether the rule takes part in runs.
func (e *Engine) Enabled(id string) bool {
	return slices.ContainsFunc(e.rules, func(a active) bool { return a.id == id })
}

// RuleIDs returns the enabled rules in dispatch order.
func (e *Engine) RuleIDs() []string {
	out := make([]string, len(e.rules))
	for i, a := range e.rules {
		out[i] = a.id
	}
	return out
}

// Lint runs the enabled rules over every document of tree and returns the
// diagnostics ordered by position, then rule id.
func (e *Engine) Lint(tree *cst.Tree) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, doc := range tree.Docs {
		out = e.lintDocument(tree, doc, out)
	}
	slices.SortStableFunc(out, diag.Compare)
	return out
}

func (e *Engine) lintDocument(tree *cst.Tree, doc cst.NodeID, out []diag.Diagnostic) []diag.Diagnostic {
	if len(e.rules) == 0 {
		return out
	}
	ctx := &Context{Tree: tree, File: tree.File, Doc: doc, out: out}
	docStart := tree.Node(doc).Start

	visitors := make([]Visitor, len(e.rules))
	detached := make([]bool, len(e.rules))
	for i := range e.rules {
		ctx.rule = &e.rules[i]
		detached[i] = !guard(ctx, docStart, func() { visitors[i] = e.rules[i].checker.NewVisitor() })
	}

	tree.Walk(doc, func(id cst.NodeID, n *cst.Node) bool {
		for _, i := range e.dispatch[n.Kind] {
			if detached[i] {
				continue
			}
			ctx.rule = &e.rules[i]
			v := visitors[i]
			detached[i] = !guard(ctx, n.Start, func() { v.Visit(ctx, id, n) })
		}
		return true
	})

	for i, v := range visitors {
		f, ok := v.(Finisher)
		if !ok || detached[i] {
			continue
		}
		ctx.rule = &e.rules[i]
		guard(ctx, docStart, func() { f.Finish(ctx) })
	}
	return ctx.out
}

// guard runs fn and turns a panic into a diagnostic for the current rule.
func guard(ctx *Context, at source.Pos, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ctx.panicked(at, r)
			ok = false
		}
	}()
	fn()
	return true
}
