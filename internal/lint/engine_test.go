package lint_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/lint"
	"yamlcheck/internal/parser"
	"yamlcheck/internal/source"
)

// fakeRule reports every node of the given kinds.
type fakeRule struct {
	id        string
	kinds     []cst.Kind
	panicOn   cst.Kind
	configure func(lint.Options) error
	finish    bool
}

func (r fakeRule) Meta() lint.Meta { return lint.Meta{ID: r.id, DefaultLevel: lint.LevelWarn} }

func (r fakeRule) Configure(opts lint.Options) (lint.Checker, error) {
	if r.configure != nil {
		if err := r.configure(opts); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r fakeRule) Kinds() []cst.Kind { return r.kinds }

func (r fakeRule) NewVisitor() lint.Visitor { return &fakeVisitor{rule: r} }

type fakeVisitor struct {
	rule fakeRule
	seen int
}

func (v *fakeVisitor) Visit(ctx *lint.Context, _ cst.NodeID, n *cst.Node) {
	if n.Kind == v.rule.panicOn {
		panic("boom")
	}
	v.seen++
	ctx.Reportf(n.Start, n.End, "%s at %s", v.rule.id, n.Kind)
}

func (v *fakeVisitor) Finish(ctx *lint.Context) {
	if v.rule.finish {
		doc := ctx.Node(ctx.Doc)
		ctx.Reportf(doc.Start, doc.Start, "%s saw %d", v.rule.id, v.seen)
	}
}

func tree(t *testing.T, src string) *cst.Tree {
	t.Helper()
	fs := source.NewFileSet()
	tr, err := parser.ParseFile(fs.Get(fs.AddVirtual("t.yaml", []byte(src))), parser.Options{})
	require.NoError(t, err)
	return tr
}

func registry(rules ...lint.Rule) *lint.Registry {
	reg := lint.NewRegistry()
	reg.MustRegister(rules...)
	return reg
}

func TestUnknownRuleRejected(t *testing.T) {
	reg := registry(fakeRule{id: "known"})
	_, err := lint.NewEngine(reg, lint.RuleSet{"known": {Level: lint.LevelError}, "nope": {Level: lint.LevelOff}})
	var cerr *lint.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "nope", cerr.Rule)
	assert.ErrorIs(t, err, lint.ErrUnknownRule)
}

func TestBadOptionRejected(t *testing.T) {
	strict := fakeRule{id: "strict", configure: func(o lint.Options) error {
		r := o.Reader()
		r.Int(0, "width", 2, 1)
		return r.Err()
	}}
	_, err := lint.NewEngine(registry(strict), lint.RuleSet{
		"strict": {Level: lint.LevelError, Options: lint.Options{Named: map[string]any{"width": "wide"}}},
	})
	var cerr *lint.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, lint.ErrBadOption)
	assert.Equal(t, "width", cerr.Option)
}

func TestDisabledRuleIsNeverConfigured(t *testing.T) {
	broken := fakeRule{id: "broken", configure: func(lint.Options) error { panic("must not run") }}
	eng, err := lint.NewEngine(registry(broken, fakeRule{id: "ok", kinds: []cst.Kind{cst.KindScalar}}), lint.RuleSet{
		"broken": {Level: lint.LevelOff},
		"ok":     {Level: lint.LevelWarn},
	})
	require.NoError(t, err)
	assert.False(t, eng.Enabled("broken"))
	assert.Equal(t, []string{"ok"}, eng.RuleIDs())

	got := eng.Lint(tree(t, "a: 1\n"))
	require.Len(t, got, 2)
	for _, d := range got {
		assert.Equal(t, "ok", d.Rule)
		assert.Equal(t, diag.SevWarning, d.Severity)
	}
}

func TestOrderingByPositionThenRule(t *testing.T) {
	reg := registry(
		fakeRule{id: "b-rule", kinds: []cst.Kind{cst.KindScalar}},
		fakeRule{id: "a-rule", kinds: []cst.Kind{cst.KindScalar}},
	)
	eng, err := lint.NewEngine(reg, lint.RuleSet{"a-rule": {Level: lint.LevelError}, "b-rule": {Level: lint.LevelWarn}})
	require.NoError(t, err)

	got := eng.Lint(tree(t, "x: y\n"))
	var labels []string
	for _, d := range got {
		labels = append(labels, d.Rule+"@"+d.Message)
	}
	assert.Equal(t, []string{
		"a-rule@a-rule at Scalar",
		"b-rule@b-rule at Scalar",
		"a-rule@a-rule at Scalar",
		"b-rule@b-rule at Scalar",
	}, labels)
	assert.Equal(t, uint32(0), got[0].Start.Col)
	assert.Equal(t, uint32(3), got[2].Start.Col)

	assert.Equal(t, got, eng.Lint(tree(t, "x: y\n")), "lint must be deterministic")
}

func TestPanickingRuleIsDetached(t *testing.T) {
	reg := registry(
		fakeRule{id: "crash", kinds: []cst.Kind{cst.KindScalar}, panicOn: cst.KindScalar},
		fakeRule{id: "fine", kinds: []cst.Kind{cst.KindMappingEntry}},
	)
	eng, err := lint.NewEngine(reg, lint.RuleSet{"crash": {Level: lint.LevelWarn}, "fine": {Level: lint.LevelWarn}})
	require.NoError(t, err)

	got := eng.Lint(tree(t, "a: 1\nb: 2\n"))
	var panics, fine int
	for _, d := range got {
		switch {
		case d.Code == diag.LintRulePanic:
			panics++
			assert.Equal(t, "crash", d.Rule)
		case d.Rule == "fine":
			fine++
		}
	}
	assert.Equal(t, 1, panics)
	assert.Equal(t, 2, fine)
}

func TestFinishRunsPerDocument(t *testing.T) {
	reg := registry(fakeRule{id: "count", kinds: []cst.Kind{cst.KindScalar}, finish: true})
	eng, err := lint.NewEngine(reg, lint.RuleSet{"count": {Level: lint.LevelWarn}})
	require.NoError(t, err)

	var summaries []string
	for _, d := range eng.Lint(tree(t, "a: 1\n---\n- x\n- y\n- z\n")) {
		if d.Start.Col == 0 && (d.Message == "count saw 2" || d.Message == "count saw 3") {
			summaries = append(summaries, d.Message)
		}
	}
	assert.Equal(t, []string{"count saw 2", "count saw 3"}, summaries)
}

func TestConfigErrorMessage(t *testing.T) {
	err := &lint.ConfigError{Rule: "indent", Option: "width", Msg: "must be at least 1, got 0", Err: lint.ErrBadOption}
	assert.Equal(t, `rule "indent": malformed option: option "width": must be at least 1, got 0`, err.Error())
	assert.True(t, errors.Is(err, lint.ErrBadOption))
}
