package lint

import (
	"fmt"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
)

// Context is handed to visitors. It is valid for one document walk.
type Context struct {
	Tree *cst.Tree
	File *source.File
	Doc  cst.NodeID

	rule *active
	out  []diag.Diagnostic
}

// Report is one finding of the current rule.
type Report struct {
	Start   source.Pos
	End     source.Pos
	Message string
	Fix     *diag.Fix
}

func (c *Context) RuleID() string { return c.rule.id }

func (c *Context) Node(id cst.NodeID) *cst.Node { return c.Tree.Node(id) }

// Span converts a position range of the current file to a span.
func (c *Context) Span(start, end source.Pos) source.Span {
	return source.SpanOf(c.File.ID, start, end)
}

// Report records a finding with the rule's configured severity.
func (c *Context) Report(r Report) {
	d := diag.Diagnostic{
		Severity: c.rule.level.Severity(),
		Code:     diag.LintRuleViolation,
		Rule:     c.rule.id,
		Message:  r.Message,
		Primary:  c.Span(r.Start, r.End),
		Start:    r.Start,
		End:      r.End,
	}
	if r.Fix != nil {
		d.Fixes = []diag.Fix{*r.Fix}
	}
	c.out = append(c.out, d)
}

func (c *Context) Reportf(start, end source.Pos, format string, args ...any) {
	c.Report(Report{Start: start, End: end, Message: fmt.Sprintf(format, args...)})
}

func (c *Context) panicked(at source.Pos, r any) {
	c.out = append(c.out, diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.LintRulePanic,
		Rule:     c.rule.id,
		Message:  fmt.Sprintf("rule %s failed: %v", c.rule.id, r),
		Primary:  c.Span(at, at),
		Start:    at,
		End:      at,
	})
}
