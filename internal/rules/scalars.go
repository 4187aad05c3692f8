package rules

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"fortio.org/safecast"
	"gopkg.in/yaml.v3"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/lint"
	"yamlcheck/internal/token"
)

// yaml11Bools are the extra boolean spellings of YAML 1.1 documents.
var yaml11Bools = []string{
	"y", "Y", "yes", "Yes", "YES", "n", "N", "no", "No", "NO",
	"on", "On", "ON", "off", "Off", "OFF",
}

// resolvesToString reports whether v written plain would load as a string.
func resolvesToString(v, version string) bool {
	if version == "1.1" && slices.Contains(yaml11Bools, v) {
		return false
	}
	n := yaml.Node{Kind: yaml.ScalarNode, Value: v}
	return n.ShortTag() == "!!str"
}

// canBePlain reports whether v can be written as a plain scalar without
// changing its content.
func canBePlain(v string, inFlow bool) bool {
	if v == "" || strings.TrimSpace(v) != v {
		return false
	}
	for _, r := range v {
		if r == '\n' || r == '\t' || !unicode.IsPrint(r) {
			return false
		}
	}
	switch v[0] {
	case '[', ']', '{', '}', ',', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		return false
	case '-', '?', ':':
		if len(v) == 1 || v[1] == ' ' {
			return false
		}
	}
	if strings.HasPrefix(v, "---") || strings.HasPrefix(v, "...") {
		return false
	}
	if strings.Contains(v, ": ") || strings.Contains(v, " #") || strings.HasSuffix(v, ":") {
		return false
	}
	return !inFlow || !strings.ContainsAny(v, ",[]{}")
}

func inFlow(ctx *lint.Context, id cst.NodeID) bool {
	for a := range ctx.Tree.Ancestors(id) {
		if ctx.Node(a).Kind.IsFlowCollection() {
			return true
		}
	}
	return false
}

func docVersion(ctx *lint.Context) string {
	if d := ctx.Node(ctx.Doc); d != nil {
		return d.Version
	}
	return ""
}

type plainScalarRule struct{}

func (plainScalarRule) Meta() lint.Meta {
	return lint.Meta{
		ID:          PlainScalarID,
		Description: "require or disallow plain style scalars",
		Category:    lint.CategoryStyle,
		Fixable:     true,
	}
}

func (plainScalarRule) Configure(opts lint.Options) (lint.Checker, error) {
	r := opts.Reader()
	style := r.Enum(0, "style", styleAlways, styleAlways, styleNever)
	var ignore []*regexp.Regexp
	for _, src := range r.Strings("ignorePatterns") {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, &lint.OptionError{Option: "ignorePatterns", Msg: err.Error()}
		}
		ignore = append(ignore, re)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	ignored := func(v string) bool {
		return slices.ContainsFunc(ignore, func(re *regexp.Regexp) bool { return re.MatchString(v) })
	}

	return lint.Stateless(func(ctx *lint.Context, id cst.NodeID, n *cst.Node) {
		if n.Has(cst.FlagEmpty) || n.Style.IsBlock() || n.Tag.Kind != token.Invalid || ignored(n.Value) {
			return
		}
		switch {
		case style == styleAlways && n.Style.IsQuoted():
			if !canBePlain(n.Value, inFlow(ctx, id)) || !resolvesToString(n.Value, docVersion(ctx)) {
				return
			}
			ctx.Report(lint.Report{
				Start:   n.Start,
				End:     n.End,
				Message: "Must use plain style scalar.",
				Fix:     replaceScalar(ctx, n, "unquote", n.Value),
			})
		case style == styleNever && n.Style == token.StylePlain:
			if !resolvesToString(n.Value, docVersion(ctx)) {
				return
			}
			ctx.Report(lint.Report{
				Start:   n.Start,
				End:     n.End,
				Message: "Must use quoted style scalar.",
				Fix:     replaceScalar(ctx, n, "quote", doubleQuote(n.Value)),
			})
		}
	}, cst.KindScalar), nil
}

type quotesRule struct{}

func (quotesRule) Meta() lint.Meta {
	return lint.Meta{
		ID:          QuotesID,
		Description: "enforce the consistent use of either double or single quotes",
		Category:    lint.CategoryStyle,
		Fixable:     true,
	}
}

func (quotesRule) Configure(opts lint.Options) (lint.Checker, error) {
	r := opts.Reader()
	prefer := r.Enum(-1, "prefer", "double", "double", "single")
	avoidEscape := r.Bool("avoidEscape", true)
	if err := r.Err(); err != nil {
		return nil, err
	}
	want, quote := token.StyleDoubleQuoted, `"`
	if prefer == "single" {
		want, quote = token.StyleSingleQuoted, "'"
	}

	return lint.Stateless(func(ctx *lint.Context, _ cst.NodeID, n *cst.Node) {
		if !n.Style.IsQuoted() || n.Style == want {
			return
		}
		if avoidEscape && strings.Contains(n.Value, quote) {
			return
		}
		var text string
		if want == token.StyleSingleQuoted {
			if strings.Contains(n.Text, `\`) {
				// escape-последовательности в одинарных кавычках не выразить
				return
			}
			text = "'" + strings.ReplaceAll(n.Value, "'", "''") + "'"
		} else {
			text = doubleQuote(n.Value)
		}
		ctx.Report(lint.Report{
			Start:   n.Start,
			End:     n.End,
			Message: "Strings must use " + prefer + "quote.",
			Fix:     replaceScalar(ctx, n, "requote", text),
		})
	}, cst.KindScalar), nil
}

var doubleEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

func doubleQuote(v string) string {
	return `"` + doubleEscaper.Replace(v) + `"`
}

// replaceScalar rewrites a single-line scalar. Multi-line ones get no fix.
func replaceScalar(ctx *lint.Context, n *cst.Node, title, text string) *diag.Fix {
	if n.Has(cst.FlagMultiline) {
		return nil
	}
	// свойства узла стоят перед ним и в замену не входят
	start := n.Start
	if size, err := safecast.Conv[uint32](len(n.Text)); err == nil && size <= n.End.Offset {
		start.Offset = n.End.Offset - size
	}
	return &diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{Span: ctx.Span(start, n.End), NewText: text}},
	}
}
