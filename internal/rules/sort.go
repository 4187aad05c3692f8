package rules

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/lint"
)

// sortOrder is the comparison shared by sort-keys and sort-sequence-values.
type sortOrder struct {
	desc          bool
	caseSensitive bool
	natural       bool
}

func readSortOrder(r *lint.Reader) sortOrder {
	o := sortOrder{
		desc:          r.Enum(0, "order", "asc", "asc", "desc") == "desc",
		caseSensitive: r.Bool("caseSensitive", true),
		natural:       r.Bool("natural", false),
	}
	return o
}

func (o sortOrder) compare(a, b string) int {
	if !o.caseSensitive {
		// Caser хранит состояние, между горутинами его не делим
		fold := cases.Fold()
		a, b = fold.String(a), fold.String(b)
	}
	var c int
	if o.natural {
		c = naturalCompare(a, b)
	} else {
		c = strings.Compare(a, b)
	}
	if o.desc {
		return -c
	}
	return c
}

// describe renders the order for messages: "natural insensitive ascending".
func (o sortOrder) describe() string {
	var parts []string
	if o.natural {
		parts = append(parts, "natural")
	}
	if !o.caseSensitive {
		parts = append(parts, "insensitive")
	}
	if o.desc {
		parts = append(parts, "descending")
	} else {
		parts = append(parts, "ascending")
	}
	return strings.Join(parts, " ")
}

// naturalCompare orders digit runs by numeric value, so "item2" < "item10".
func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		if isDigit(a[0]) && isDigit(b[0]) {
			da, ra := digitRun(a)
			db, rb := digitRun(b)
			ta, tb := strings.TrimLeft(da, "0"), strings.TrimLeft(db, "0")
			if len(ta) != len(tb) {
				return cmpInt(len(ta), len(tb))
			}
			if c := strings.Compare(ta, tb); c != 0 {
				return c
			}
			if len(da) != len(db) {
				return cmpInt(len(da), len(db))
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return cmpInt(int(a[0]), int(b[0]))
		}
		a, b = a[1:], b[1:]
	}
	return cmpInt(len(a), len(b))
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func digitRun(s string) (run, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// sortText is the string a node is compared by.
func sortText(ctx *lint.Context, n *cst.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case cst.KindScalar, cst.KindAlias:
		return n.Value
	}
	if int(n.End.Offset) <= len(ctx.File.Content) {
		return string(ctx.File.Content[n.Start.Offset:n.End.Offset])
	}
	return ""
}

type sortKeysRule struct{}

func (sortKeysRule) Meta() lint.Meta {
	return lint.Meta{
		ID:          SortKeysID,
		Description: "require mapping keys to be sorted",
		Category:    lint.CategoryStyle,
	}
}

func (sortKeysRule) Configure(opts lint.Options) (lint.Checker, error) {
	r := opts.Reader()
	order := readSortOrder(r)
	minKeys := r.Int(-1, "minKeys", 2, 2)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return lint.Stateless(func(ctx *lint.Context, _ cst.NodeID, n *cst.Node) {
		if n.Has(cst.FlagImplicitPair) {
			return
		}
		var keys []*cst.Node
		for _, id := range n.Children {
			if e := ctx.Node(id); e.Kind == cst.KindMappingEntry {
				keys = append(keys, ctx.Node(e.Key))
			}
		}
		if len(keys) < minKeys {
			return
		}
		for i := 1; i < len(keys); i++ {
			prev, cur := sortText(ctx, keys[i-1]), sortText(ctx, keys[i])
			if keys[i] == nil || order.compare(prev, cur) <= 0 {
				continue
			}
			ctx.Reportf(keys[i].Start, keys[i].End,
				"Expected mapping keys to be in %s order. '%s' should be before '%s'.", order.describe(), cur, prev)
		}
	}, cst.KindMapping, cst.KindFlowMapping), nil
}

type sortSequenceValuesRule struct{}

func (sortSequenceValuesRule) Meta() lint.Meta {
	return lint.Meta{
		ID:          SortSequenceValuesID,
		Description: "require sequence values to be sorted",
		Category:    lint.CategoryStyle,
	}
}

func (sortSequenceValuesRule) Configure(opts lint.Options) (lint.Checker, error) {
	r := opts.Reader()
	order := readSortOrder(r)
	minValues := r.Int(-1, "minValues", 2, 2)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return lint.Stateless(func(ctx *lint.Context, _ cst.NodeID, n *cst.Node) {
		values, ok := scalarElements(ctx, n)
		if !ok || len(values) < minValues {
			return
		}
		for i := 1; i < len(values); i++ {
			prev, cur := values[i-1].Value, values[i].Value
			if order.compare(prev, cur) <= 0 {
				continue
			}
			ctx.Report(lint.Report{
				Start:   values[i].Start,
				End:     values[i].End,
				Message: fmt.Sprintf("Expected sequence values to be in %s order. '%s' should be before '%s'.", order.describe(), cur, prev),
			})
		}
	}, cst.KindSequence, cst.KindFlowSequence), nil
}

// scalarElements returns the values of a sequence whose elements are all scalars.
func scalarElements(ctx *lint.Context, n *cst.Node) ([]*cst.Node, bool) {
	var out []*cst.Node
	for _, id := range n.Children {
		el := ctx.Node(id)
		if el.Kind == cst.KindSequenceItem {
			el = ctx.Node(el.ValueNode)
		}
		if el == nil || el.Kind != cst.KindScalar || el.Has(cst.FlagEmpty) {
			return nil, false
		}
		out = append(out, el)
	}
	return out, true
}
