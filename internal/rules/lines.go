package rules

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
)

// lineOf finds the indentation record of a line. Blank lines have none.
func lineOf(t *cst.Tree, number uint32) (cst.Line, bool) {
	i, ok := slices.BinarySearchFunc(t.Lines, number, func(l cst.Line, n uint32) int {
		return cmp.Compare(l.Number, n)
	})
	if !ok {
		return cst.Line{}, false
	}
	return t.Lines[i], true
}

// linesBetween returns the line records numbered from..to inclusive.
func linesBetween(t *cst.Tree, from, to uint32) []cst.Line {
	lo, _ := slices.BinarySearchFunc(t.Lines, from, func(l cst.Line, n uint32) int {
		return cmp.Compare(l.Number, n)
	})
	hi := lo
	for hi < len(t.Lines) && t.Lines[hi].Number <= to {
		hi++
	}
	return t.Lines[lo:hi]
}

func lineStart(l cst.Line) source.Pos {
	return source.Pos{Offset: l.Span.Start, Line: l.Number, Col: 0}
}

func indentEnd(l cst.Line) source.Pos {
	col, err := safecast.Conv[uint32](l.Width)
	if err != nil {
		col = 0
	}
	return source.Pos{Offset: l.Span.End, Line: l.Number, Col: col}
}

// reindent replaces the leading whitespace of l with width spaces.
func reindent(l cst.Line, width int) *diag.Fix {
	return &diag.Fix{
		Title: fmt.Sprintf("indent with %s", spaces(width)),
		Edits: []diag.FixEdit{{Span: l.Span, NewText: strings.Repeat(" ", width)}},
	}
}

func spaces(n int) string {
	if n == 1 {
		return "1 space"
	}
	return fmt.Sprintf("%d spaces", n)
}
