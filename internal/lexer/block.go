package lexer

import (
	"yamlcheck/internal/diag"
	"yamlcheck/internal/token"
)

// blockScalar tracks a literal or folded scalar whose content lines follow the header.
type blockScalar struct {
	style    token.Style
	parent   int // indentation of the owning node, -1 at document level
	explicit int // indentation indicator from the header, 0 if absent
	indent   int
	detected bool
	active   bool // header line finished, content lines are being scanned
}

func (lx *Lexer) scanBlockHeader() {
	m := lx.cursor.Mark()
	style := token.StyleLiteral
	if lx.cursor.Bump() == '>' {
		style = token.StyleFolded
	}
	explicit, chomp := 0, false
header:
	for range 2 {
		b := lx.cursor.Peek()
		switch {
		case b >= '1' && b <= '9' && explicit == 0:
			explicit = int(b - '0')
		case (b == '+' || b == '-') && !chomp:
			chomp = true
		default:
			break header
		}
		lx.cursor.Bump()
	}
	tok := lx.tok(token.Scalar, m)
	tok.Style = style
	lx.content(tok)

	rest := lx.cursor.Mark()
	lx.skipInlineSpace()
	if b := lx.cursor.Peek(); !lx.cursor.EOF() && b != '\n' && b != '#' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.bumpRune()
		}
		lx.report(diag.LexBadBlockHeader, diag.SevError, lx.cursor.SpanFrom(rest), "invalid block scalar header")
	}
	lx.cursor.Reset(rest)

	parent := lx.parentCol
	if parent < 0 {
		parent = lx.lineIndent - 1
	}
	lx.block = &blockScalar{style: style, parent: parent, explicit: explicit}
}

// scanBlockLine handles one line while a block scalar is open. Lines indented
// less than the content indentation end the scalar and are rescanned normally.
func (lx *Lexer) scanBlockLine() {
	b := lx.block
	m := lx.cursor.Mark()
	width := 0
	for !lx.cursor.EOF() {
		c := lx.cursor.Peek()
		if c != ' ' && c != '\t' {
			break
		}
		lx.cursor.Bump()
		width++
	}
	if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
		lx.lineStart = false
		return
	}

	if !b.detected {
		switch {
		case b.explicit > 0:
			b.indent = max(b.parent+b.explicit, 0)
		case width > b.parent:
			b.indent = width
		default:
			b.indent = width + 1 // пустой скаляр: строка уже не его
		}
		b.detected = true
	}
	lx.cursor.Reset(m)
	if width < b.indent || b.indent == 0 && lx.markerAt(0) {
		lx.block = nil
		lx.scanLineStart()
		return
	}

	im := lx.cursor.Mark()
	var flags token.Flags
	for range b.indent {
		if lx.cursor.Bump() == '\t' {
			flags |= token.FlagTabInIndent
		}
	}
	indent := lx.tok(token.Indent, im)
	indent.Flags |= flags
	lx.lineIndent = b.indent
	indent.Indent = b.indent
	lx.push(indent)

	tm := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.bumpRune()
	}
	text := lx.tok(token.BlockText, tm)
	text.Style = b.style
	lx.push(text)
	lx.lineStart = false
}
