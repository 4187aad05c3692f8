package lexer

import (
	"unicode/utf8"

	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

func (lx *Lexer) bumpRune() {
	if lx.cursor.EOF() {
		return
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf {
		lx.cursor.Bump()
		return
	}
	_, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
	lx.cursor.BumpN(uint32(sz))
}

func (lx *Lexer) skipInlineSpace() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b != ' ' && b != '\t' {
			return
		}
		lx.cursor.Bump()
	}
}

// separatedAt reports whether the byte k positions ahead is blank, a line
// break, or the end of input.
func (lx *Lexer) separatedAt(k uint32) bool {
	if lx.cursor.Off+k >= lx.cursor.Limit {
		return true
	}
	return isBlankOrBreak(lx.cursor.PeekAt(k))
}

// colonAt reports whether the ':' k bytes ahead is a mapping value indicator.
func (lx *Lexer) colonAt(k uint32) bool {
	if lx.separatedAt(k + 1) {
		return true
	}
	if lx.flowDepth == 0 {
		return false
	}
	if isFlowIndicator(lx.cursor.PeekAt(k + 1)) {
		return true
	}
	// JSON-like key: "a":1 inside a flow collection
	prev := lx.prev
	adjacent := prev.Span.End == lx.cursor.Off+k && prev.Span.End != 0
	return adjacent && (prev.Kind == token.Scalar && prev.Style.IsQuoted() || prev.Kind.IsFlowEnd())
}

// commentAhead reports whether blanks at the cursor are followed by '#'.
func (lx *Lexer) commentAhead() bool {
	k := uint32(0)
	for lx.cursor.Off+k < lx.cursor.Limit {
		switch lx.cursor.PeekAt(k) {
		case ' ', '\t':
			k++
		case '#':
			return k > 0
		default:
			return false
		}
	}
	return false
}

// markerAt reports a document marker starting k bytes ahead.
func (lx *Lexer) markerAt(k uint32) bool {
	if lx.cursor.Off+k+3 > lx.cursor.Limit {
		return false
	}
	c := lx.file.Content[lx.cursor.Off+k : lx.cursor.Off+k+3]
	if string(c) != "---" && string(c) != "..." {
		return false
	}
	return lx.separatedAt(k + 3)
}

func (lx *Lexer) scanComment() {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.bumpRune()
	}
	lx.push(lx.trimRight(lx.tok(token.Comment, m)))
}

// scanName scans an anchor or alias: the indicator and a name up to the next blank.
func (lx *Lexer) scanName(kind token.Kind) token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isBlankOrBreak(b) || isFlowIndicator(b) || isControl(b) {
			break
		}
		lx.bumpRune()
	}
	tok := lx.tok(kind, m)
	if tok.Span.Len() == 1 {
		what := "anchor"
		if kind == token.Alias {
			what = "alias"
		}
		lx.report(diag.LexInvalidChar, diag.SevError, tok.Span, what+" name is empty")
	}
	return tok
}

func (lx *Lexer) scanTag() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	if lx.cursor.Eat('<') {
		for !lx.cursor.EOF() {
			b := lx.cursor.Peek()
			if isBlankOrBreak(b) {
				break
			}
			lx.bumpRune()
			if b == '>' {
				break
			}
		}
		return lx.tok(token.Tag, m)
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isBlankOrBreak(b) || isControl(b) || lx.flowDepth > 0 && isFlowIndicator(b) {
			break
		}
		lx.bumpRune()
	}
	return lx.tok(token.Tag, m)
}

// scanQuoted scans a single or double quoted scalar, possibly spanning lines.
// A document marker at the start of a line ends an unterminated scalar.
func (lx *Lexer) scanQuoted(q byte, style token.Style) token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	closed := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == q {
			if q == '\'' && lx.cursor.PeekAt(1) == '\'' {
				lx.cursor.BumpN(2)
				continue
			}
			lx.cursor.Bump()
			closed = true
			break
		}
		if q == '"' && b == '\\' {
			lx.cursor.Bump()
			lx.bumpRune()
			continue
		}
		if b == '\n' && lx.markerAt(1) {
			break
		}
		lx.bumpRune()
	}
	tok := lx.tok(token.Scalar, m)
	tok.Style = style
	if !closed {
		tok.Flags |= token.FlagUnterminated
		sp := source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start + 1}
		lx.report(diag.LexUnterminatedQuote, diag.SevError, sp, "unterminated quoted scalar")
	}
	return tok
}

// scanPlain scans a plain scalar up to the end of its line. Continuation
// lines are joined by the parser.
func (lx *Lexer) scanPlain() token.Token {
	m := lx.cursor.Mark()
	end := lx.cursor.Off
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || isControl(b) {
			break
		}
		if b == ' ' || b == '\t' {
			if lx.commentAhead() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if b == ':' && lx.colonAt(0) {
			break
		}
		if lx.flowDepth > 0 && isFlowIndicator(b) {
			break
		}
		lx.bumpRune()
		end = lx.cursor.Off
	}
	lx.cursor.Reset(Mark(end))
	return lx.tok(token.Scalar, m)
}

func isBlankOrBreak(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

func isFlowIndicator(b byte) bool {
	switch b {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}

func isControl(b byte) bool {
	return b < 0x20 && b != '\t' && b != '\n' || b == 0x7F
}
