package lexer

import (
	"iter"
	"unicode/utf8"

	"fortio.org/safecast"

	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

// Lexer turns a document into tokens line by line. It never aborts on
// malformed content; only an invalid UTF-8 sequence ends the stream early.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token  // 1 элементный буфер для Peek
	queue  []token.Token // токены, выданные одним шагом сканирования
	err    *LexError
	bad    int // смещение первого невалидного байта или -1
	done   bool

	lineStart  bool // курсор в начале строки
	lineIndent int
	flowDepth  int
	// parentCol is the column of the innermost node opened on this line
	// (hyphen, question, or implicit key); -1 when none.
	parentCol int
	nodeCol   int // column of the first content token after a boundary
	boundary  bool
	prev      token.Token // последний значимый токен
	block     *blockScalar

	posOff, posLine, posCol uint32
}

// New creates a lexer over file. The file content must already be decoded.
func New(file *source.File, opts Options) *Lexer {
	lx := &Lexer{
		file:      file,
		cursor:    NewCursor(file),
		opts:      opts,
		bad:       source.FirstInvalidUTF8(file.Content),
		lineStart: true,
		parentCol: -1,
		boundary:  true,
	}
	if lx.bad >= 0 {
		limit, err := safecast.Conv[uint32](lx.bad)
		if err == nil {
			lx.cursor.Limit = limit
		}
	}
	return lx
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	for len(lx.queue) == 0 {
		lx.scan()
	}
	tok := lx.queue[0]
	lx.queue = lx.queue[1:]
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Err returns the encoding error that ended the stream, if any.
func (lx *Lexer) Err() error {
	if lx.err == nil {
		return nil
	}
	return lx.err
}

// Tokens scans the whole file. Tokens before an encoding error are returned
// together with the *LexError.
func Tokens(file *source.File, opts Options) ([]token.Token, error) {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out, lx.Err()
}

// All returns the token sequence of file. Every iteration rescans from the
// start, so the sequence can be ranged over repeatedly with identical results.
func All(file *source.File) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		lx := New(file, Options{})
		for {
			tok := lx.Next()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

func (lx *Lexer) scan() {
	if lx.done {
		lx.push(lx.eofToken())
		return
	}
	if lx.cursor.EOF() {
		lx.finish()
		return
	}
	if lx.lineStart {
		if lx.block != nil && lx.block.active {
			lx.scanBlockLine()
			return
		}
		lx.scanLineStart()
		return
	}

	lx.skipInlineSpace()
	if lx.cursor.EOF() {
		lx.finish()
		return
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == '\n':
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.push(lx.tok(token.Newline, m))
		lx.lineStart = true
		if lx.block != nil {
			lx.block.active = true
		}
	case ch == '#':
		lx.scanComment()
	case ch == '-' && lx.separatedAt(1):
		lx.punct(token.Hyphen)
	case ch == '?' && lx.separatedAt(1):
		lx.punct(token.Question)
	case ch == ':' && lx.colonAt(0):
		lx.punct(token.Colon)
	case ch == ',' && lx.flowDepth > 0:
		lx.punct(token.Comma)
	case ch == '[' || ch == '{':
		kind := token.LBracket
		if ch == '{' {
			kind = token.LBrace
		}
		lx.content(lx.single(kind))
		lx.flowDepth++
	case ch == ']' || ch == '}':
		kind := token.RBracket
		if ch == '}' {
			kind = token.RBrace
		}
		if lx.flowDepth > 0 {
			lx.flowDepth--
		}
		lx.emit(lx.single(kind))
	case ch == '&':
		lx.content(lx.scanName(token.Anchor))
	case ch == '*':
		lx.content(lx.scanName(token.Alias))
	case ch == '!':
		lx.content(lx.scanTag())
	case ch == '\'':
		lx.content(lx.scanQuoted('\'', token.StyleSingleQuoted))
	case ch == '"':
		lx.content(lx.scanQuoted('"', token.StyleDoubleQuoted))
	case (ch == '|' || ch == '>') && lx.flowDepth == 0:
		lx.scanBlockHeader()
	case isControl(ch):
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		tok := lx.tok(token.Invalid, m)
		lx.report(diag.LexInvalidChar, diag.SevError, tok.Span, "control character is not allowed")
		lx.push(tok)
	default:
		lx.content(lx.scanPlain())
	}
}

// scanLineStart emits the Indent token of a non-blank line and any document marker.
func (lx *Lexer) scanLineStart() {
	m := lx.cursor.Mark()
	var flags token.Flags
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\t' {
			flags |= token.FlagTabInIndent
		} else if b != ' ' {
			break
		}
		lx.cursor.Bump()
	}
	lx.lineStart = false
	if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
		// пустая строка: отступа нет
		return
	}

	if lx.flowDepth > 0 {
		flags |= token.FlagInFlow
	}
	indent := lx.tok(token.Indent, m)
	indent.Flags = flags
	lx.lineIndent = indent.Width()
	indent.Indent = lx.lineIndent
	lx.parentCol = -1
	lx.boundary = true
	lx.push(indent)

	if lx.lineIndent != 0 {
		return
	}
	switch {
	case lx.cursor.HasPrefix("---") && lx.separatedAt(3):
		lx.flowDepth = 0
		m := lx.cursor.Mark()
		lx.cursor.BumpN(3)
		lx.emit(lx.tok(token.DocStart, m))
		lx.boundary = true
	case lx.cursor.HasPrefix("...") && lx.separatedAt(3):
		lx.flowDepth = 0
		m := lx.cursor.Mark()
		lx.cursor.BumpN(3)
		lx.emit(lx.tok(token.DocEnd, m))
	case lx.cursor.Peek() == '%' && lx.flowDepth == 0:
		m := lx.cursor.Mark()
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' && !lx.commentAhead() {
			lx.cursor.Bump()
		}
		tok := lx.tok(token.Directive, m)
		tok = lx.trimRight(tok)
		lx.emit(tok)
	}
}

func (lx *Lexer) finish() {
	if lx.bad >= 0 && lx.err == nil {
		start := lx.cursor.Limit
		sp := source.Span{File: lx.file.ID, Start: start, End: start + 1}
		pos := lx.pos(start)
		// не репортим: ошибка фатальна, драйвер превращает её в итоговую диагностику
		lx.err = &LexError{Span: sp, Pos: pos, Msg: "invalid UTF-8 byte sequence"}
		lx.push(token.Token{
			Kind:   token.Invalid,
			Span:   sp,
			Start:  pos,
			End:    source.Pos{Offset: start + 1, Line: pos.Line, Col: pos.Col + 1},
			Indent: lx.lineIndent,
			Text:   string(lx.file.Content[start : start+1]),
		})
	}
	lx.done = true
	lx.block = nil
	lx.push(lx.eofToken())
}

func (lx *Lexer) eofToken() token.Token {
	off := lx.cursor.Limit
	p := lx.pos(off)
	return token.Token{
		Kind:  token.EOF,
		Span:  source.Span{File: lx.file.ID, Start: off, End: off},
		Start: p,
		End:   p,
	}
}

func (lx *Lexer) push(tok token.Token) {
	lx.queue = append(lx.queue, tok)
}

// emit pushes a significant token and remembers it for ':' adjacency checks.
func (lx *Lexer) emit(tok token.Token) {
	lx.prev = tok
	lx.push(tok)
}

// content emits a token that may start a node and records its column.
func (lx *Lexer) content(tok token.Token) {
	if lx.boundary && lx.flowDepth == 0 {
		lx.nodeCol = int(tok.Start.Col)
		lx.boundary = false
	}
	lx.emit(tok)
}

func (lx *Lexer) punct(kind token.Kind) {
	tok := lx.single(kind)
	if lx.flowDepth == 0 {
		switch kind {
		case token.Hyphen, token.Question:
			lx.parentCol = int(tok.Start.Col)
		case token.Colon:
			if !lx.boundary {
				lx.parentCol = lx.nodeCol
			}
		}
		lx.boundary = true
	}
	lx.emit(tok)
}

func (lx *Lexer) single(kind token.Kind) token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.tok(kind, m)
}

func (lx *Lexer) tok(kind token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	var flags token.Flags
	if lx.flowDepth > 0 {
		flags = token.FlagInFlow
	}
	return token.Token{
		Kind:   kind,
		Flags:  flags,
		Span:   sp,
		Start:  lx.pos(sp.Start),
		End:    lx.pos(sp.End),
		Indent: lx.lineIndent,
		Text:   string(lx.file.Content[sp.Start:sp.End]),
	}
}

// trimRight drops trailing blanks from a token that was scanned to end of line.
func (lx *Lexer) trimRight(tok token.Token) token.Token {
	end := tok.Span.End
	for end > tok.Span.Start {
		b := lx.file.Content[end-1]
		if b != ' ' && b != '\t' {
			break
		}
		end--
	}
	if end == tok.Span.End {
		return tok
	}
	tok.Span.End = end
	tok.End = lx.file.Pos(end)
	tok.Text = string(lx.file.Content[tok.Span.Start:end])
	return tok
}

// pos resolves an offset incrementally; offsets are requested in mostly
// increasing order, so the scan is amortized linear.
func (lx *Lexer) pos(off uint32) source.Pos {
	if off < lx.posOff {
		return lx.file.Pos(off)
	}
	content := lx.file.Content
	line, col := lx.posLine, lx.posCol
	for i := lx.posOff; i < off; {
		b := content[i]
		switch {
		case b == '\n':
			line++
			col = 0
			i++
		case b < utf8.RuneSelf:
			col++
			i++
		default:
			_, sz := utf8.DecodeRune(content[i:off])
			col++
			i += uint32(sz)
		}
	}
	lx.posOff, lx.posLine, lx.posCol = off, line, col
	return source.Pos{Offset: off, Line: line, Col: col}
}
