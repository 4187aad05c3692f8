package parser

import (
	"fmt"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekAt смотрит на k токенов вперёд, не выходя за EOF
func (p *Parser) peekAt(k int) token.Token {
	if p.pos+k >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+k]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance: съедает следующий токен; EOF не съедается
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) atLineEnd() bool {
	return p.peek().Kind.IsLineEnd()
}

func (p *Parser) node(id cst.NodeID) *cst.Node {
	return p.tree.Node(id)
}

// startsLine returns FlagStartsLine when tok is the first token after the
// current line's indentation.
func (p *Parser) startsLine(tok token.Token) cst.Flags {
	if tok.Start.Line == p.line.Start.Line && tok.Start.Offset == p.line.End.Offset {
		return cst.FlagStartsLine
	}
	return 0
}

// finishLine eats the trailing comment and reports anything else left on the line.
func (p *Parser) finishLine() {
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.Newline, token.EOF:
			return
		case token.Comment:
			p.comment(p.advance())
		case token.Invalid:
			p.advance()
		default:
			p.unexpected(tok)
			p.skipRestOfLine()
			return
		}
	}
}

// skipRestOfLine drops tokens up to the end of the line. A flow collection
// met on the way is consumed whole so its later lines are not mistaken for
// block structure.
func (p *Parser) skipRestOfLine() {
	for p.fatal == nil {
		tok := p.peek()
		switch {
		case tok.Kind == token.Newline || tok.Kind == token.EOF:
			return
		case tok.Kind == token.Comment:
			p.comment(p.advance())
		case tok.Kind.IsFlowStart():
			p.parseFlow(props{})
		default:
			p.advance()
		}
	}
}

func (p *Parser) unexpected(tok token.Token) {
	p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, fmt.Sprintf("unexpected %s", describe(tok)))
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Newline:
		return "end of line"
	case token.Scalar, token.BlockText:
		return fmt.Sprintf("scalar %q", tok.Text)
	default:
		if tok.Text != "" {
			return fmt.Sprintf("%q", tok.Text)
		}
		return tok.Kind.String()
	}
}

func (p *Parser) fatalAt(tok token.Token, msg string) {
	if p.fatal != nil {
		return
	}
	p.fatal = &ParseError{Span: tok.Span, Pos: tok.Start, Msg: msg}
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter != nil {
		if sev == diag.SevError {
			p.opts.CurrentErrors++
		}
		if !p.opts.Enough() {
			p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
			return true
		}
		return false // достигли максимального количества ошибок
	}
	return false // нет reporter - ничего не записали
}
