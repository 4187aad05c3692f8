package parser

import (
	"strings"

	"fortio.org/safecast"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/lexer"
	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

// DefaultYAMLVersion is recorded on documents without a %YAML directive.
const DefaultYAMLVersion = "1.2"

type Options struct {
	// MaxErrors stops reporting after that many errors; 0 means no limit.
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	// YAMLVersion overrides DefaultYAMLVersion for documents without a directive.
	YAMLVersion string
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors > o.MaxErrors
}

// Parser: состояние парсера на один файл
type Parser struct {
	file *source.File
	toks []token.Token
	pos  int
	opts Options
	tree *cst.Tree

	doc   cst.NodeID
	stack []level
	line  token.Token // Indent текущей строки
	// recovered is the stack index of the first level opened by recover, 0 if none
	recovered int

	pending    props        // свойства с отдельной строки, ждут свой узел
	comments   []cst.NodeID // комментарии до первого документа
	directives []string
	version    string

	plain      cst.NodeID // многострочный plain-скаляр, который можно продолжить
	plainOwner int

	fatal *ParseError
}

// Parse builds the CST from a complete token stream. The stream must end
// with EOF. The returned tree is always usable; the error is non-nil only
// for an unterminated flow collection.
func Parse(file *source.File, toks []token.Token, opts Options) (*cst.Tree, error) {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		end := source.Pos{}
		if file != nil {
			if off, err := safecast.Conv[uint32](len(file.Content)); err == nil {
				end = file.Pos(off)
			}
		}
		toks = append(toks, token.Token{Kind: token.EOF, Start: end, End: end})
	}
	p := &Parser{
		file: file,
		toks: toks,
		opts: opts,
		tree: cst.NewTree(file),
	}
	p.parseStream()
	p.tree.FinishSpans()
	if p.fatal != nil {
		return p.tree, p.fatal
	}
	return p.tree, nil
}

// ParseFile scans and parses file. A lexer error is returned as is and the
// tree covers the content before the invalid byte.
func ParseFile(file *source.File, opts Options) (*cst.Tree, error) {
	toks, lexErr := lexer.Tokens(file, lexer.Options{Reporter: opts.Reporter})
	tree, err := Parse(file, toks, opts)
	if lexErr != nil {
		return tree, lexErr
	}
	return tree, err
}

func (p *Parser) parseStream() {
	for p.fatal == nil {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF:
			if !p.doc.IsValid() && len(p.tree.Docs) == 0 {
				p.openDocument(tok, 0)
			}
			p.closeDocument(tok)
			return
		case token.Newline:
			p.advance()
		case token.Indent:
			p.line = p.advance()
			p.recordLine(p.line, false)
			p.parseLine()
		case token.Invalid:
			// уже отрепорчено лексером
			p.advance()
		default:
			p.unexpected(tok)
			p.skipRestOfLine()
		}
	}
}

// parseLine handles everything after the Indent token of one line.
func (p *Parser) parseLine() {
	c := p.line.Width()
	switch tok := p.peek(); tok.Kind {
	case token.Comment:
		p.plain = cst.NoNodeID
		p.finishLine()
		return
	case token.Directive:
		p.directive(p.advance())
		p.finishLine()
		return
	case token.DocStart:
		p.startDocument(p.advance())
		if p.atLineEnd() {
			p.finishLine()
			return
		}
		c = int(p.peek().Start.Col)
	case token.DocEnd:
		p.endDocument(p.advance())
		p.finishLine()
		return
	case token.Newline, token.EOF:
		return
	case token.Invalid:
		p.finishLine()
		return
	}

	if p.continuePlain(c) {
		p.finishLine()
		return
	}
	p.plain = cst.NoNodeID
	p.ensureDocument(p.peek())
	p.placeLine(c)
	if p.fatal == nil {
		p.finishLine()
	}
}

func (p *Parser) ensureDocument(tok token.Token) {
	if !p.doc.IsValid() {
		p.openDocument(tok, 0)
	}
}

func (p *Parser) openDocument(tok token.Token, flags cst.Flags) {
	version := p.version
	if version == "" {
		version = p.opts.YAMLVersion
	}
	if version == "" {
		version = DefaultYAMLVersion
	}
	id := p.tree.New(cst.Node{
		Kind:       cst.KindDocument,
		Flags:      flags,
		Start:      tok.Start,
		End:        tok.End,
		Directives: p.directives,
		Version:    version,
	})
	p.tree.Docs = append(p.tree.Docs, id)
	for _, c := range p.comments {
		p.tree.AppendChild(id, c)
	}
	p.comments = nil
	p.directives = nil
	p.version = ""
	p.doc = id
	p.stack = []level{{kind: cst.KindDocument, node: id, indent: -1, open: id, slot: slotValue}}
	p.recovered = 0
	p.pending = props{}
	p.plain = cst.NoNodeID
}

func (p *Parser) closeDocument(end token.Token) {
	if !p.doc.IsValid() {
		return
	}
	p.flushPending(-1)
	n := p.tree.Node(p.doc)
	if end.Kind == token.DocEnd && end.End.Offset > n.End.Offset {
		n.End = end.End
	}
	p.doc = cst.NoNodeID
	p.stack = nil
	p.recovered = 0
	p.plain = cst.NoNodeID
}

func (p *Parser) startDocument(tok token.Token) {
	p.closeDocument(tok)
	p.openDocument(tok, cst.FlagExplicitStart)
}

func (p *Parser) endDocument(tok token.Token) {
	if !p.doc.IsValid() {
		if len(p.directives) > 0 {
			p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "directives must be followed by a document start marker")
			p.directives, p.version = nil, ""
		}
		return
	}
	p.tree.Node(p.doc).Flags |= cst.FlagExplicitEnd
	p.closeDocument(tok)
}

func (p *Parser) directive(tok token.Token) {
	if p.doc.IsValid() {
		if p.tree.Node(p.doc).ValueNode.IsValid() {
			p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "directive inside a document; end the document with '...' first")
			return
		}
		p.closeDocument(tok)
	}
	p.directives = append(p.directives, tok.Text)
	fields := strings.Fields(tok.Text)
	if len(fields) >= 2 && fields[0] == "%YAML" {
		p.version = fields[1]
	}
}

func (p *Parser) comment(tok token.Token) {
	id := p.tree.New(cst.Node{
		Kind:    cst.KindComment,
		Flags:   p.startsLine(tok),
		Start:   tok.Start,
		End:     tok.End,
		Indent:  p.line.Width(),
		Leading: p.line.Text,
		Text:    tok.Text,
		Value:   strings.TrimSpace(strings.TrimPrefix(tok.Text, "#")),
	})
	if p.doc.IsValid() {
		p.tree.AppendChild(p.doc, id)
		return
	}
	p.comments = append(p.comments, id)
}

func (p *Parser) recordLine(tok token.Token, inScalar bool) {
	p.tree.Lines = append(p.tree.Lines, cst.Line{
		Number:   tok.Start.Line,
		Span:     tok.Span,
		Width:    tok.Width(),
		Text:     tok.Text,
		HasTab:   tok.Has(token.FlagTabInIndent),
		InFlow:   tok.Has(token.FlagInFlow),
		InScalar: inScalar,
	})
}
