package parser

import (
	"fmt"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

type flowState uint8

const (
	flowExpectEntry flowState = iota
	flowExpectKey             // после '?'
	flowAfterKey              // ключ есть, ждём ':' или ','
	flowExpectValue           // после ':'
	flowAfterEntry            // нужна ',' или закрывающая скобка
)

// flowFrame is one open flow collection. Nesting lives in an explicit stack
// so deep input cannot exhaust the goroutine stack.
type flowFrame struct {
	node   cst.NodeID
	closer token.Kind
	entry  cst.NodeID // открытая пара ключ-значение
	last   cst.NodeID // последний узел, добавленный в этот фрейм
	state  flowState
}

func (p *Parser) newFlow(open token.Token, pr props) cst.NodeID {
	kind := cst.KindFlowSequence
	if open.Kind == token.LBrace {
		kind = cst.KindFlowMapping
	}
	n := cst.Node{
		Kind:    kind,
		Flags:   p.startsLine(open),
		Start:   open.Start,
		End:     open.End,
		Indent:  p.line.Width(),
		Leading: p.line.Text,
		Open:    open,
	}
	pr.apply(&n)
	return p.tree.New(n)
}

func closerOf(open token.Kind) token.Kind {
	if open == token.LBrace {
		return token.RBrace
	}
	return token.RBracket
}

// parseFlow consumes a flow collection and everything nested in it. Running
// into the end of the document sets the fatal error.
func (p *Parser) parseFlow(pr props) cst.NodeID {
	open := p.advance()
	root := p.newFlow(open, pr)
	frames := []flowFrame{{node: root, closer: closerOf(open.Kind)}}

	for len(frames) > 0 {
		top := &frames[len(frames)-1]
		tok := p.peek()
		switch tok.Kind {
		case token.Indent:
			p.line = p.advance()
			p.recordLine(p.line, false)
		case token.Newline:
			p.advance()
		case token.Comment:
			p.comment(p.advance())
		case token.EOF, token.DocStart, token.DocEnd:
			p.fatalAt(p.node(root).Open, "unterminated flow collection")
			return root
		case token.RBracket, token.RBrace:
			end := p.advance()
			if end.Kind != top.closer {
				p.report(diag.SynMismatchedFlowEnd, diag.SevError, end.Span,
					fmt.Sprintf("expected '%s' but found '%s'", closeText(top.closer), end.Text))
			}
			p.endFlowEntry(top)
			n := p.node(top.node)
			n.Close = end
			n.End = end.End
			frames = frames[:len(frames)-1]
		case token.Comma:
			comma := p.advance()
			if top.state == flowExpectEntry {
				p.report(diag.SynUnexpectedToken, diag.SevError, comma.Span, "unexpected ',' in flow collection")
			}
			p.endFlowEntry(top)
		case token.Colon:
			p.flowColon(top, p.advance())
		case token.Question:
			p.flowExplicit(top, p.advance())
		case token.Hyphen:
			p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "block sequence entries are not allowed in flow collections")
			p.advance()
		case token.Scalar, token.Alias, token.LBracket, token.LBrace, token.Anchor, token.Tag:
			pr := p.parseProps()
			t := p.peek()
			if t.Kind.IsFlowStart() {
				id := p.newFlow(p.advance(), pr)
				p.flowValue(top, id)
				frames = append(frames, flowFrame{node: id, closer: closerOf(t.Kind)})
				continue
			}
			if pr.empty() && p.mergeFlowPlain(top, t) {
				continue
			}
			id := p.parseNode(pr)
			if !id.IsValid() {
				continue
			}
			p.flowValue(top, id)
		case token.Invalid:
			p.advance()
		default:
			p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, fmt.Sprintf("unexpected %s in flow collection", describe(tok)))
			p.advance()
		}
	}
	return root
}

func closeText(k token.Kind) string {
	if k == token.RBrace {
		return "}"
	}
	return "]"
}

func (p *Parser) endFlowEntry(f *flowFrame) {
	f.entry = cst.NoNodeID
	f.last = cst.NoNodeID
	f.state = flowExpectEntry
}

// newFlowEntry opens a pair. In a flow sequence the pair is wrapped in a
// single-pair mapping.
func (p *Parser) newFlowEntry(f *flowFrame, first token.Token, flags cst.Flags) cst.NodeID {
	entry := p.tree.New(cst.Node{
		Kind:    cst.KindMappingEntry,
		Flags:   flags | p.startsLine(first),
		Start:   first.Start,
		End:     first.End,
		Indent:  p.line.Width(),
		Leading: p.line.Text,
	})
	if p.node(f.node).Kind == cst.KindFlowMapping {
		p.tree.AppendChild(f.node, entry)
	} else {
		pair := p.tree.New(cst.Node{
			Kind:    cst.KindFlowMapping,
			Flags:   cst.FlagImplicitPair | p.startsLine(first),
			Start:   first.Start,
			End:     first.End,
			Indent:  p.line.Width(),
			Leading: p.line.Text,
		})
		p.tree.AppendChild(f.node, pair)
		p.tree.AppendChild(pair, entry)
	}
	f.entry = entry
	return entry
}

// nodeToken stands in for a node when reporting at its position.
func (p *Parser) nodeToken(n *cst.Node) token.Token {
	return token.Token{Span: source.SpanOf(p.file.ID, n.Start, n.End), Start: n.Start, End: n.End}
}

func (p *Parser) missingComma(f *flowFrame, at token.Token) {
	p.report(diag.SynExpectComma, diag.SevError, at.Span, "missing ',' between flow collection entries")
	p.endFlowEntry(f)
}

// flowValue places a finished node into the frame.
func (p *Parser) flowValue(f *flowFrame, id cst.NodeID) {
	n := p.node(id)
	if f.state == flowAfterEntry || f.state == flowAfterKey && p.node(f.node).Kind == cst.KindFlowSequence {
		p.missingComma(f, p.nodeToken(n))
	}
	switch f.state {
	case flowExpectValue:
		e := p.node(f.entry)
		e.ValueNode = id
		p.tree.AppendChild(f.entry, id)
		f.state = flowAfterEntry
	case flowExpectKey:
		e := p.node(f.entry)
		e.Key = id
		p.tree.AppendChild(f.entry, id)
		f.state = flowAfterKey
	case flowAfterKey:
		// "{a b}": ключ без двоеточия, за ним ещё узел
		p.missingComma(f, p.nodeToken(n))
		p.flowValue(f, id)
		return
	default:
		if p.node(f.node).Kind == cst.KindFlowMapping {
			entry := p.newFlowEntry(f, token.Token{Start: n.Start, End: n.End}, 0)
			p.node(entry).Key = id
			p.tree.AppendChild(entry, id)
			f.state = flowAfterKey
		} else {
			p.tree.AppendChild(f.node, id)
			f.state = flowAfterEntry
		}
	}
	f.last = id
}

// mergeFlowPlain joins a plain scalar split over lines inside a flow collection.
func (p *Parser) mergeFlowPlain(f *flowFrame, t token.Token) bool {
	if t.Kind != token.Scalar || t.Style != token.StylePlain || !f.last.IsValid() {
		return false
	}
	if f.state != flowAfterEntry && f.state != flowAfterKey {
		return false
	}
	n := p.node(f.last)
	if n.Kind != cst.KindScalar || n.Style != token.StylePlain || n.Has(cst.FlagEmpty) || t.Start.Line <= n.End.Line {
		return false
	}
	p.advance()
	n.Value += " " + t.Text
	n.End = t.End
	n.Text = string(p.file.Content[n.Start.Offset:t.End.Offset])
	n.Flags |= cst.FlagMultiline
	return true
}

func (p *Parser) flowColon(f *flowFrame, colon token.Token) {
	isMap := p.node(f.node).Kind == cst.KindFlowMapping
	switch {
	case f.state == flowAfterKey:
		p.setFlowColon(f, colon)
	case f.state == flowExpectEntry || f.state == flowExpectKey:
		if f.state == flowExpectEntry {
			p.newFlowEntry(f, colon, 0)
		}
		key := p.emptyScalar(colon.Start, props{})
		p.node(f.entry).Key = key
		p.tree.AppendChild(f.entry, key)
		p.setFlowColon(f, colon)
	case f.state == flowAfterEntry && !isMap && !f.entry.IsValid() && f.last.IsValid():
		// "[a: b]": элемент становится ключом пары
		last := f.last
		ln := p.node(last)
		entry := p.tree.New(cst.Node{
			Kind:    cst.KindMappingEntry,
			Flags:   ln.Flags & cst.FlagStartsLine,
			Start:   ln.Start,
			End:     colon.End,
			Indent:  ln.Indent,
			Leading: ln.Leading,
			Key:     last,
		})
		pair := p.tree.New(cst.Node{
			Kind:    cst.KindFlowMapping,
			Flags:   cst.FlagImplicitPair | ln.Flags&cst.FlagStartsLine,
			Start:   ln.Start,
			End:     colon.End,
			Indent:  ln.Indent,
			Leading: ln.Leading,
		})
		p.tree.ReplaceChild(f.node, last, pair)
		p.tree.AppendChild(pair, entry)
		p.tree.AppendChild(entry, last)
		f.entry = entry
		p.setFlowColon(f, colon)
	default:
		p.report(diag.SynNestedMappingValue, diag.SevError, colon.Span, "mapping values are not allowed in this context")
	}
}

func (p *Parser) setFlowColon(f *flowFrame, colon token.Token) {
	e := p.node(f.entry)
	e.Colon = colon
	if colon.End.Offset > e.End.Offset {
		e.End = colon.End
	}
	f.state = flowExpectValue
}

func (p *Parser) flowExplicit(f *flowFrame, q token.Token) {
	if f.state != flowExpectEntry {
		p.missingComma(f, q)
	}
	entry := p.newFlowEntry(f, q, cst.FlagExplicitKey)
	p.node(entry).Indicator = q
	f.state = flowExpectKey
}
