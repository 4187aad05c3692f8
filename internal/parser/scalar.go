package parser

import (
	"strings"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

// props are the anchor and tag written before a node.
type props struct {
	anchor token.Token
	tag    token.Token
	start  source.Pos
	set    bool
	// earlier line: the node keeps its own start column
	detached bool
}

func (pr props) empty() bool { return !pr.set }

func (pr props) apply(n *cst.Node) {
	if !pr.set {
		return
	}
	n.Anchor = pr.anchor
	n.Tag = pr.tag
	if !pr.detached && pr.start.Offset < n.Start.Offset {
		n.Start = pr.start
	}
}

// parseProps eats consecutive anchors and tags.
func (p *Parser) parseProps() props {
	var pr props
	for p.peek().Kind.IsProperty() {
		tok := p.advance()
		if !pr.set {
			pr.start = tok.Start
			pr.set = true
		}
		slot := &pr.anchor
		if tok.Kind == token.Tag {
			slot = &pr.tag
		}
		if slot.Kind != token.Invalid {
			p.report(diag.SynDuplicateProperty, diag.SevError, tok.Span, "a node may have at most one "+tok.Kind.String())
			continue
		}
		*slot = tok
	}
	return pr
}

func (p *Parser) takePending() props {
	pr := p.pending
	pr.detached = true
	p.pending = props{}
	return pr
}

// emptyScalar is the null node of an absent key or value.
func (p *Parser) emptyScalar(at source.Pos, pr props) cst.NodeID {
	if pr.empty() {
		pr = p.takePending()
	}
	n := cst.Node{
		Kind:    cst.KindScalar,
		Flags:   cst.FlagEmpty,
		Start:   at,
		End:     at,
		Indent:  p.line.Width(),
		Leading: p.line.Text,
	}
	pr.apply(&n)
	return p.tree.New(n)
}

// parseNode parses one scalar, alias or flow collection at the cursor.
// It returns NoNodeID without consuming anything when no node starts here.
func (p *Parser) parseNode(pr props) cst.NodeID {
	if pr.empty() {
		pr = p.takePending()
	}
	tok := p.peek()
	switch tok.Kind {
	case token.Scalar:
		if tok.Style.IsBlock() {
			return p.parseBlockScalar(pr)
		}
		p.advance()
		n := p.leaf(cst.KindScalar, tok)
		n.Value = tok.Value()
		if tok.Start.Line != tok.End.Line {
			n.Flags |= cst.FlagMultiline
		}
		pr.apply(&n)
		return p.tree.New(n)
	case token.Alias:
		p.advance()
		n := p.leaf(cst.KindAlias, tok)
		n.Value = strings.TrimPrefix(tok.Text, "*")
		pr.apply(&n)
		return p.tree.New(n)
	case token.LBracket, token.LBrace:
		return p.parseFlow(pr)
	}
	if pr.set {
		// одни свойства без узла: пустой скаляр
		return p.emptyScalar(tok.Start, pr)
	}
	return cst.NoNodeID
}

func (p *Parser) leaf(kind cst.Kind, tok token.Token) cst.Node {
	return cst.Node{
		Kind:    kind,
		Flags:   p.startsLine(tok),
		Start:   tok.Start,
		End:     tok.End,
		Indent:  p.line.Width(),
		Leading: p.line.Text,
		Style:   tok.Style,
		Text:    tok.Text,
	}
}

// parseBlockScalar consumes a '|' or '>' header and its content lines.
func (p *Parser) parseBlockScalar(pr props) cst.NodeID {
	head := p.advance()
	n := p.leaf(cst.KindScalar, head)
	pr.apply(&n)
	if p.at(token.Comment) {
		p.comment(p.advance())
	}

	var lines []token.Token
	for {
		j := p.pos
		for p.toks[j].Kind == token.Newline {
			j++
		}
		if p.toks[j].Kind != token.Indent || j+1 >= len(p.toks) || p.toks[j+1].Kind != token.BlockText {
			break
		}
		p.pos = j
		p.recordLine(p.advance(), true)
		lines = append(lines, p.advance())
	}
	if len(lines) > 0 {
		last := lines[len(lines)-1]
		n.End = last.End
		n.Flags |= cst.FlagMultiline
	}
	n.Text = string(p.file.Content[n.Start.Offset:n.End.Offset])
	n.Value = blockValue(head, lines, p.trailingBreaks())
	return p.tree.New(n)
}

// trailingBreaks counts the line breaks after the block content, for '+' chomping.
func (p *Parser) trailingBreaks() int {
	k := 0
	for j := p.pos; j < len(p.toks) && p.toks[j].Kind == token.Newline; j++ {
		k++
	}
	return k
}

// blockValue builds the content of a literal or folded scalar.
func blockValue(head token.Token, lines []token.Token, breaks int) string {
	var b strings.Builder
	prevLine := uint32(0)
	prevMore := false
	for i, l := range lines {
		more := strings.HasPrefix(l.Text, " ") || strings.HasPrefix(l.Text, "\t")
		if i > 0 {
			gap := int(l.Start.Line - prevLine)
			switch {
			case head.Style == token.StyleLiteral || more || prevMore:
				b.WriteString(strings.Repeat("\n", gap))
			case gap == 1:
				b.WriteByte(' ')
			default:
				b.WriteString(strings.Repeat("\n", gap-1))
			}
		}
		b.WriteString(l.Text)
		prevLine = l.Start.Line
		prevMore = more
	}
	s := b.String()
	if len(lines) == 0 {
		return ""
	}
	switch {
	case strings.Contains(head.Text, "-"):
		return s
	case strings.Contains(head.Text, "+"):
		return s + strings.Repeat("\n", max(breaks, 1))
	default:
		return s + "\n"
	}
}
