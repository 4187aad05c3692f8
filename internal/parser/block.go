package parser

import (
	"slices"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/token"
)

type slot uint8

const (
	slotNone slot = iota
	slotKey
	slotValue
)

// level is one open block collection. The bottom level is the document.
type level struct {
	kind   cst.Kind
	node   cst.NodeID
	indent int
	open   cst.NodeID // текущий entry/item (или сам документ)
	slot   slot       // какое место в open ещё не заполнено
}

func (lv *level) awaits() bool { return lv.slot != slotNone }

type lineKind uint8

const (
	lineValue lineKind = iota
	lineSeq
	lineKey
	lineExplicit
	lineEmptyKey
	lineProps
)

func (p *Parser) top() *level { return &p.stack[len(p.stack)-1] }

func (p *Parser) pop() {
	p.stack = p.stack[:len(p.stack)-1]
	if len(p.stack) <= p.recovered {
		p.recovered = 0
	}
}

// dropRecovered forgets the levels opened by recovery once a line comes back
// to the blocks that were open before the misplaced line.
func (p *Parser) dropRecovered(c int) {
	if p.recovered == 0 {
		return
	}
	if p.recovered >= len(p.stack) || c <= p.stack[p.recovered-1].indent {
		p.stack = p.stack[:min(p.recovered, len(p.stack))]
		p.recovered = 0
	}
}

// closeLevels pops every level indented deeper than c.
func (p *Parser) closeLevels(c int) {
	for len(p.stack) > 1 && p.top().indent > c {
		p.pop()
	}
}

// unwindSameColumn pops a collection of the wrong kind sitting at column c
// when the level below it lives at the same column: an indentless sequence
// under a mapping key, or a block opened by recovery.
func (p *Parser) unwindSameColumn(c int, want cst.Kind) {
	for len(p.stack) > 1 {
		top := p.top()
		if top.indent != c || top.kind == want {
			return
		}
		if p.stack[len(p.stack)-2].indent != c {
			return
		}
		p.pop()
	}
}

// classify looks at the first tokens of the line, skipping properties.
func (p *Parser) classify() lineKind {
	j := p.pos
	for p.toks[j].Kind.IsProperty() {
		j++
	}
	switch p.toks[j].Kind {
	case token.Hyphen:
		return lineSeq
	case token.Question:
		return lineExplicit
	case token.Colon:
		return lineEmptyKey
	case token.Newline, token.Comment, token.EOF:
		if j > p.pos {
			return lineProps
		}
		return lineValue
	}
	if p.keyAt(j) {
		return lineKey
	}
	return lineValue
}

// keyAt reports whether the node starting at toks[j] is an implicit key.
func (p *Parser) keyAt(j int) bool {
	t := p.toks[j]
	switch {
	case t.Kind == token.Scalar && !t.Style.IsBlock(), t.Kind == token.Alias:
		return j+1 < len(p.toks) && p.toks[j+1].Kind == token.Colon
	case t.Kind.IsFlowStart():
		k := p.matchFlow(j)
		return k >= 0 && k+1 < len(p.toks) && p.toks[k+1].Kind == token.Colon
	}
	return false
}

// matchFlow returns the index of the bracket closing toks[j], or -1.
func (p *Parser) matchFlow(j int) int {
	depth := 0
	for k := j; k < len(p.toks); k++ {
		switch kind := p.toks[k].Kind; {
		case kind.IsFlowStart():
			depth++
		case kind.IsFlowEnd():
			depth--
			if depth == 0 {
				return k
			}
		case kind == token.EOF || kind == token.DocStart || kind == token.DocEnd:
			return -1
		}
	}
	return -1
}

// placeLine finds the block the line at column c belongs to.
func (p *Parser) placeLine(c int) {
	p.flushPending(c)
	p.dropRecovered(c)
	depth := len(p.stack)
	p.closeLevels(c)
	kind := p.classify()
	first := p.peek()

	switch kind {
	case lineSeq:
		p.unwindSameColumn(c, cst.KindSequence)
		top := p.top()
		pr := p.parseProps()
		switch {
		case top.kind == cst.KindSequence && top.indent == c:
			p.newItem(top)
		case top.awaits() && c > top.indent:
			p.newItem(p.openCollection(top, cst.KindSequence, c, first, 0, pr))
		case top.kind == cst.KindMapping && top.indent == c && top.slot == slotValue:
			// "key:\n- a": последовательность без отступа
			p.newItem(p.openCollection(top, cst.KindSequence, c, first, cst.FlagIndentless, pr))
		default:
			p.recover(top, c, kind, depth)
		}

	case lineKey, lineExplicit, lineEmptyKey:
		p.unwindSameColumn(c, cst.KindMapping)
		top := p.top()
		if kind == lineEmptyKey && top.kind == cst.KindMapping && top.indent == c && p.awaitsExplicitColon(top) {
			p.explicitValue(top)
			return
		}
		switch {
		case top.kind == cst.KindMapping && top.indent == c:
			p.newEntry(top, kind)
		case top.awaits() && c > top.indent:
			p.newEntry(p.openCollection(top, cst.KindMapping, c, first, 0, props{}), kind)
		default:
			p.recover(top, c, kind, depth)
		}

	case lineProps:
		top := p.top()
		if top.awaits() && c > top.indent {
			p.pending = p.parseProps()
			return
		}
		p.recover(top, c, kind, depth)

	default:
		top := p.top()
		if top.awaits() && c > top.indent {
			p.inlineContent(top)
			return
		}
		p.recover(top, c, kind, depth)
	}
}

// flushPending turns properties left alone on their line into an empty node
// once the next line turns out not to hold the node they belong to.
func (p *Parser) flushPending(c int) {
	if p.pending.empty() || len(p.stack) == 0 {
		return
	}
	top := p.top()
	if top.awaits() && c > top.indent {
		return
	}
	pr := p.takePending()
	if top.awaits() {
		p.attach(top, p.emptyScalar(pr.start, pr))
	}
}

func (p *Parser) awaitsExplicitColon(lv *level) bool {
	n := p.node(lv.open)
	return n != nil && n.Kind == cst.KindMappingEntry && n.Has(cst.FlagExplicitKey) && !n.HasColon()
}

// attach fills the open slot of lv with child.
func (p *Parser) attach(lv *level, child cst.NodeID) {
	open := p.node(lv.open)
	switch lv.slot {
	case slotKey:
		open.Key = child
	case slotValue:
		open.ValueNode = child
	default:
		return
	}
	p.tree.AppendChild(lv.open, child)
	lv.slot = slotNone
}

// openCollection creates a block collection in lv's open slot and pushes it.
func (p *Parser) openCollection(lv *level, kind cst.Kind, c int, first token.Token, flags cst.Flags, pr props) *level {
	if pr.empty() {
		pr = p.takePending()
	}
	n := cst.Node{
		Kind:    kind,
		Flags:   flags | p.startsLine(first),
		Start:   first.Start,
		End:     first.Start,
		Indent:  p.line.Width(),
		Leading: p.line.Text,
	}
	pr.apply(&n)
	id := p.tree.New(n)
	p.attach(lv, id)
	p.stack = append(p.stack, level{kind: kind, node: id, indent: c})
	return p.top()
}

// newRecovered pushes a collection that has no slot to live in. It hangs off
// host so nothing is lost from the tree.
func (p *Parser) newRecovered(host cst.NodeID, kind cst.Kind, c int, first token.Token) *level {
	n := cst.Node{
		Kind:    kind,
		Flags:   cst.FlagRecovered | p.startsLine(first),
		Start:   first.Start,
		End:     first.Start,
		Indent:  p.line.Width(),
		Leading: p.line.Text,
	}
	id := p.tree.New(n)
	p.tree.AppendChild(host, id)
	p.stack = append(p.stack, level{kind: kind, node: id, indent: c})
	return p.top()
}

func (p *Parser) newItem(lv *level) {
	h := p.advance()
	item := p.tree.New(cst.Node{
		Kind:      cst.KindSequenceItem,
		Flags:     p.startsLine(h),
		Start:     h.Start,
		End:       h.End,
		Indent:    p.line.Width(),
		Leading:   p.line.Text,
		Indicator: h,
	})
	p.tree.AppendChild(lv.node, item)
	lv.open, lv.slot = item, slotValue
	p.inlineContent(lv)
}

func (p *Parser) newEntry(lv *level, kind lineKind) {
	first := p.peek()
	entry := p.tree.New(cst.Node{
		Kind:    cst.KindMappingEntry,
		Flags:   p.startsLine(first),
		Start:   first.Start,
		End:     first.End,
		Indent:  p.line.Width(),
		Leading: p.line.Text,
	})
	p.tree.AppendChild(lv.node, entry)
	lv.open = entry

	switch kind {
	case lineExplicit:
		q := p.advance()
		n := p.node(entry)
		n.Indicator = q
		n.Flags |= cst.FlagExplicitKey
		lv.slot = slotKey
		p.inlineContent(lv)
		return
	case lineEmptyKey:
		lv.slot = slotKey
		pr := p.parseProps()
		p.attach(lv, p.emptyScalar(p.peek().Start, pr))
	default:
		lv.slot = slotKey
		key := p.parseNode(p.parseProps())
		if !key.IsValid() {
			key = p.emptyScalar(first.Start, props{})
		}
		p.attach(lv, key)
		if p.fatal != nil {
			return
		}
	}

	if !p.at(token.Colon) {
		// ключ на нескольких строках: двоеточия на этой строке уже нет
		p.report(diag.SynUnexpectedToken, diag.SevError, p.peek().Span, "expected ':' after mapping key")
		lv.slot = slotValue
		return
	}
	colon := p.advance()
	n := p.node(entry)
	n.Colon = colon
	n.End = colon.End
	lv.slot = slotValue
	p.inlineContent(lv)
}

// explicitValue handles the ':' line that follows a '?' key.
func (p *Parser) explicitValue(lv *level) {
	colon := p.advance()
	n := p.node(lv.open)
	n.Colon = colon
	if colon.End.Offset > n.End.Offset {
		n.End = colon.End
	}
	lv.slot = slotValue
	p.inlineContent(lv)
}

// inlineContent parses the rest of the current line into lv's open slot.
// Compact collections ("- - a", "- k: v", "? a: b") nest on the same line.
func (p *Parser) inlineContent(lv *level) {
	if p.atLineEnd() || !lv.awaits() {
		return
	}
	afterColon := lv.slot == slotValue && p.node(lv.open).Kind == cst.KindMappingEntry

	j := p.pos
	for p.toks[j].Kind.IsProperty() {
		j++
	}
	t := p.toks[j]
	switch {
	case t.Kind == token.Invalid:
		// лексер уже отрепортил
		return
	case t.Kind == token.Hyphen:
		if afterColon {
			p.report(diag.SynUnexpectedToken, diag.SevError, t.Span, "block sequence entries are not allowed on the same line as a mapping key")
			p.skipRestOfLine()
			return
		}
		c := int(t.Start.Col)
		p.newItem(p.openCollection(lv, cst.KindSequence, c, p.peek(), 0, p.parseProps()))

	case t.Kind == token.Question || t.Kind == token.Colon || p.keyAt(j):
		if afterColon {
			p.report(diag.SynNestedMappingValue, diag.SevError, t.Span, "mapping values are not allowed in this context")
			p.skipRestOfLine()
			return
		}
		kind := lineKey
		switch t.Kind {
		case token.Question:
			kind = lineExplicit
		case token.Colon:
			kind = lineEmptyKey
		}
		first := p.peek()
		p.newEntry(p.openCollection(lv, cst.KindMapping, int(first.Start.Col), first, 0, props{}), kind)

	case j > p.pos && t.Kind.IsLineEnd():
		p.pending = p.parseProps()

	default:
		id := p.parseNode(p.parseProps())
		if !id.IsValid() {
			if p.fatal == nil {
				p.unexpected(p.peek())
				p.skipRestOfLine()
			}
			return
		}
		p.attach(lv, id)
		p.notePlain(lv, id)
	}
}

// recover reports a line that fits no open block and keeps its content in
// the tree under the nearest open node. The levels closed for the line are
// reopened afterwards: depth is the stack size before closeLevels. Levels
// the line itself opens stay on top until dropRecovered removes them.
func (p *Parser) recover(top *level, c int, kind lineKind, depth int) {
	saved := slices.Clone(p.stack[:depth])
	mark := len(p.stack)
	defer func() {
		if len(p.stack) > mark && (p.recovered == 0 || p.recovered > len(saved)) {
			p.recovered = len(saved)
		}
		p.stack = append(saved, p.stack[mark:]...)
	}()

	first := p.peek()
	if kind == lineValue && !p.nodeStartAt(p.pos) {
		p.unexpected(first)
		p.skipRestOfLine()
		return
	}

	code, msg := diag.SynBadIndentation, "bad indentation of a mapping entry"
	switch kind {
	case lineSeq:
		code, msg = diag.SynMisalignedSequence, "bad indentation of a sequence entry"
	case lineValue, lineProps:
		msg = "unexpected content at this indentation"
	}
	p.report(code, diag.SevError, first.Span, msg)

	host := top.open
	if !host.IsValid() {
		host = top.node
	}
	switch kind {
	case lineSeq:
		p.newItem(p.newRecovered(host, cst.KindSequence, c, first))
	case lineKey, lineExplicit, lineEmptyKey:
		p.newEntry(p.newRecovered(host, cst.KindMapping, c, first), kind)
	case lineProps:
		p.parseProps()
	default:
		id := p.parseNode(p.parseProps())
		if id.IsValid() {
			p.node(id).Flags |= cst.FlagRecovered
			p.tree.AppendChild(host, id)
		}
	}
}

func (p *Parser) nodeStartAt(j int) bool {
	switch p.toks[j].Kind {
	case token.Scalar, token.Alias, token.LBracket, token.LBrace, token.Anchor, token.Tag:
		return true
	}
	return false
}

// notePlain remembers a plain scalar that ends its line; the next, deeper
// line may continue it.
func (p *Parser) notePlain(lv *level, id cst.NodeID) {
	n := p.node(id)
	if n.Kind != cst.KindScalar || n.Style != token.StylePlain {
		return
	}
	if k := p.peek().Kind; k != token.Newline && k != token.EOF {
		return
	}
	p.plain = id
	p.plainOwner = lv.indent
}

// continuePlain folds a continuation line into the remembered plain scalar.
func (p *Parser) continuePlain(c int) bool {
	if !p.plain.IsValid() || c <= p.plainOwner {
		return false
	}
	t := p.peek()
	if t.Kind != token.Scalar || t.Style != token.StylePlain || !p.peekAt(1).Kind.IsLineEnd() {
		return false
	}
	n := p.node(p.plain)
	p.advance()
	sep := " "
	if gap := int(t.Start.Line) - int(n.End.Line); gap > 1 {
		sep = ""
		for range gap - 1 {
			sep += "\n"
		}
	}
	n.Value += sep + t.Text
	n.End = t.End
	n.Text = string(p.file.Content[n.Start.Offset:t.End.Offset])
	n.Flags |= cst.FlagMultiline
	if p.at(token.Comment) {
		p.plain = cst.NoNodeID
	}
	return true
}
