package cst

import (
	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node is one CST node. Children are owned; Parent is a plain back-reference.
// Kind-specific fields are zero for kinds that do not use them.
type Node struct {
	Kind     Kind
	Flags    Flags
	Parent   NodeID
	Children []NodeID

	Span  source.Span
	Start source.Pos
	End   source.Pos
	// Indent is the indentation width of the line the node starts on and
	// Leading is that line's raw leading whitespace.
	Indent  int
	Leading string

	// Scalar, Alias, Comment
	Style token.Style
	Text  string // raw source text
	Value string // decoded scalar content

	// Key is set on entries; Value on entries, items and documents.
	Key       NodeID
	ValueNode NodeID
	// Indicator is '-' on items and '?' on explicit entries.
	Indicator token.Token
	// Colon is the ':' of an entry, Kind Invalid when absent.
	Colon token.Token
	// Open and Close are the delimiters of flow collections.
	Open, Close token.Token

	Anchor token.Token
	Tag    token.Token

	// Document
	Directives []string
	Version    string
}

func (n *Node) Has(f Flags) bool { return n.Flags&f == f }

// HasColon reports whether an entry carries its ':' indicator.
func (n *Node) HasColon() bool { return n.Colon.Kind == token.Colon }

// HasIndicator reports whether an item or explicit entry carries its indicator.
func (n *Node) HasIndicator() bool { return n.Indicator.Kind != token.Invalid }

// Column is the zero-based column where the node starts.
func (n *Node) Column() int { return int(n.Start.Col) }

// IsEmptyScalar reports a scalar with no content that is not quoted.
func (n *Node) IsEmptyScalar() bool {
	return n.Kind == KindScalar && n.Value == "" && !n.Style.IsQuoted() && !n.Style.IsBlock()
}
