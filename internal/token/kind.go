package token

// Kind represents the category of a lexical token.
type Kind uint8

const (
	// Invalid marks bytes the scanner could not classify.
	Invalid Kind = iota
	// EOF marks the end of the input.
	EOF

	// Indent is the leading whitespace run of a line.
	Indent
	// Newline is a single line break.
	Newline
	// Comment runs from '#' to the end of the line.
	Comment

	// Scalar is a plain, quoted or block scalar (see Style).
	Scalar
	// BlockText is one content line of a literal or folded block scalar.
	BlockText

	// Hyphen is the block sequence entry indicator '-'.
	Hyphen
	// Question is the explicit mapping key indicator '?'.
	Question
	// Colon is the mapping value indicator ':'.
	Colon
	// Comma separates flow collection entries.
	Comma

	// LBracket opens a flow sequence.
	LBracket
	// RBracket closes a flow sequence.
	RBracket
	// LBrace opens a flow mapping.
	LBrace
	// RBrace closes a flow mapping.
	RBrace

	// Anchor is '&name'.
	Anchor
	// Alias is '*name'.
	Alias
	// Tag is '!tag', '!!tag' or '!<uri>'.
	Tag

	// DocStart is the '---' marker.
	DocStart
	// DocEnd is the '...' marker.
	DocEnd
	// Directive is a '%' line before a document.
	Directive
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Indent:    "Indent",
	Newline:   "Newline",
	Comment:   "Comment",
	Scalar:    "Scalar",
	BlockText: "BlockText",
	Hyphen:    "Hyphen",
	Question:  "Question",
	Colon:     "Colon",
	Comma:     "Comma",
	LBracket:  "LBracket",
	RBracket:  "RBracket",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
	Anchor:    "Anchor",
	Alias:     "Alias",
	Tag:       "Tag",
	DocStart:  "DocStart",
	DocEnd:    "DocEnd",
	Directive: "Directive",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsIndicator reports whether the kind is a structural indicator.
func (k Kind) IsIndicator() bool {
	switch k {
	case Hyphen, Question, Colon, Comma:
		return true
	default:
		return false
	}
}

// IsFlowStart reports '[' and '{'.
func (k Kind) IsFlowStart() bool { return k == LBracket || k == LBrace }

// IsFlowEnd reports ']' and '}'.
func (k Kind) IsFlowEnd() bool { return k == RBracket || k == RBrace }

// IsProperty reports node properties that prefix content.
func (k Kind) IsProperty() bool { return k == Anchor || k == Tag }

// IsLineEnd reports tokens after which nothing else can appear on the line.
func (k Kind) IsLineEnd() bool { return k == Newline || k == Comment || k == EOF }

// Style distinguishes scalar presentations.
type Style uint8

const (
	StylePlain Style = iota
	StyleSingleQuoted
	StyleDoubleQuoted
	StyleLiteral
	StyleFolded
)

func (s Style) String() string {
	switch s {
	case StylePlain:
		return "plain"
	case StyleSingleQuoted:
		return "single-quoted"
	case StyleDoubleQuoted:
		return "double-quoted"
	case StyleLiteral:
		return "literal"
	case StyleFolded:
		return "folded"
	default:
		return "style(?)"
	}
}

// IsQuoted reports single and double quoted styles.
func (s Style) IsQuoted() bool { return s == StyleSingleQuoted || s == StyleDoubleQuoted }

// IsBlock reports literal and folded styles.
func (s Style) IsBlock() bool { return s == StyleLiteral || s == StyleFolded }

// Flags carry irregularities the scanner recovered from.
type Flags uint8

const (
	// FlagTabInIndent marks an Indent run containing a tab.
	FlagTabInIndent Flags = 1 << iota
	// FlagInFlow marks tokens scanned inside a flow collection.
	FlagInFlow
	// FlagUnterminated marks a quoted scalar without its closing quote.
	FlagUnterminated
)
