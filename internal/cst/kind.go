package cst

// Kind discriminates CST node variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindDocument
	KindMapping
	KindMappingEntry
	KindSequence
	KindSequenceItem
	KindScalar
	KindAlias
	KindFlowMapping
	KindFlowSequence
	KindComment

	// KindCount is the number of node kinds; dispatch tables are sized by it.
	KindCount
)

var kindNames = [...]string{
	KindInvalid:      "Invalid",
	KindDocument:     "Document",
	KindMapping:      "Mapping",
	KindMappingEntry: "MappingEntry",
	KindSequence:     "Sequence",
	KindSequenceItem: "SequenceItem",
	KindScalar:       "Scalar",
	KindAlias:        "Alias",
	KindFlowMapping:  "FlowMapping",
	KindFlowSequence: "FlowSequence",
	KindComment:      "Comment",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsBlockCollection reports block mappings and sequences.
func (k Kind) IsBlockCollection() bool { return k == KindMapping || k == KindSequence }

// IsFlowCollection reports flow mappings and sequences.
func (k Kind) IsFlowCollection() bool { return k == KindFlowMapping || k == KindFlowSequence }

// IsMapping reports block and flow mappings.
func (k Kind) IsMapping() bool { return k == KindMapping || k == KindFlowMapping }

// IsSequence reports block and flow sequences.
func (k Kind) IsSequence() bool { return k == KindSequence || k == KindFlowSequence }

// Flags annotate nodes with structural facts the parser observed.
type Flags uint16

const (
	// FlagExplicitKey marks an entry introduced by '?'.
	FlagExplicitKey Flags = 1 << iota
	// FlagRecovered marks a collection opened by error recovery; it hangs off
	// the nearest consistent ancestor rather than a key or value slot.
	FlagRecovered
	// FlagIndentless marks a block sequence aligned with its parent's key.
	FlagIndentless
	// FlagStartsLine marks a node whose first token is the first on its line.
	FlagStartsLine
	// FlagImplicitPair marks a single-pair mapping written inside a flow sequence.
	FlagImplicitPair
	// FlagEmpty marks a zero-width scalar standing in for a missing key or
	// for a node written with properties only.
	FlagEmpty
	// FlagExplicitStart marks a document opened with '---'.
	FlagExplicitStart
	// FlagExplicitEnd marks a document closed with '...'.
	FlagExplicitEnd
	// FlagMultiline marks a scalar spanning several lines.
	FlagMultiline
)
