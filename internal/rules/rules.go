// Package rules holds the built-in checks. Every rule validates its options
// in Configure and keeps no state between documents.
package rules

import (
	"yamlcheck/internal/lint"
)

// Rule ids. A "yml/" prefix in configuration files is stripped before lookup.
const (
	IndentID              = "indent"
	NoEmptyKeyID          = "no-empty-key"
	NoEmptyMappingValueID = "no-empty-mapping-value"
	NoTabIndentID         = "no-tab-indent"
	QuestionIndicatorID   = "block-mapping-question-indicator-newline"
	ColonIndicatorID      = "block-mapping-colon-indicator-newline"
	HyphenIndicatorID     = "block-sequence-hyphen-indicator-newline"
	SortKeysID            = "sort-keys"
	SortSequenceValuesID  = "sort-sequence-values"
	PlainScalarID         = "plain-scalar"
	QuotesID              = "quotes"
)

// Builtin returns a fresh instance of every built-in rule.
func Builtin() []lint.Rule {
	return []lint.Rule{
		indentRule{},
		noEmptyKeyRule{},
		noEmptyMappingValueRule{},
		noTabIndentRule{},
		questionIndicatorRule{},
		colonIndicatorRule{},
		hyphenIndicatorRule{},
		sortKeysRule{},
		sortSequenceValuesRule{},
		plainScalarRule{},
		quotesRule{},
	}
}

// NewRegistry returns a registry with the built-in rules.
func NewRegistry() *lint.Registry {
	reg := lint.NewRegistry()
	reg.MustRegister(Builtin()...)
	return reg
}
