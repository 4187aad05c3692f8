package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo              Code = 1000
	LexInvalidEncoding   Code = 1001
	LexUnterminatedQuote Code = 1002
	LexInvalidChar       Code = 1003
	LexBadBlockHeader    Code = 1004

	// Структурные (парсер)
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnterminatedFlow   Code = 2002
	SynMisalignedSequence Code = 2003
	SynBadIndentation     Code = 2004
	SynMismatchedFlowEnd  Code = 2005
	SynExpectComma        Code = 2006
	SynNestedMappingValue Code = 2007
	SynDuplicateProperty  Code = 2008

	// Правила
	LintInfo          Code = 3000
	LintRuleViolation Code = 3001
	LintRulePanic     Code = 3002

	// Ввод-вывод
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOConfigError   Code = 4002

	// Наблюдаемость
	ObsInfo    Code = 5000
	ObsTimings Code = 5001
)

var codeTitles = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexInvalidEncoding:    "Invalid encoding",
	LexUnterminatedQuote:  "Unterminated quoted scalar",
	LexInvalidChar:        "Invalid character",
	LexBadBlockHeader:     "Invalid block scalar header",
	SynInfo:               "Structural information",
	SynUnexpectedToken:    "Unexpected token",
	SynUnterminatedFlow:   "Unterminated flow collection",
	SynMisalignedSequence: "Misaligned sequence indicator",
	SynBadIndentation:     "Bad indentation",
	SynMismatchedFlowEnd:  "Mismatched flow collection end",
	SynExpectComma:        "Missing comma between flow entries",
	SynNestedMappingValue: "Mapping values are not allowed here",
	SynDuplicateProperty:  "Duplicate node property",
	LintInfo:              "Lint information",
	LintRuleViolation:     "Rule violation",
	LintRulePanic:         "Rule failed",
	IOInfo:                "I/O information",
	IOLoadFileError:       "Unable to read file",
	IOConfigError:         "Invalid configuration",
	ObsInfo:               "Observability information",
	ObsTimings:            "Timings",
}

// ID returns the stable identifier, e.g. SYN2003.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if title, ok := codeTitles[c]; ok {
		return title
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
