package parser

import (
	"errors"
	"fmt"

	"yamlcheck/internal/source"
)

// ErrUnterminatedFlow is wrapped by every ParseError.
var ErrUnterminatedFlow = errors.New("unterminated flow collection")

// ParseError is the only structural error the parser cannot recover from:
// a flow collection still open at the end of its document.
type ParseError struct {
	Span source.Span
	Pos  source.Pos
	Msg  string
}

func (e *ParseError) Error() string {
	lc := e.Pos.LineCol()
	return fmt.Sprintf("%d:%d: %s", lc.Line, lc.Col, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrUnterminatedFlow }
