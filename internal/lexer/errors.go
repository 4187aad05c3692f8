package lexer

import (
	"errors"
	"fmt"

	"yamlcheck/internal/source"
)

// ErrInvalidEncoding is wrapped by every LexError.
var ErrInvalidEncoding = errors.New("invalid encoding")

// LexError reports input the scanner cannot continue past.
type LexError struct {
	Span source.Span
	Pos  source.Pos
	Msg  string
}

func (e *LexError) Error() string {
	lc := e.Pos.LineCol()
	return fmt.Sprintf("%d:%d: %s", lc.Line, lc.Col, e.Msg)
}

func (e *LexError) Unwrap() error { return ErrInvalidEncoding }
