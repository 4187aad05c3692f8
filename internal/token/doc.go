// Package token defines lexical token kinds for indentation-sensitive documents.
// Invariants:
//   - Token.Text is the exact source text of Token.Span.
//   - Start/End positions never decrease along a token stream.
//   - Every non-blank line begins with exactly one Indent token, possibly empty.
//   - Tabs inside an indentation run set FlagTabInIndent; they are not errors here.
package token
