package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"yamlcheck/internal/source"
	"yamlcheck/internal/token"
)

// PosJSON is a 1-based position plus the byte offset.
type PosJSON struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
	Offset uint32 `json:"offset"`
}

type TokenOutput struct {
	Kind  string   `json:"kind"`
	Style string   `json:"style,omitempty"`
	Text  string   `json:"text,omitempty"`
	Start PosJSON  `json:"start"`
	End   PosJSON  `json:"end"`
	Flags []string `json:"flags,omitempty"`
}

func tokenFlags(f token.Flags) []string {
	var out []string
	if f&token.FlagTabInIndent != 0 {
		out = append(out, "tab-in-indent")
	}
	if f&token.FlagInFlow != 0 {
		out = append(out, "in-flow")
	}
	if f&token.FlagUnterminated != 0 {
		out = append(out, "unterminated")
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате.
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %-10s", i+1, tok.Kind.String())
		if tok.Kind == token.Scalar {
			fmt.Fprintf(&b, " %-13s", tok.Style.String())
		}
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		s, e := tok.Start.LineCol(), tok.End.LineCol()
		fmt.Fprintf(&b, " at %d:%d-%d:%d", s.Line, s.Col, e.Line, e.Col)
		if flags := tokenFlags(tok.Flags); len(flags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(flags, ", "))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Start: posJSON(tok.Start),
			End:   posJSON(tok.End),
			Flags: tokenFlags(tok.Flags),
		}
		if tok.Kind == token.Scalar {
			out.Style = tok.Style.String()
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func posJSON(p source.Pos) PosJSON {
	lc := p.LineCol()
	return PosJSON{Line: lc.Line, Column: lc.Col, Offset: p.Offset}
}
