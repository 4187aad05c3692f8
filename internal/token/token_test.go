package token_test

import (
	"testing"

	"yamlcheck/internal/token"
)

func TestKindClasses(t *testing.T) {
	for _, k := range []token.Kind{token.Hyphen, token.Question, token.Colon, token.Comma} {
		if !k.IsIndicator() {
			t.Fatalf("%v should be an indicator", k)
		}
	}
	for _, k := range []token.Kind{token.Scalar, token.Indent, token.LBrace} {
		if k.IsIndicator() {
			t.Fatalf("%v must NOT be an indicator", k)
		}
	}
	if !token.LBracket.IsFlowStart() || !token.RBrace.IsFlowEnd() || token.RBrace.IsFlowStart() {
		t.Fatalf("flow delimiter classification is wrong")
	}
	if token.Directive.String() != "Directive" {
		t.Fatalf("unexpected name %q", token.Directive.String())
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		name  string
		style token.Style
		flags token.Flags
		text  string
		want  string
	}{
		{"plain", token.StylePlain, 0, "hello world", "hello world"},
		{"single", token.StyleSingleQuoted, 0, "'it''s'", "it's"},
		{"double escapes", token.StyleDoubleQuoted, 0, `"a\tb\n\"c\""`, "a\tb\n\"c\""},
		{"double folded", token.StyleDoubleQuoted, 0, "\"one\n   two\n\n  three\"", "one two\nthree"},
		{"escape before fold", token.StyleDoubleQuoted, 0, "\"a\\n\n  b\"", "a\n b"},
		{"escaped line break", token.StyleDoubleQuoted, 0, "\"one\\\n    two\"", "onetwo"},
		{"literal backslash at line end", token.StyleDoubleQuoted, 0, "\"a\\\\\n b\"", "a\\ b"},
		{"break before closing quote", token.StyleDoubleQuoted, 0, "\"a\n\"", "a "},
		{"single folded", token.StyleSingleQuoted, 0, "'x\n\n  y'", "x\ny"},
		{"unterminated", token.StyleSingleQuoted, token.FlagUnterminated, "'open", "open"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := token.Token{Kind: token.Scalar, Style: tt.style, Flags: tt.flags, Text: tt.text}
			if got := tok.Value(); got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
		})
	}
}
