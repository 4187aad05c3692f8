package lexer_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"yamlcheck/internal/diag"
	"yamlcheck/internal/lexer"
	"yamlcheck/internal/source"
	"yamlcheck/internal/testkit"
	"yamlcheck/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func makeFile(src string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.yaml", []byte(src)))
}

func scanAll(t *testing.T, src string) ([]token.Token, *testReporter) {
	t.Helper()
	rep := &testReporter{}
	toks, err := lexer.Tokens(makeFile(src), lexer.Options{Reporter: rep})
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	return toks, rep
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func texts(toks []token.Token, k token.Kind) []string {
	var out []string
	for _, tok := range toks {
		if tok.Kind == k {
			out = append(out, tok.Text)
		}
	}
	return out
}

const (
	I  = token.Indent
	NL = token.Newline
	S  = token.Scalar
	C  = token.Colon
	H  = token.Hyphen
)

func TestBlockStructureTokens(t *testing.T) {
	toks, rep := scanAll(t, "a: 1\nb:\n  - x\n")
	want := []token.Kind{
		I, S, C, S, NL,
		I, S, C, NL,
		I, H, S, NL,
		token.EOF,
	}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	hyphen := toks[10]
	if hyphen.Start.Line != 2 || hyphen.Start.Col != 2 || hyphen.Indent != 2 {
		t.Fatalf("hyphen at %+v indent %d", hyphen.Start, hyphen.Indent)
	}
}

func TestTabInIndentationIsFlagged(t *testing.T) {
	toks, rep := scanAll(t, "a:\n\t b: 1\n")
	var flagged []token.Token
	for _, tok := range toks {
		if tok.Kind == token.Indent && tok.Has(token.FlagTabInIndent) {
			flagged = append(flagged, tok)
		}
	}
	if len(flagged) != 1 || flagged[0].Start.Line != 1 || flagged[0].Width() != 2 {
		t.Fatalf("flagged indents = %+v", flagged)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("tabs must not produce scanner diagnostics: %v", rep.diagnostics)
	}
}

func TestPlainScalarBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		scalars []string
	}{
		{"hash inside", "a: b#c # note", []string{"a", "b#c"}},
		{"url", "url: http://x.y:80/z", []string{"url", "http://x.y:80/z"}},
		{"negative", "- -1", []string{"-1"}},
		{"trailing blanks", "k: v   \n", []string{"k", "v"}},
		{"inner spaces", "k: two words", []string{"k", "two words"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, _ := scanAll(t, tt.src)
			if diff := cmp.Diff(tt.scalars, texts(toks, token.Scalar)); diff != "" {
				t.Fatalf("scalars mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlowCollections(t *testing.T) {
	toks, _ := scanAll(t, `k: [a, {b: c}, 'd', {"e":1}]`)
	want := []token.Kind{
		I, S, C, token.LBracket,
		S, token.Comma,
		token.LBrace, S, C, S, token.RBrace, token.Comma,
		S, token.Comma,
		token.LBrace, S, C, S, token.RBrace,
		token.RBracket, token.EOF,
	}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	for _, tok := range toks[4:19] {
		if !tok.Has(token.FlagInFlow) {
			t.Fatalf("token %v %q should carry FlagInFlow", tok.Kind, tok.Text)
		}
	}
}

func TestBlockScalar(t *testing.T) {
	toks, _ := scanAll(t, "a: |\n  line1\n   line2\n\nb: 2\n")
	want := []token.Kind{
		I, S, C, S, NL,
		I, token.BlockText, NL,
		I, token.BlockText, NL,
		NL,
		I, S, C, S, NL,
		token.EOF,
	}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if toks[3].Style != token.StyleLiteral {
		t.Fatalf("header style = %v", toks[3].Style)
	}
	if diff := cmp.Diff([]string{"line1", " line2"}, texts(toks, token.BlockText)); diff != "" {
		t.Fatalf("block text mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockScalarInsideSequenceEndsAtSibling(t *testing.T) {
	toks, _ := scanAll(t, "- key: >-\n    folded\n  other: 1\n")
	if diff := cmp.Diff([]string{"folded"}, texts(toks, token.BlockText)); diff != "" {
		t.Fatalf("block text mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"key", ">-", "other", "1"}, texts(toks, token.Scalar)); diff != "" {
		t.Fatalf("scalars mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentMarkersAndDirectives(t *testing.T) {
	toks, _ := scanAll(t, "%YAML 1.2\n---\na: 1\n...\n")
	want := []token.Kind{
		I, token.Directive, NL,
		I, token.DocStart, NL,
		I, S, C, S, NL,
		I, token.DocEnd, NL,
		token.EOF,
	}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestPropertiesAndAliases(t *testing.T) {
	toks, _ := scanAll(t, "a: &x !!str v\nb: *x\n")
	if diff := cmp.Diff([]string{"&x"}, texts(toks, token.Anchor)); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"!!str"}, texts(toks, token.Tag)); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"*x"}, texts(toks, token.Alias)); diff != "" {
		t.Fatal(diff)
	}
}

func TestMultilineQuotedScalar(t *testing.T) {
	toks, _ := scanAll(t, "a: \"one\n  two\"\nb: 1\n")
	q := toks[3]
	if q.Kind != token.Scalar || q.Style != token.StyleDoubleQuoted {
		t.Fatalf("expected double quoted scalar, got %v %v", q.Kind, q.Style)
	}
	if q.Start.Line != 0 || q.End.Line != 1 || q.Value() != "one two" {
		t.Fatalf("quoted scalar %+v..%+v value %q", q.Start, q.End, q.Value())
	}
}

func TestUnterminatedQuoteIsRecoverable(t *testing.T) {
	toks, rep := scanAll(t, "a: 'oops\n---\nb: 1\n")
	if !toks[3].Has(token.FlagUnterminated) {
		t.Fatalf("expected unterminated flag on %q", toks[3].Text)
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedQuote {
		t.Fatalf("diagnostics = %+v", rep.diagnostics)
	}
	if !slices.Contains(kinds(toks), token.DocStart) {
		t.Fatalf("document marker must end the quoted scalar")
	}
}

func TestInvalidEncoding(t *testing.T) {
	rep := &testReporter{}
	toks, err := lexer.Tokens(makeFile("a: 1\nb: \xff\n"), lexer.Options{Reporter: rep})
	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) || !errors.Is(err, lexer.ErrInvalidEncoding) {
		t.Fatalf("expected LexError, got %v", err)
	}
	if lexErr.Pos.Line != 1 || lexErr.Pos.Col != 3 {
		t.Fatalf("error position = %+v", lexErr.Pos)
	}
	n := len(toks)
	if toks[n-2].Kind != token.Invalid || toks[n-1].Kind != token.EOF {
		t.Fatalf("stream tail = %v", kinds(toks[n-2:]))
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("encoding errors are returned, not reported: %+v", rep.diagnostics)
	}
}

func TestStreamIsRestartableAndMonotonic(t *testing.T) {
	src := "# head\nlist:\n  - a: 'x'\n    b: [1, 2,\n      3]\n  - |\n    text\nmap: {k: v}\n"
	file := makeFile(src)
	first := slices.Collect(lexer.All(file))
	second := slices.Collect(lexer.All(file))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second scan differs (-first +second):\n%s", diff)
	}
	if err := testkit.CheckTokenInvariants(file, first); err != nil {
		t.Fatal(err)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := lexer.New(makeFile("a: b"), lexer.Options{})
	if lx.Peek().Kind != token.Indent || lx.Next().Kind != token.Indent {
		t.Fatalf("Peek/Next disagree")
	}
	if tok := lx.Next(); tok.Kind != token.Scalar || tok.Text != "a" {
		t.Fatalf("got %v %q", tok.Kind, tok.Text)
	}
	for lx.Next().Kind != token.EOF {
	}
	if lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must repeat")
	}
}
