package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"yamlcheck/internal/lexer"
	"yamlcheck/internal/parser"
	"yamlcheck/internal/source"
)

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.yaml", []byte("a: 'b'\n")))
	toks, err := lexer.Tokens(file, lexer.Options{})
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Scalar     plain         \"a\" at 1:1-1:2", "single-quoted", "Colon", "EOF"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatalf("FormatTokensJSON: %v", err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != len(toks) {
		t.Errorf("got %d tokens, want %d", len(decoded), len(toks))
	}
}

func TestFormatTree(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.yaml", []byte("a: 1\n")))
	tree, err := parser.ParseFile(file, parser.Options{})
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	var buf bytes.Buffer
	if err := FormatTree(&buf, tree); err != nil {
		t.Fatalf("FormatTree: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	prefixes := []string{
		"Document ",
		"  Mapping 1:1-",
		"    MappingEntry 1:1-",
		"      Scalar plain \"a\" 1:1-1:2 indent=0",
		"      Scalar plain \"1\" 1:4-1:5 indent=0",
	}
	if len(lines) != len(prefixes) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i, p := range prefixes {
		if !strings.HasPrefix(lines[i], p) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], p)
		}
	}
	if !strings.Contains(lines[0], "version=1.2") {
		t.Errorf("document line = %q", lines[0])
	}
}
