package diag

import (
	"testing"

	"yamlcheck/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/catalog/sample.yaml", []byte("a:\n   b: 1\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     LintRuleViolation,
			Rule:     "indent",
			Message:  "Expected indentation of 2 spaces\nbut found 3.",
			Primary:  source.Span{File: file, Start: 3, End: 6},
		},
		{
			Severity: SevError,
			Code:     SynBadIndentation,
			Message:  "bad indentation",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 6, End: 7}, Msg: "level opened here"},
			},
		},
	}

	expected := "error SYN2004 catalog/sample.yaml:1:1 bad indentation\n" +
		"warning indent catalog/sample.yaml:2:1 Expected indentation of 2 spaces but found 3.\n" +
		"note SYN2004 catalog/sample.yaml:2:4 level opened here"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
