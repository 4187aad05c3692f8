package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
)

func mixedReport(t *testing.T) FileReport {
	syn := diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.SynBadIndentation,
		Message:  "bad indentation",
		Primary:  source.Span{Start: 0, End: 1},
	}
	return newReport(t, "doc.yaml", "a:\n   b: 1\n", syn, indentFinding())
}

func TestJSONInterchangeShape(t *testing.T) {
	var buf bytes.Buffer
	err := JSON(&buf, []FileReport{mixedReport(t)}, JSONOpts{IncludeFixes: true, IncludePreviews: true})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var files []FileJSON
	if err := json.Unmarshal(buf.Bytes(), &files); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(files) != 1 || len(files[0].Messages) != 2 {
		t.Fatalf("unexpected shape: %+v", files)
	}
	f := files[0]
	if f.FilePath != "doc.yaml" || f.ErrorCount != 1 || f.WarningCount != 1 {
		t.Errorf("file summary = %+v", f)
	}

	syn := f.Messages[0]
	if syn.RuleID != nil || syn.Code != "SYN2004" || syn.Severity != "warning" {
		t.Errorf("structural message = %+v", syn)
	}

	got := f.Messages[1]
	want := MessageJSON{
		Code:      "LNT3001",
		Severity:  "error",
		Message:   "Expected indentation of 2 spaces but found 3.",
		Line:      2,
		Column:    1,
		EndLine:   2,
		EndColumn: 4,
		Fix: &FixJSON{
			Title:       "Reindent",
			Range:       [2]uint32{3, 6},
			Edits:       []FixEditJSON{{Range: [2]uint32{3, 6}, NewText: "  "}},
			BeforeLines: []string{"   b: 1"},
			AfterLines:  []string{"  b: 1"},
		},
	}
	rule := "indent"
	want.RuleID = &rule
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rule message mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONRawKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, []FileReport{mixedReport(t)}, JSONOpts{}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	msgs := raw[0]["messages"].([]any)
	first := msgs[0].(map[string]any)
	if v, ok := first["ruleId"]; !ok || v != nil {
		t.Errorf("ruleId must be present and null, got %v (%v)", v, ok)
	}
	second := msgs[1].(map[string]any)
	for _, key := range []string{"ruleId", "severity", "message", "line", "column", "endLine", "endColumn"} {
		if _, ok := second[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if _, ok := second["fix"]; ok {
		t.Errorf("fix must be omitted unless requested")
	}
}

func TestJSONMax(t *testing.T) {
	files := BuildFiles([]FileReport{mixedReport(t)}, JSONOpts{Max: 1})
	if len(files[0].Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(files[0].Messages))
	}
	if files[0].ErrorCount != 1 {
		t.Errorf("counts must cover the whole file, got %d errors", files[0].ErrorCount)
	}
}

func TestMsgPackRoundTrip(t *testing.T) {
	reports := []FileReport{mixedReport(t)}
	opts := JSONOpts{IncludeFixes: true}

	var buf bytes.Buffer
	if err := MsgPack(&buf, reports, opts); err != nil {
		t.Fatalf("MsgPack: %v", err)
	}
	got, err := DecodeMsgPack(&buf)
	if err != nil {
		t.Fatalf("DecodeMsgPack: %v", err)
	}
	if diff := cmp.Diff(BuildFiles(reports, opts), got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
