package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"yamlcheck/internal/diag"
)

func TestSarif(t *testing.T) {
	r := mixedReport(t)
	r.Diagnostics = append(r.Diagnostics, diag.Diagnostic{Severity: diag.SevInfo, Code: diag.ObsTimings, Message: "timings"})

	var buf bytes.Buffer
	meta := SarifRunMeta{
		ToolName:       "yamlcheck",
		ToolVersion:    "1.0.0",
		InvocationArgs: []string{"lint", "."},
		Rules:          []SarifRule{{ID: "indent", Description: "enforce consistent indentation"}},
	}
	if err := Sarif(&buf, []FileReport{r}, meta); err != nil {
		t.Fatalf("Sarif: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log: %+v", log)
	}
	run := log.Runs[0]
	if len(run.Results) != 2 {
		t.Fatalf("info entries must be skipped, got %d results", len(run.Results))
	}
	if got := run.Results[0]; got.RuleID != "SYN2004" || got.Level != "warning" {
		t.Errorf("first result = %+v", got)
	}
	region := run.Results[1].Locations[0].PhysicalLocation.Region
	if region == nil || region.StartLine != 2 || region.StartColumn != 1 || region.EndColumn != 4 {
		t.Errorf("region = %+v", region)
	}
	if len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[1].ID != "SYN2004" {
		t.Errorf("rules = %+v", run.Tool.Driver.Rules)
	}
	if len(meta.Rules) != 1 {
		t.Errorf("caller's rule list was modified")
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("invocations = %+v", run.Invocations)
	}
}
