package diagfmt

import (
	"encoding/json"
	"io"
	"slices"

	"yamlcheck/internal/diag"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string                `json:"name"`
	Version        string                `json:"version,omitempty"`
	InformationURI string                `json:"informationUri,omitempty"`
	Rules          []sarifRuleDescriptor `json:"rules,omitempty"`
}

type sarifRuleDescriptor struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "note"
}

// Sarif форматирует диагностики в SARIF v2.1.0. Информационные записи
// (тайминги) не выводятся.
func Sarif(w io.Writer, reports []FileReport, meta SarifRunMeta) error {
	meta.Rules = slices.Clone(meta.Rules)
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
		}},
		Results: make([]sarifResult, 0),
	}
	for _, r := range meta.Rules {
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRuleDescriptor{
			ID:               r.ID,
			ShortDescription: sarifMessage{Text: r.Description},
		})
	}
	known := func(id string) bool {
		return slices.ContainsFunc(meta.Rules, func(r SarifRule) bool { return r.ID == id })
	}

	for _, r := range reports {
		uri := displayPath(r, meta.PathMode, meta.BaseDir)
		for _, d := range r.Diagnostics {
			if d.Severity == diag.SevInfo {
				continue
			}
			res := sarifResult{
				RuleID:  d.Label(),
				Level:   sarifLevel(d.Severity),
				Message: sarifMessage{Text: d.Message},
			}
			loc := sarifLocation{PhysicalLocation: sarifPhysical{ArtifactLocation: sarifArtifact{URI: uri}}}
			if line, col, endLine, endCol := position(r, d); line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: line, StartColumn: col, EndLine: endLine, EndColumn: endCol}
			}
			res.Locations = []sarifLocation{loc}
			run.Results = append(run.Results, res)

			// структурные коды попадают в rules по мере появления
			if d.Rule == "" && !known(res.RuleID) {
				meta.Rules = append(meta.Rules, SarifRule{ID: res.RuleID, Description: d.Code.Title()})
				run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRuleDescriptor{
					ID:               res.RuleID,
					ShortDescription: sarifMessage{Text: d.Code.Title()},
				})
			}
		}
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: Count(reports).Errors == 0,
		}}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}
