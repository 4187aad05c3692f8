package driver

import (
	"encoding/json"
	"fmt"

	"yamlcheck/internal/diag"
	"yamlcheck/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	Files   int                  `json:"files,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "file"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, payload.Path)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Notes:    []diag.Note{{Msg: string(data)}},
	}
	if bag.Add(entry) {
		return
	}
	// лимит не должен съедать тайминги
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}

// TimingSummary builds the batch-level timing diagnostic from per-file reports.
func TimingSummary(results []Result) diag.Diagnostic {
	totals := observ.NewTotals()
	for i := range results {
		if results[i].Timing != nil {
			totals.Add(*results[i].Timing)
		}
	}
	report := totals.Report()
	bag := diag.NewBag(1)
	appendTimingDiagnostic(bag, timingPayload{Kind: "batch", Files: totals.Files(), TotalMS: report.TotalMS, Phases: report.Phases})
	return bag.Items()[0]
}
