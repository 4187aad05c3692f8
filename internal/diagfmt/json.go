package diagfmt

import (
	"encoding/json"
	"io"

	"yamlcheck/internal/diag"
)

// NoteJSON представляет дополнительную заметку.
type NoteJSON struct {
	Message string `json:"message"`
	Line    uint32 `json:"line,omitempty"`
	Column  uint32 `json:"column,omitempty"`
}

// FixEditJSON is one replacement, in byte offsets of the file.
type FixEditJSON struct {
	Range   [2]uint32 `json:"range"`
	NewText string    `json:"text"`
}

// FixJSON представляет предложение по исправлению.
type FixJSON struct {
	Title       string        `json:"title"`
	Range       [2]uint32     `json:"range"`
	Edits       []FixEditJSON `json:"edits"`
	BeforeLines []string      `json:"beforeLines,omitempty"`
	AfterLines  []string      `json:"afterLines,omitempty"`
}

// MessageJSON is one diagnostic in the interchange shape. RuleID is null for
// scanner, parser and I/O findings; Code always identifies them.
type MessageJSON struct {
	RuleID    *string    `json:"ruleId"`
	Code      string     `json:"code"`
	Severity  string     `json:"severity"`
	Message   string     `json:"message"`
	Line      uint32     `json:"line,omitempty"`
	Column    uint32     `json:"column,omitempty"`
	EndLine   uint32     `json:"endLine,omitempty"`
	EndColumn uint32     `json:"endColumn,omitempty"`
	Fatal     bool       `json:"fatal,omitempty"`
	Fix       *FixJSON   `json:"fix,omitempty"`
	Notes     []NoteJSON `json:"notes,omitempty"`
}

// FileJSON groups the messages of one file.
type FileJSON struct {
	FilePath        string        `json:"filePath"`
	Messages        []MessageJSON `json:"messages"`
	ErrorCount      int           `json:"errorCount"`
	WarningCount    int           `json:"warningCount"`
	FatalErrorCount int           `json:"fatalErrorCount"`
}

// BuildFiles формирует структуру вывода без сериализации.
func BuildFiles(reports []FileReport, opts JSONOpts) []FileJSON {
	out := make([]FileJSON, 0, len(reports))
	for _, r := range reports {
		fj := FileJSON{
			FilePath: displayPath(r, opts.PathMode, opts.BaseDir),
			Messages: make([]MessageJSON, 0, len(r.Diagnostics)),
		}
		c := Count([]FileReport{r})
		fj.ErrorCount, fj.WarningCount, fj.FatalErrorCount = c.Errors, c.Warnings, c.Fatal

		items := r.Diagnostics
		if opts.Max > 0 && opts.Max < len(items) {
			items = items[:opts.Max]
		}
		for _, d := range items {
			fj.Messages = append(fj.Messages, buildMessage(r, d, opts))
		}
		out = append(out, fj)
	}
	return out
}

func buildMessage(r FileReport, d diag.Diagnostic, opts JSONOpts) MessageJSON {
	m := MessageJSON{
		Code:     d.Code.ID(),
		Severity: d.Severity.Label(),
		Message:  d.Message,
		Fatal:    d.Fatal,
	}
	if d.Rule != "" {
		rule := d.Rule
		m.RuleID = &rule
	}
	m.Line, m.Column, m.EndLine, m.EndColumn = position(r, d)

	if opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			nj := NoteJSON{Message: n.Msg}
			if r.File != nil && !n.Span.Empty() {
				lc := r.File.Pos(n.Span.Start).LineCol()
				nj.Line, nj.Column = lc.Line, lc.Col
			}
			m.Notes = append(m.Notes, nj)
		}
	}

	if opts.IncludeFixes {
		if sp, ok := d.FixRange(); ok {
			fix := d.Fixes[0]
			fj := &FixJSON{Title: fix.Title, Range: [2]uint32{sp.Start, sp.End}}
			for _, e := range fix.Edits {
				fj.Edits = append(fj.Edits, FixEditJSON{Range: [2]uint32{e.Span.Start, e.Span.End}, NewText: e.NewText})
			}
			if opts.IncludePreviews {
				if preview, err := buildFixPreview(r.File, fix); err == nil {
					fj.BeforeLines, fj.AfterLines = preview.before, preview.after
				}
			}
			m.Fix = fj
		}
	}
	return m
}

// JSON writes the reports as an indented JSON array of FileJSON.
func JSON(w io.Writer, reports []FileReport, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildFiles(reports, opts))
}
