package diag

import (
	"yamlcheck/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is an immutable finding about one document.
// Rule is empty for scanner and parser findings.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Rule     string
	Message  string
	Primary  source.Span
	Start    source.Pos
	End      source.Pos
	// Fatal marks the note that closes a document whose lint was aborted.
	Fatal bool
	Notes []Note
	Fixes []Fix
}

// FixRange returns the span touched by the first fix, if any.
func (d Diagnostic) FixRange() (source.Span, bool) {
	if len(d.Fixes) == 0 || len(d.Fixes[0].Edits) == 0 {
		return source.Span{}, false
	}
	sp := d.Fixes[0].Edits[0].Span
	for _, e := range d.Fixes[0].Edits[1:] {
		sp = sp.Cover(e.Span)
	}
	return sp, true
}

// Label returns the rule id or, for structural findings, the code id.
func (d Diagnostic) Label() string {
	if d.Rule != "" {
		return d.Rule
	}
	return d.Code.ID()
}

// Resolve fills Start and End from the primary span.
func (d *Diagnostic) Resolve(f *source.File) {
	if f == nil {
		return
	}
	d.Start = f.Pos(d.Primary.Start)
	d.End = f.Pos(d.Primary.End)
}
