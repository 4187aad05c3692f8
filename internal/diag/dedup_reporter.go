package diag

import "yamlcheck/internal/source"

type dedupKey struct {
	code  Code
	file  source.FileID
	start uint32
	msg   string
}

// DedupReporter suppresses repeated diagnostics with the same code, start and message.
// Parser recovery can revisit one position several times.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, file: primary.File, start: primary.Start, msg: msg}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}
