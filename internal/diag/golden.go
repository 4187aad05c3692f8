package diag

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"yamlcheck/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Label    string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden files. Paths are relative to the FileSet base dir.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatDiagnostics(diags, fs, includeNotes, "relative")
}

// FormatShortDiagnostics renders one line per diagnostic for the CLI short output.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatDiagnostics(diags, fs, includeNotes, "auto")
}

func formatDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool, pathMode string) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], fs, includeNotes, pathMode)
	}

	slices.SortStableFunc(rendered, func(di, dj goldenDiagnostic) int {
		if c := strings.Compare(di.Path, dj.Path); c != 0 {
			return c
		}
		if di.Line != dj.Line {
			return cmpInt(int(di.Line), int(dj.Line))
		}
		if di.Column != dj.Column {
			return cmpInt(int(di.Column), int(dj.Column))
		}
		if c := strings.Compare(di.Label, dj.Label); c != 0 {
			return c
		}
		return strings.Compare(di.Message, dj.Message)
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Label, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendDiagnostic(out []goldenDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes bool, pathMode string) []goldenDiagnostic {
	sev := d.Severity.Label()
	if d.Fatal {
		sev = "fatal"
	}
	if loc, ok := resolveSpan(fs, d.Primary, pathMode); ok {
		out = append(out, goldenDiagnostic{
			Severity: sev,
			Label:    d.Label(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		})
	}

	if includeNotes {
		for _, note := range d.Notes {
			nloc, ok := resolveSpan(fs, note.Span, pathMode)
			if !ok {
				continue
			}
			out = append(out, goldenDiagnostic{
				Severity: "note",
				Label:    d.Label(),
				Path:     nloc.Path,
				Line:     nloc.Line,
				Column:   nloc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}

	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span, pathMode string) (resolvedSpan, bool) {
	file := fs.Get(span.File)
	if file == nil {
		return resolvedSpan{}, false
	}
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath(pathMode, fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
