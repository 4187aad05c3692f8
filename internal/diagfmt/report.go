package diagfmt

import (
	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
)

// FileReport is what every reporter renders for one linted file.
type FileReport struct {
	Path string
	// File is nil when the file could not be read.
	File        *source.File
	Diagnostics []diag.Diagnostic
}

// Counts tallies findings over reports.
type Counts struct {
	Errors   int
	Warnings int
	Fatal    int
	Fixable  int
}

// Problems is errors plus warnings; informational entries do not count.
func (c Counts) Problems() int { return c.Errors + c.Warnings }

func Count(reports []FileReport) Counts {
	var c Counts
	for _, r := range reports {
		for _, d := range r.Diagnostics {
			switch d.Severity {
			case diag.SevError:
				c.Errors++
			case diag.SevWarning:
				c.Warnings++
			default:
				continue
			}
			if d.Fatal {
				c.Fatal++
			}
			if len(d.Fixes) > 0 {
				c.Fixable++
			}
		}
	}
	return c
}

func displayPath(r FileReport, mode PathMode, baseDir string) string {
	path := r.Path
	if r.File != nil && path == "" {
		path = r.File.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(path); err == nil {
			return abs
		}
	case PathModeRelative:
		if r.File != nil && r.File.Flags&source.FileVirtual != 0 {
			return path
		}
		if baseDir == "" {
			baseDir = "."
		}
		if rel, err := source.RelativePath(path, baseDir); err == nil {
			return rel
		}
	case PathModeBasename:
		return source.BaseName(path)
	case PathModeAuto:
		if r.File != nil {
			return r.File.FormatPath("auto", "")
		}
	}
	return path
}

// position returns 1-based line and column, or zeros for a diagnostic that
// has no place in a file.
func position(r FileReport, d diag.Diagnostic) (line, col, endLine, endCol uint32) {
	if r.File == nil {
		return 0, 0, 0, 0
	}
	s, e := d.Start.LineCol(), d.End.LineCol()
	return s.Line, s.Col, e.Line, e.Col
}
