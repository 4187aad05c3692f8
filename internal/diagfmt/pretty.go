package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
)

type palette struct {
	err, warn, info, path, label, gutter, caret, added, removed *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan),
		path:    color.New(color.Bold),
		label:   color.New(color.Faint),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.label, p.gutter, p.caret, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty renders diagnostics for humans. Each report is expected sorted.
//
//	path:line:col: error indent: Expected indentation of 2 spaces but found 3.
//	  2 |    b: 1
//	    | ^^^
func Pretty(w io.Writer, reports []FileReport, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, r := range reports {
		path := displayPath(r, opts.PathMode, opts.BaseDir)
		for _, d := range r.Diagnostics {
			if err := prettyOne(w, p, r, path, d, opts); err != nil {
				return err
			}
		}
	}
	return Summary(w, reports, opts.Color)
}

func prettyOne(w io.Writer, p palette, r FileReport, path string, d diag.Diagnostic, opts PrettyOpts) error {
	var b strings.Builder
	line, col, _, _ := position(r, d)
	b.WriteString(p.path.Sprint(path))
	if line > 0 {
		fmt.Fprintf(&b, ":%d:%d", line, col)
	}
	b.WriteString(": ")
	b.WriteString(p.severity(d.Severity).Sprint(d.Severity.Label()))
	b.WriteString(" ")
	b.WriteString(p.label.Sprint(d.Label()))
	b.WriteString(": ")
	b.WriteString(d.Message)
	b.WriteString("\n")

	if r.File != nil && line > 0 {
		excerpt(&b, p, r.File, d)
	}
	if opts.ShowNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "  %s note: %s\n", p.gutter.Sprint("="), n.Msg)
		}
	}
	if opts.ShowFixes && r.File != nil {
		for _, fix := range d.Fixes {
			preview, err := buildFixPreview(r.File, fix)
			if err != nil {
				continue
			}
			fmt.Fprintf(&b, "  %s fix: %s\n", p.gutter.Sprint("="), fix.Title)
			for _, l := range preview.before {
				b.WriteString("    " + p.removed.Sprint("- "+visible(l)) + "\n")
			}
			for _, l := range preview.after {
				b.WriteString("    " + p.added.Sprint("+ "+visible(l)) + "\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// excerpt prints the first line of the span with a caret run under it.
func excerpt(b *strings.Builder, p palette, f *source.File, d diag.Diagnostic) {
	text := f.GetLine(d.Start.Line + 1)
	runes := []rune(text)
	startCol := min(int(d.Start.Col), len(runes))
	endCol := len(runes)
	if d.End.Line == d.Start.Line {
		endCol = min(int(d.End.Col), len(runes))
	}
	endCol = max(endCol, startCol)

	num := strconv.Itoa(int(d.Start.Line) + 1)
	pad := strings.Repeat(" ", len(num))
	pre := runewidth.StringWidth(visible(string(runes[:startCol])))
	width := max(runewidth.StringWidth(visible(string(runes[startCol:endCol]))), 1)

	fmt.Fprintf(b, "  %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), visible(text))
	fmt.Fprintf(b, "  %s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", pre), p.caret.Sprint(strings.Repeat("^", width)))
}

// visible shows a tab as one column, matching how columns are counted.
func visible(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}

// Summary prints the eslint-style totals line; nothing when clean.
func Summary(w io.Writer, reports []FileReport, colored bool) error {
	c := Count(reports)
	if c.Problems() == 0 {
		return nil
	}
	p := newPalette(colored)
	sev := p.warn
	if c.Errors > 0 {
		sev = p.err
	}
	line := fmt.Sprintf("\n✖ %s (%s, %s)\n", plural(c.Problems(), "problem"), plural(c.Errors, "error"), plural(c.Warnings, "warning"))
	if _, err := io.WriteString(w, sev.Sprint(line)); err != nil {
		return err
	}
	if c.Fixable > 0 {
		_, err := fmt.Fprintf(w, "  %s with a suggested fix\n", plural(c.Fixable, "problem"))
		return err
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
