// Package driver runs the scan, parse and lint pipeline over documents.
//
// One document is always handled by one goroutine from start to finish;
// LintBatch fans a set of files out over a bounded worker pool and the only
// value shared between workers is the read-only lint.Engine.
package driver

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"

	"yamlcheck/internal/cst"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/lexer"
	"yamlcheck/internal/lint"
	"yamlcheck/internal/observ"
	"yamlcheck/internal/parser"
	"yamlcheck/internal/source"
	"yamlcheck/internal/trace"
)

// Options tune a lint run.
type Options struct {
	// MaxDiagnostics caps the diagnostics kept per file; 0 means no limit.
	MaxDiagnostics int
	// YAMLVersion applies to documents without a %YAML directive.
	YAMLVersion string
	// Jobs bounds the batch worker pool; 0 means GOMAXPROCS.
	Jobs int
	// Timings adds an ObsTimings diagnostic to every result.
	Timings bool
	// KeepTree keeps the CST on the result for dump commands.
	KeepTree bool
	// Events receives progress; it is never closed by the driver.
	Events chan<- Event
}

// Result is the outcome for one file.
type Result struct {
	Path   string
	FileID source.FileID
	File   *source.File
	Bag    *diag.Bag
	Tree   *cst.Tree
	Timing *observ.Report
	// Err is the fatal lex or parse error, or the load failure.
	Err error
}

// Failed reports whether the file has error-level findings.
func (r *Result) Failed() bool {
	return r.Err != nil || r.Bag != nil && r.Bag.HasErrors()
}

// LintSource lints a document already held by fs. Content problems end up in
// the bag; the returned error is the fatal LexError or ParseError, if any,
// and it is mirrored by a Fatal diagnostic.
func LintSource(ctx context.Context, fs *source.FileSet, id source.FileID, eng *lint.Engine, opts Options) Result {
	file := fs.Get(id)
	res := Result{FileID: id, File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}
	if file == nil {
		res.Err = fmt.Errorf("unknown file id %d", id)
		return res
	}
	res.Path = file.Path

	span, ctx := trace.Start(ctx, trace.ScopeFile, file.Path)
	defer span.End("")

	timer := observ.NewTimer()
	rep := diag.BagReporter{Bag: res.Bag, File: file}

	emit(opts.Events, Event{File: file.Path, Stage: StageScan, Status: StatusWorking})
	scanSpan, _ := trace.Start(ctx, trace.ScopePhase, "scan")
	idx := timer.Begin("scan")
	toks, lexErr := lexer.Tokens(file, lexer.Options{Reporter: rep})
	timer.End(idx, fmt.Sprintf("%d tokens", len(toks)))
	scanSpan.WithExtra("tokens", fmt.Sprint(len(toks))).End("")

	emit(opts.Events, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	parseSpan, _ := trace.Start(ctx, trace.ScopePhase, "parse")
	idx = timer.Begin("parse")
	tree, parseErr := parser.Parse(file, toks, parserOptions(rep, opts))
	timer.End(idx, fmt.Sprintf("%d documents", len(tree.Docs)))
	parseSpan.End("")
	if opts.KeepTree {
		res.Tree = tree
	}

	if err := cmp.Or[error](lexErr, parseErr); err != nil {
		res.Err = err
		res.Bag.Add(fatalDiagnostic(file, err))
	} else if eng != nil {
		emit(opts.Events, Event{File: file.Path, Stage: StageLint, Status: StatusWorking})
		lintSpan, _ := trace.Start(ctx, trace.ScopePhase, "lint")
		idx = timer.Begin("lint")
		found := eng.Lint(tree)
		for _, d := range found {
			if !res.Bag.Add(d) {
				break
			}
		}
		timer.End(idx, fmt.Sprintf("%d findings", len(found)))
		lintSpan.WithExtra("findings", fmt.Sprint(len(found))).End("")
	}

	res.Bag.Dedup()
	res.Bag.Sort()
	report := timer.Report()
	res.Timing = &report
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, timingPayload{Kind: "file", Path: file.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	}

	status := StatusDone
	if res.Failed() {
		status = StatusError
	}
	emit(opts.Events, Event{File: file.Path, Stage: StageLint, Status: status})
	return res
}

// LintFile loads path into fs and lints it. A read failure is returned as
// an error and as an IO diagnostic on the result.
func LintFile(ctx context.Context, fs *source.FileSet, path string, eng *lint.Engine, opts Options) (Result, error) {
	id, err := fs.Load(path)
	if err != nil {
		res := loadFailure(path, err, opts)
		return res, err
	}
	res := LintSource(ctx, fs, id, eng, opts)
	return res, res.Err
}

func loadFailure(path string, err error, opts Options) Result {
	res := Result{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics), Err: err}
	res.Bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOLoadFileError,
		Message:  err.Error(),
		Fatal:    true,
	})
	emit(opts.Events, Event{File: path, Stage: StageLoad, Status: StatusError})
	return res
}

// fatalDiagnostic is the note closing a document whose lint was aborted.
func fatalDiagnostic(file *source.File, err error) diag.Diagnostic {
	d := diag.Diagnostic{Severity: diag.SevError, Fatal: true, Message: err.Error()}
	var lexErr *lexer.LexError
	var parseErr *parser.ParseError
	switch {
	case errors.As(err, &lexErr):
		d.Code = diag.LexInvalidEncoding
		d.Primary = lexErr.Span
		d.Message = lexErr.Msg
	case errors.As(err, &parseErr):
		d.Code = diag.SynUnterminatedFlow
		d.Primary = parseErr.Span
		d.Message = parseErr.Msg
	default:
		d.Code = diag.UnknownCode
	}
	d.Message = "lint aborted: " + d.Message
	d.Resolve(file)
	return d
}

// parserOptions caps parse errors at the per-file diagnostic limit.
func parserOptions(rep diag.Reporter, opts Options) parser.Options {
	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		maxErrors = 0
	}
	return parser.Options{
		Reporter:    diag.NewDedupReporter(rep),
		MaxErrors:   maxErrors,
		YAMLVersion: opts.YAMLVersion,
	}
}
