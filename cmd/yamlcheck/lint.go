package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"yamlcheck/internal/config"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/diagfmt"
	"yamlcheck/internal/driver"
	"yamlcheck/internal/lint"
	"yamlcheck/internal/observ"
	"yamlcheck/internal/rules"
	"yamlcheck/internal/source"
	"yamlcheck/internal/version"
)

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [flags] [file|directory]...",
		Short: "Lint YAML files",
		Long: `Lint checks YAML files against the configured rules. Directories are walked
and filtered by the configuration's files and ignores patterns. Without
arguments the directory holding the configuration file is linted.`,
		RunE: runLint,
	}
	cmd.Flags().StringP("config", "c", "", "configuration file (default: search upwards for .yamlcheck.toml|.yaml|.yml)")
	cmd.Flags().StringP("format", "f", "pretty", "output format (pretty|short|json|sarif|msgpack)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Int("max-warnings", -1, "fail when more warnings than this are found (-1 = no limit)")
	cmd.Flags().StringArray("rule", nil, "override a rule: id=severity[:json-options] (repeatable)")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().Bool("watch", false, "keep running and re-lint files as they change")
	cmd.Flags().Bool("timings", false, "report scan, parse and lint timings")
	cmd.Flags().Bool("show-fixes", false, "print the lines suggested fixes would produce")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	return cmd
}

type lintOptions struct {
	format      string
	jobs        int
	maxWarnings int
	ruleFlags   []string
	ui          uiMode
	watch       bool
	timings     bool
	showFixes   bool
	withNotes   bool
	pathMode    diagfmt.PathMode
	maxDiags    int
	color       bool
	configPath  string
}

func readLintOptions(cmd *cobra.Command) (lintOptions, error) {
	var opts lintOptions
	var err error
	flags := cmd.Flags()

	if opts.configPath, err = flags.GetString("config"); err != nil {
		return opts, fmt.Errorf("failed to get config flag: %w", err)
	}
	if opts.format, err = flags.GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(opts.format)
	switch opts.format {
	case "pretty", "short", "json", "sarif", "msgpack":
	default:
		return opts, fmt.Errorf("unknown format %q (expected pretty|short|json|sarif|msgpack)", opts.format)
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.maxWarnings, err = flags.GetInt("max-warnings"); err != nil {
		return opts, fmt.Errorf("failed to get max-warnings flag: %w", err)
	}
	if opts.ruleFlags, err = flags.GetStringArray("rule"); err != nil {
		return opts, fmt.Errorf("failed to get rule flag: %w", err)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiStr); err != nil {
		return opts, err
	}
	if opts.watch, err = flags.GetBool("watch"); err != nil {
		return opts, fmt.Errorf("failed to get watch flag: %w", err)
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.showFixes, err = flags.GetBool("show-fixes"); err != nil {
		return opts, fmt.Errorf("failed to get show-fixes flag: %w", err)
	}
	if opts.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	modeStr, err := flags.GetString("path-mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(modeStr)
	if !ok {
		return opts, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", modeStr)
	}
	opts.pathMode = mode
	if opts.maxDiags, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.color, err = useColor(cmd, os.Stdout); err != nil {
		return opts, err
	}
	return opts, nil
}

// linter is everything one lint pass needs; watch mode reuses it.
type linter struct {
	cfg  *config.Config
	eng  *lint.Engine
	opts lintOptions
	wd   string
	out  io.Writer
	errw io.Writer
}

func runLint(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	defer cleanup()

	stopProfiling, err := startProfiling(cmd)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	defer stopProfiling()

	opts, err := readLintOptions(cmd)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	wd, err := os.Getwd()
	if err != nil {
		return failure("failed to get working directory: %w", err)
	}
	cfg, err := config.Resolve(opts.configPath, wd)
	if err != nil {
		return failure("%w", err)
	}
	if err := cfg.Override(opts.ruleFlags); err != nil {
		return failure("%w", err)
	}
	reg := rules.NewRegistry()
	eng, err := lint.NewEngine(reg, cfg.RuleSet(reg))
	if err != nil {
		return failure("invalid configuration: %w", err)
	}

	l := &linter{cfg: cfg, eng: eng, opts: opts, wd: wd, out: cmd.OutOrStdout(), errw: cmd.ErrOrStderr()}

	paths, err := driver.Discover(cfg, args)
	if err != nil {
		return failure("%w", err)
	}
	if len(paths) == 0 && !opts.watch {
		fmt.Fprintln(l.errw, "yamlcheck: no files to lint")
		return nil
	}

	ctx := cmd.Context()
	code, err := l.pass(ctx, paths, shouldUseTUI(opts.ui, len(paths)))
	if err != nil {
		return failure("%w", err)
	}
	if opts.watch {
		return l.watch(ctx, args)
	}
	if code != exitOK {
		return &exitError{code: code}
	}
	return nil
}

// pass lints paths once, renders the reports and returns the exit status.
func (l *linter) pass(ctx context.Context, paths []string, withUI bool) (int, error) {
	fs := source.NewFileSetWithBase(l.wd)
	dopts := driver.Options{
		MaxDiagnostics: l.opts.maxDiags,
		YAMLVersion:    l.cfg.YAMLVersion,
		Jobs:           l.opts.jobs,
		Timings:        l.opts.timings,
	}

	var results []driver.Result
	var err error
	if withUI {
		results, err = lintWithUI(ctx, l.out, fs, paths, l.eng, dopts)
	} else {
		results, err = driver.LintBatch(ctx, fs, paths, l.eng, dopts)
	}
	if err != nil {
		return exitFailure, err
	}

	reports := buildReports(results)
	if l.opts.timings && l.opts.format != "pretty" && l.opts.format != "short" {
		reports = append(reports, diagfmt.FileReport{Diagnostics: []diag.Diagnostic{driver.TimingSummary(results)}})
	}
	if err := l.render(reports); err != nil {
		return exitFailure, err
	}
	if l.opts.timings && (l.opts.format == "pretty" || l.opts.format == "short") {
		fmt.Fprint(l.errw, observ.Summary(batchTimings(results)))
	}
	return l.status(results, reports), nil
}

func (l *linter) render(reports []diagfmt.FileReport) error {
	jsonOpts := diagfmt.JSONOpts{
		PathMode:        l.opts.pathMode,
		BaseDir:         l.wd,
		IncludeNotes:    l.opts.withNotes,
		IncludeFixes:    true,
		IncludePreviews: l.opts.showFixes,
	}
	switch l.opts.format {
	case "short":
		return diagfmt.Short(l.out, reports, l.opts.pathMode, l.wd)
	case "json":
		return diagfmt.JSON(l.out, reports, jsonOpts)
	case "msgpack":
		return diagfmt.MsgPack(l.out, reports, jsonOpts)
	case "sarif":
		return diagfmt.Sarif(l.out, reports, l.sarifMeta())
	default:
		return diagfmt.Pretty(l.out, reports, diagfmt.PrettyOpts{
			Color:     l.opts.color,
			PathMode:  l.opts.pathMode,
			BaseDir:   l.wd,
			ShowNotes: l.opts.withNotes,
			ShowFixes: l.opts.showFixes,
		})
	}
}

func (l *linter) sarifMeta() diagfmt.SarifRunMeta {
	meta := diagfmt.SarifRunMeta{
		ToolName:       "yamlcheck",
		ToolVersion:    version.Version,
		InvocationArgs: os.Args[1:],
		PathMode:       l.opts.pathMode,
		BaseDir:        l.wd,
	}
	reg := rules.NewRegistry()
	for _, id := range l.eng.RuleIDs() {
		rule, ok := reg.Lookup(id)
		if !ok {
			continue
		}
		meta.Rules = append(meta.Rules, diagfmt.SarifRule{ID: id, Description: rule.Meta().Description})
	}
	return meta
}

// status maps the results to an exit status: an unreadable file beats lint
// errors, which beat the warning limit.
func (l *linter) status(results []driver.Result, reports []diagfmt.FileReport) int {
	for i := range results {
		if results[i].File == nil && results[i].Err != nil {
			return exitFailure
		}
	}
	counts := diagfmt.Count(reports)
	if counts.Errors > 0 {
		return exitProblem
	}
	if l.opts.maxWarnings >= 0 && counts.Warnings > l.opts.maxWarnings {
		fmt.Fprintf(l.errw, "yamlcheck: too many warnings (%d, maximum %d)\n", counts.Warnings, l.opts.maxWarnings)
		return exitProblem
	}
	return exitOK
}

// watch re-lints changed files until the process is interrupted.
func (l *linter) watch(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	roots := args
	if len(roots) == 0 {
		roots = []string{l.cfg.Root}
	}
	w, err := driver.NewWatcher(l.cfg, roots, driver.DefaultDebounce)
	if err != nil {
		return failure("failed to start watcher: %w", err)
	}
	fmt.Fprintln(l.errw, "yamlcheck: watching for changes (Ctrl+C to stop)")
	err = w.Run(ctx, func(paths []string) {
		if _, err := l.pass(ctx, paths, false); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(l.errw, "yamlcheck: %v\n", err)
		}
	})
	if err != nil {
		return failure("%w", err)
	}
	return nil
}

func buildReports(results []driver.Result) []diagfmt.FileReport {
	reports := make([]diagfmt.FileReport, 0, len(results))
	for i := range results {
		r := &results[i]
		if r.Bag == nil {
			continue
		}
		reports = append(reports, diagfmt.FileReport{
			Path:        r.Path,
			File:        r.File,
			Diagnostics: r.Bag.Items(),
		})
	}
	return reports
}

func batchTimings(results []driver.Result) observ.Report {
	totals := observ.NewTotals()
	for i := range results {
		if results[i].Timing != nil {
			totals.Add(*results[i].Timing)
		}
	}
	return totals.Report()
}
