package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamlcheck/internal/config"
	"yamlcheck/internal/diag"
	"yamlcheck/internal/lexer"
	"yamlcheck/internal/lint"
	"yamlcheck/internal/parser"
	"yamlcheck/internal/rules"
	"yamlcheck/internal/source"
	"yamlcheck/internal/trace"
)

func defaultEngine(t *testing.T) *lint.Engine {
	t.Helper()
	reg := rules.NewRegistry()
	eng, err := lint.NewEngine(reg, config.Default().RuleSet(reg))
	require.NoError(t, err)
	return eng
}

func lintString(t *testing.T, content string, opts Options) Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("doc.yaml", []byte(content))
	return LintSource(context.Background(), fs, id, defaultEngine(t), opts)
}

func labels(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		lc := d.Start.LineCol()
		out = append(out, fmt.Sprintf("%s@%d:%d", d.Label(), lc.Line, lc.Col))
	}
	return out
}

func TestLintSourceCollectsRuleFindings(t *testing.T) {
	res := lintString(t, "a:\n   b: 1\n: x\n", Options{})
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"indent@2:1", "no-empty-key@3:1"}, labels(res.Bag))
	assert.True(t, res.Failed())
	require.NotNil(t, res.Timing)
	assert.Len(t, res.Timing.Phases, 3)
}

func TestLintSourceCleanDocument(t *testing.T) {
	res := lintString(t, "a:\n  b: 1\n  c:\n    - x\n", Options{})
	require.NoError(t, res.Err)
	assert.Empty(t, res.Bag.Items())
	assert.False(t, res.Failed())
}

func TestLexErrorAbortsDocument(t *testing.T) {
	res := lintString(t, "a:\n   b: \xff\n", Options{})
	require.Error(t, res.Err)
	var lexErr *lexer.LexError
	assert.True(t, errors.As(res.Err, &lexErr))
	assert.True(t, errors.Is(res.Err, lexer.ErrInvalidEncoding))

	items := res.Bag.Items()
	require.NotEmpty(t, items)
	last := items[len(items)-1]
	assert.True(t, last.Fatal)
	assert.Equal(t, diag.LexInvalidEncoding, last.Code)
	assert.Contains(t, last.Message, "lint aborted")
	for _, d := range items {
		assert.Empty(t, d.Rule, "rules must not run on an aborted document")
	}
}

func TestUnterminatedFlowAbortsDocument(t *testing.T) {
	res := lintString(t, "a: [1, 2\nb: 3\n", Options{})
	assert.True(t, errors.Is(res.Err, parser.ErrUnterminatedFlow))
	require.True(t, res.Bag.HasFatal())
	d := res.Bag.Items()[res.Bag.Len()-1]
	assert.Equal(t, diag.SynUnterminatedFlow, d.Code)
	assert.Equal(t, uint32(0), d.Start.Line)
	assert.Equal(t, uint32(3), d.Start.Col)
}

func TestMaxDiagnosticsKeepsFatal(t *testing.T) {
	res := lintString(t, "k: ['a' 'b' 'c'\n", Options{MaxDiagnostics: 1})
	require.Error(t, res.Err)
	require.Equal(t, 2, res.Bag.Len())
	assert.Equal(t, diag.SynExpectComma, res.Bag.Items()[0].Code)
	assert.True(t, res.Bag.Items()[1].Fatal)
}

func TestMaxDiagnosticsCapsParseErrors(t *testing.T) {
	assert.Equal(t, uint(3), parserOptions(nil, Options{MaxDiagnostics: 3}).MaxErrors)
	assert.Equal(t, uint(0), parserOptions(nil, Options{MaxDiagnostics: -1}).MaxErrors)

	src := "a: b: c\nd: e: f\ng: h: i\n"
	res := lintString(t, src, Options{MaxDiagnostics: 2})
	assert.Equal(t, []string{"SYN2007@1:4", "SYN2007@2:4"}, labels(res.Bag))
}

func TestTimingsDiagnostic(t *testing.T) {
	res := lintString(t, "a: 1\n", Options{Timings: true})
	items := res.Bag.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.ObsTimings, items[0].Code)
	assert.Equal(t, diag.SevInfo, items[0].Severity)
	require.Len(t, items[0].Notes, 1)
	assert.Contains(t, items[0].Notes[0].Msg, `"phases"`)
	assert.False(t, res.Failed())

	sum := TimingSummary([]Result{res, res})
	assert.Contains(t, sum.Message, "timings (batch)")
	assert.Contains(t, sum.Notes[0].Msg, `"files":2`)
}

func TestTraceSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tracer)

	fs := source.NewFileSet()
	id := fs.AddVirtual("doc.yaml", []byte("a: 1\n"))
	LintSource(ctx, fs, id, defaultEngine(t), Options{})
	require.NoError(t, tracer.Flush())

	out := buf.String()
	for _, want := range []string{"→ doc.yaml", "→ scan", "← parse", "← lint"} {
		assert.Contains(t, out, want)
	}
}

func TestTokenizeAndParse(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("doc.yaml", []byte("a: [b\n"))

	toks, bag, err := Tokenize(fs, id, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, toks)
	assert.Empty(t, bag.Items())

	tree, bag, err := Parse(fs, id, Options{})
	require.Error(t, err)
	require.NotNil(t, tree)
	assert.True(t, bag.HasFatal())
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func TestDiscover(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.yaml":              "a: 1\n",
		"sub/b.yml":           "b: 1\n",
		"sub/notes.txt":       "x",
		"node_modules/x.yaml": "x: 1\n",
		".git/d.yaml":         "d: 1\n",
	})
	cfg := config.Default()
	cfg.Root = root

	got, err := Discover(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.yaml"),
		filepath.Join(root, "sub", "b.yml"),
	}, got)

	got, err = Discover(cfg, []string{
		filepath.Join(root, "sub", "notes.txt"),
		filepath.Join(root, "node_modules", "x.yaml"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "sub", "notes.txt")}, got)

	_, err = Discover(cfg, []string{filepath.Join(root, "missing")})
	assert.Error(t, err)
}

func TestLintBatchKeepsOrder(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.yaml": "a:\n   b: 1\n",
		"b.yaml": "b: 1\n",
		"c.yaml": "c: {\n",
	})
	paths := []string{
		filepath.Join(root, "a.yaml"),
		filepath.Join(root, "missing.yaml"),
		filepath.Join(root, "b.yaml"),
		filepath.Join(root, "c.yaml"),
	}
	events := make(chan Event, 64)
	results, err := LintBatch(context.Background(), source.NewFileSet(), paths, defaultEngine(t), Options{Jobs: 2, Events: events})
	require.NoError(t, err)
	require.Len(t, results, 4)
	close(events)

	for i, res := range results {
		assert.Equal(t, paths[i], res.Path)
	}
	assert.Equal(t, []string{"indent@2:1"}, labels(results[0].Bag))
	assert.Equal(t, diag.IOLoadFileError, results[1].Bag.Items()[0].Code)
	assert.Error(t, results[1].Err)
	assert.False(t, results[2].Failed())
	assert.True(t, errors.Is(results[3].Err, parser.ErrUnterminatedFlow))

	final := make(map[string]Status)
	for ev := range events {
		final[ev.File] = ev.Status
	}
	assert.Equal(t, StatusError, final[paths[0]])
	assert.Equal(t, StatusError, final[paths[1]])
	assert.Equal(t, StatusDone, final[paths[2]])
}

func TestLintBatchStopsOnCancel(t *testing.T) {
	root := writeTree(t, map[string]string{"a.yaml": "a: 1\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := LintBatch(ctx, source.NewFileSet(), []string{filepath.Join(root, "a.yaml")}, defaultEngine(t), Options{})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Bag)
}

func TestWatcherReportsWrites(t *testing.T) {
	root := writeTree(t, map[string]string{"a.yaml": "a: 1\n"})
	cfg := config.Default()
	cfg.Root = root

	w, err := NewWatcher(cfg, []string{root}, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan []string, 4)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(paths []string) { changed <- paths }) }()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.yaml"), []byte("a: 2\n"), 0o600))

	select {
	case paths := <-changed:
		assert.Equal(t, []string{filepath.Join(root, "a.yaml")}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	cancel()
	assert.NoError(t, <-done)
}
