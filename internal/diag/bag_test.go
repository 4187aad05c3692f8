package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"yamlcheck/internal/source"
)

func TestBagSortOrdersByPositionThenRule(t *testing.T) {
	b := NewBag(0)
	b.Add(Diagnostic{Rule: "no-tab-indent", Code: LintRuleViolation, Primary: source.Span{Start: 10, End: 11}})
	b.Add(Diagnostic{Fatal: true, Code: SynUnterminatedFlow, Primary: source.Span{Start: 0, End: 1}})
	b.Add(Diagnostic{Rule: "indent", Code: LintRuleViolation, Primary: source.Span{Start: 10, End: 12}})
	b.Add(Diagnostic{Code: SynBadIndentation, Primary: source.Span{Start: 4, End: 5}})
	b.Sort()

	var got []string
	for _, d := range b.Items() {
		got = append(got, d.Label())
	}
	want := []string{"SYN2004", "indent", "no-tab-indent", "SYN2002"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBagLimitAndDedup(t *testing.T) {
	b := NewBag(2)
	d := Diagnostic{Rule: "indent", Message: "m", Primary: source.Span{Start: 1, End: 2}}
	if !b.Add(d) || !b.Add(d) {
		t.Fatalf("first two adds must succeed")
	}
	if b.Add(Diagnostic{Rule: "x"}) {
		t.Fatalf("limit not enforced")
	}
	if !b.Add(Diagnostic{Fatal: true}) {
		t.Fatalf("fatal diagnostics bypass the limit")
	}
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("Len after dedup = %d, want 2", b.Len())
	}
	if !b.HasFatal() {
		t.Fatalf("HasFatal = false")
	}
}

func TestFixRange(t *testing.T) {
	d := New(SevError, LintRuleViolation, source.Span{Start: 5, End: 6}, "x").
		WithFix("reindent",
			FixEdit{Span: source.Span{Start: 8, End: 10}, NewText: "  "},
			FixEdit{Span: source.Span{Start: 2, End: 3}, NewText: ""})
	sp, ok := d.FixRange()
	if !ok || sp.Start != 2 || sp.End != 10 {
		t.Fatalf("FixRange = %v, %v", sp, ok)
	}
	if _, ok := New(SevError, 0, source.Span{}, "").FixRange(); ok {
		t.Fatalf("no fix expected")
	}
}

func TestDedupReporterDropsRepeats(t *testing.T) {
	b := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: b})
	sp := source.Span{Start: 3, End: 4}
	r.Report(SynExpectComma, SevError, sp, "missing ','", nil, nil)
	r.Report(SynExpectComma, SevError, sp, "missing ','", nil, nil)
	r.Report(SynExpectComma, SevError, source.Span{Start: 5, End: 6}, "missing ','", nil, nil)
	if b.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", b.Len())
	}
}
