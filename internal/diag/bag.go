package diag

import (
	"slices"
	"strings"

	"yamlcheck/internal/source"
)

type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
// Fatal-диагностики добавляются всегда.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max && !d.Fatal {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return b.Count(SevError) > 0
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	return b.Count(SevWarning) > 0 || b.HasErrors()
}

// Count returns the number of diagnostics with exactly the given severity.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// HasFatal reports whether the document lint was aborted.
func (b *Bag) HasFatal() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Fatal })
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if b.max > 0 && len(b.items)+len(other.items) > b.max {
		b.max = len(b.items) + len(other.items)
	}
	b.items = append(b.items, other.items...)
}

// Filter keeps diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}

// Sort orders by file, start offset, rule id, then code, end and message.
// Fatal notes sort last within a file.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, Compare)
}

// Compare is the canonical diagnostic order.
func Compare(di, dj Diagnostic) int {
	if di.Primary.File != dj.Primary.File {
		return cmpInt(int(di.Primary.File), int(dj.Primary.File))
	}
	if di.Fatal != dj.Fatal {
		if di.Fatal {
			return 1
		}
		return -1
	}
	if di.Primary.Start != dj.Primary.Start {
		return cmpInt(int(di.Primary.Start), int(dj.Primary.Start))
	}
	if c := strings.Compare(di.Rule, dj.Rule); c != 0 {
		return c
	}
	if di.Code != dj.Code {
		return cmpInt(int(di.Code), int(dj.Code))
	}
	if di.Primary.End != dj.Primary.End {
		return cmpInt(int(di.Primary.End), int(dj.Primary.End))
	}
	return strings.Compare(di.Message, dj.Message)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type bagKey struct {
	file  source.FileID
	code  Code
	rule  string
	start uint32
	end   uint32
	msg   string
}

// Dedup drops repeats with the same code, rule, span and message. Order is kept.
func (b *Bag) Dedup() {
	seen := make(map[bagKey]struct{}, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		key := bagKey{d.Primary.File, d.Code, d.Rule, d.Primary.Start, d.Primary.End, d.Message}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	b.items = out
}
