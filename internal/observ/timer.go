// Package observ measures how long the linter spends in each phase.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase records the duration of one step over one file.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the phases of a single file. It is not safe for concurrent use;
// each worker owns its own timer and hands the Report to a Totals.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport представляет сжатую информацию о фазе для сериализации.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Count      int     `json:"count,omitempty" msgpack:"count,omitempty"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	Phases  []PhaseReport `json:"phases" msgpack:"phases"`
}

func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Count:      1,
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Totals sums phase reports from many files. Phases keep the order in which
// they were first seen.
type Totals struct {
	mu     sync.Mutex
	order  []string
	byName map[string]*PhaseReport
	files  int
}

func NewTotals() *Totals {
	return &Totals{byName: make(map[string]*PhaseReport)}
}

// Add folds one file's report in.
func (a *Totals) Add(r Report) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files++
	for _, p := range r.Phases {
		cur, ok := a.byName[p.Name]
		if !ok {
			cur = &PhaseReport{Name: p.Name}
			a.byName[p.Name] = cur
			a.order = append(a.order, p.Name)
		}
		cur.DurationMS += p.DurationMS
		cur.Count += max(p.Count, 1)
	}
}

// Files is the number of reports added.
func (a *Totals) Files() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.files
}

func (a *Totals) Report() Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	report := Report{Phases: make([]PhaseReport, 0, len(a.order))}
	for _, name := range a.order {
		p := *a.byName[name]
		report.TotalMS += p.DurationMS
		report.Phases = append(report.Phases, p)
	}
	return report
}

// Summary renders a report as an aligned table.
func Summary(r Report) string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-12s %9.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&b, "  x%d", p.Count)
		}
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-12s %9.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
