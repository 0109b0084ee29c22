// Package observ measures how long the stages of a batch run take.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed stage of formatting a file.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
}

// Timer records the phases of a single file. It is not safe for concurrent
// use; Totals aggregates timers from many goroutines.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

// NewTimer creates a timer reading the wall clock.
func NewTimer() *Timer { return &Timer{now: time.Now} }

// Begin starts a phase and returns its index.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index. Unknown indexes are ignored.
func (t *Timer) End(idx int) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
}

// PhaseReport представляет фазу для вывода и сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns the phases in start order with the total duration.
func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		report.Phases[i] = PhaseReport{Name: p.Name, DurationMS: millis(p.Dur)}
	}
	report.TotalMS = millis(total)
	return report
}

// Totals sums phase durations across files by phase name.
type Totals struct {
	mu     sync.Mutex
	byName map[string]*phaseTotal
	order  []string
}

type phaseTotal struct {
	dur   time.Duration
	count int
}

// NewTotals creates an empty aggregate.
func NewTotals() *Totals {
	return &Totals{byName: make(map[string]*phaseTotal)}
}

// Add folds a finished timer into the aggregate.
func (s *Totals) Add(t *Timer) {
	if s == nil || t == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range t.phases {
		agg, ok := s.byName[p.Name]
		if !ok {
			agg = &phaseTotal{}
			s.byName[p.Name] = agg
			s.order = append(s.order, p.Name)
		}
		agg.dur += p.Dur
		agg.count++
	}
}

// Report returns the aggregated phases in first-seen order.
func (s *Totals) Report() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	report := Report{Phases: make([]PhaseReport, 0, len(s.order))}
	var total time.Duration
	for _, name := range s.order {
		agg := s.byName[name]
		total += agg.dur
		report.Phases = append(report.Phases, PhaseReport{Name: name, DurationMS: millis(agg.dur), Count: agg.count})
	}
	report.TotalMS = millis(total)
	return report
}

// Summary renders a report as a small aligned table.
func (r Report) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-12s %9.2f ms", p.Name, p.DurationMS)
		if p.Count > 0 {
			fmt.Fprintf(&b, "  x%d", p.Count)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %9.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
