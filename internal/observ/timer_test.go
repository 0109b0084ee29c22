package observ

import (
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	timer := &Timer{now: fakeClock(time.Millisecond)}
	read := timer.Begin("read")
	timer.End(read)
	format := timer.Begin("format")
	timer.End(format)
	timer.End(42)

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %v", report.Phases)
	}
	if report.Phases[0].Name != "read" || report.Phases[0].DurationMS != 1 {
		t.Fatalf("read phase = %+v", report.Phases[0])
	}
	if report.TotalMS != 2 {
		t.Fatalf("total = %v", report.TotalMS)
	}
}

func TestNilTimer(t *testing.T) {
	var timer *Timer
	timer.End(timer.Begin("read"))
	if r := timer.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer reported %v", r)
	}
}

func TestTotals(t *testing.T) {
	totals := NewTotals()
	for i := 0; i < 3; i++ {
		timer := &Timer{now: fakeClock(2 * time.Millisecond)}
		timer.End(timer.Begin("format"))
		totals.Add(timer)
	}
	report := totals.Report()
	if len(report.Phases) != 1 || report.Phases[0].Count != 3 || report.Phases[0].DurationMS != 6 {
		t.Fatalf("totals = %+v", report)
	}
	summary := report.Summary()
	if !strings.Contains(summary, "format") || !strings.Contains(summary, "x3") {
		t.Fatalf("summary = %q", summary)
	}
}
