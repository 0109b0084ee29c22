package ui

import (
	"strings"
	"testing"

	"reindent/internal/driver"
)

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("fmt", []string{"a.sg", "b.sg"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.sg", Stage: driver.StageFormat, Status: driver.StatusWorking})
	if m.items[0].status != "formatting" {
		t.Fatalf("a.sg status = %q", m.items[0].status)
	}
	m.Update(eventMsg{File: "a.sg", Status: driver.StatusDone})
	m.Update(eventMsg{File: "b.sg", Status: driver.StatusUnchanged})
	m.Update(eventMsg{File: "ghost.sg", Status: driver.StatusError})
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent = %v, want 1", got)
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatal("done message should quit")
	}
	view := m.View()
	if !strings.Contains(view, "done: fmt (2 files)") || !strings.Contains(view, "changed") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a/very/long/path.sg", 10, "a/ve..."},
		{"abcdef", 3, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
