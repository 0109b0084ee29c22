package corpus

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"reindent/internal/formatting"
	"reindent/internal/source"
)

func dedentCase() Case {
	c := Case{
		Name:        "dedent",
		Path:        "/w/main.sg",
		Text:        "if (x) {\n    y()\n    }",
		Position:    22,
		IndentStyle: "smart",
		IndentWidth: 4,
		Edits:       []Edit{{Start: 17, End: 21, NewText: ""}},
	}
	c.SetTrigger(formatting.OnChar('}'))
	return c
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	sel := source.Span{Start: 1, End: 4}
	second := Case{Name: "selection", Path: "/w/a.sg", Text: "x"}
	second.SetTrigger(formatting.OnFormat(&sel))
	for _, c := range []Case{dedentCase(), second} {
		if err := w.Append(c); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if w.Count() != 2 {
		t.Fatalf("count = %d", w.Count())
	}
	cases, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("want 2 cases, got %d", len(cases))
	}
	if cases[0].Schema != SchemaVersion || cases[0].Char != "}" || len(cases[0].Edits) != 1 {
		t.Fatalf("unexpected first case: %+v", cases[0])
	}
	trig, err := cases[1].BuildTrigger()
	if err != nil {
		t.Fatal(err)
	}
	if trig.Kind != formatting.TriggerFormat || trig.Span == nil || *trig.Span != sel {
		t.Fatalf("selection trigger lost: %+v", trig)
	}
}

func TestReadRejectsOtherSchema(t *testing.T) {
	var buf bytes.Buffer
	c := dedentCase()
	c.Schema = SchemaVersion + 1
	if err := msgpack.NewEncoder(&buf).Encode(&c); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(&buf); err == nil {
		t.Fatal("expected schema error")
	}
}

func TestConcurrentAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.mp")
	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Append(dedentCase()); err != nil {
				t.Errorf("append: %v", err)
			}
		}()
	}
	wg.Wait()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	cases, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 16 {
		t.Fatalf("want 16 cases, got %d", len(cases))
	}
}

func TestReplayMatches(t *testing.T) {
	paste := Case{Name: "paste", Path: "/w/main.sg", Text: "{\n}", IndentStyle: "smart", HasSpan: true, Trigger: "paste"}
	smartOff := dedentCase()
	smartOff.Name = "smart off"
	smartOff.IndentStyle = "none"
	smartOff.Edits = nil

	mismatches, err := Replay(context.Background(), []Case{dedentCase(), paste, smartOff}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(mismatches) != 0 {
		t.Fatalf("unexpected mismatches: %v", mismatches)
	}
}

func TestReplayReportsMismatch(t *testing.T) {
	c := dedentCase()
	c.Edits = []Edit{{Start: 17, End: 21, NewText: "  "}}
	bad := Case{Name: "bad trigger", Trigger: "wiggle"}

	mismatches, err := Replay(context.Background(), []Case{c, bad}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(mismatches) != 2 {
		t.Fatalf("want 2 mismatches, got %v", mismatches)
	}
	if len(mismatches[0].Got) != 1 || mismatches[0].Got[0].NewText != "" {
		t.Fatalf("unexpected replayed edits: %+v", mismatches[0].Got)
	}
	if mismatches[1].Err == nil {
		t.Fatal("bad trigger should carry an error")
	}
}

func TestReplayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Replay(ctx, []Case{dedentCase()}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
