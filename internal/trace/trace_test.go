package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"": LevelOff, "off": LevelOff, "request": LevelRequest, " STEP ": LevelStep}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("phase"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	if !LevelRequest.ShouldEmit(ScopeRequest) || LevelRequest.ShouldEmit(ScopeStep) {
		t.Fatal("request level must emit only request spans")
	}
	if !LevelStep.ShouldEmit(ScopeStep) || LevelOff.ShouldEmit(ScopeRequest) {
		t.Fatal("unexpected level filtering")
	}
}

func TestStartNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStream(&buf, LevelStep, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	req, ctx := Start(ctx, ScopeRequest, "format")
	step, _ := Start(ctx, ScopeStep, "tokenize")
	step.Attr("tokens", "3").End("")
	req.End("1 edit(s)")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Seq    uint64            `json:"seq"`
		Kind   string            `json:"kind"`
		Name   string            `json:"name"`
		Parent uint64            `json:"parent"`
		Attrs  map[string]string `json:"attrs"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Seq != 3 || ev.Kind != "end" || ev.Name != "tokenize" || ev.Parent != req.ID() || ev.Attrs["tokens"] != "3" {
		t.Fatalf("unexpected step end event %+v", ev)
	}
}

func TestRequestLevelSkipsSteps(t *testing.T) {
	rec := NewRecorder(LevelRequest)
	ctx := WithTracer(context.Background(), rec)
	req, ctx := Start(ctx, ScopeRequest, "format")
	step, stepCtx := Start(ctx, ScopeStep, "tokenize")
	if stepCtx != ctx {
		t.Fatal("inert span must not wrap the context")
	}
	step.End("")
	req.End("")
	if got := strings.Join(rec.Ended(), ","); got != "format" {
		t.Fatalf("ended = %q", got)
	}
}

func TestNopContext(t *testing.T) {
	span, ctx := Start(context.Background(), ScopeRequest, "x")
	if span.ID() != 0 || CurrentSpan(ctx) != 0 {
		t.Fatal("spans without a tracer must be inert")
	}
	if span.Attr("k", "v").End("") != 0 {
		t.Fatal("inert span must report zero duration")
	}
	var nilSpan *Span
	if nilSpan.End("") != 0 || nilSpan.ID() != 0 {
		t.Fatal("nil span must be inert")
	}
}

func TestEndTwiceEmitsOnce(t *testing.T) {
	rec := NewRecorder(LevelStep)
	span, _ := Start(WithTracer(context.Background(), rec), ScopeStep, "x")
	span.End("")
	span.End("")
	if n := len(rec.Events()); n != 2 {
		t.Fatalf("expected begin and end only, got %d events", n)
	}
}

func TestTextFormat(t *testing.T) {
	out := string(FormatEvent(&Event{
		Seq:     7,
		Kind:    KindEnd,
		Depth:   1,
		Name:    "print",
		Detail:  "a.sg",
		Elapsed: 1500 * time.Microsecond,
		Attrs:   []Attr{{"b", "2"}, {"a", "1"}},
	}, FormatText))
	if out != "#7       < print: a.sg b=2 a=1 1.5ms\n" {
		t.Fatalf("unexpected text event %q", out)
	}
}

func TestNewPicksFormatFromPath(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("off level must give Nop, got %v, %v", tr, err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelRequest, Output: &buf, OutputPath: "run.ndjson"})
	if err != nil {
		t.Fatal(err)
	}
	span, _ := Start(WithTracer(context.Background(), tr), ScopeRequest, "format")
	span.End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected NDJSON output, got %q", buf.String())
	}
}
