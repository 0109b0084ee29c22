package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reindent/internal/config"
	"reindent/internal/format"
	"reindent/internal/formatting"
	"reindent/internal/observ"
	"reindent/internal/token"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

const (
	messy = "fn f() {\nlet x = 1\n  }\n"
	tidy  = "fn f() {\n    let x = 1\n}\n"
)

func TestFormatPathsWritesChanges(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.sg")
	b := filepath.Join(dir, "sub", "b.sg")
	writeFile(t, a, messy)
	writeFile(t, b, tidy)
	writeFile(t, filepath.Join(dir, "notes.txt"), messy)
	writeFile(t, filepath.Join(dir, ".hidden", "c.sg"), messy)

	results, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Jobs: 2})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %+v", results)
	}
	if results[0].Path != a || !results[0].Changed || results[0].Err != nil {
		t.Fatalf("unexpected result for a.sg: %+v", results[0])
	}
	if results[1].Changed {
		t.Fatal("b.sg was already formatted")
	}
	if got := readFile(t, a); got != tidy {
		t.Fatalf("a.sg = %q", got)
	}
}

func TestFormatPathsCheckAndStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.sg")
	writeFile(t, path, messy)

	results, err := FormatPaths(context.Background(), []string{path}, FormatOptions{Check: true})
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Changed || results[0].Formatted != nil {
		t.Fatalf("check: %+v", results[0])
	}
	results, err = FormatPaths(context.Background(), []string{path}, FormatOptions{Stdout: true, Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(results[0].Formatted) != tidy {
		t.Fatalf("stdout: %q", results[0].Formatted)
	}
	if got := readFile(t, path); got != messy {
		t.Fatal("check/stdout must not touch the file")
	}
}

func TestFormatPathsManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ManifestName), "[format]\nindent_width = 2\nextensions = [\".rdt\"]\n")
	src := filepath.Join(dir, "x.rdt")
	writeFile(t, src, messy)
	writeFile(t, filepath.Join(dir, "y.sg"), messy)

	results, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Stdout: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Path != src {
		t.Fatalf("want only x.rdt, got %+v", results)
	}
	if string(results[0].Formatted) != "fn f() {\n  let x = 1\n}\n" {
		t.Fatalf("got %q", results[0].Formatted)
	}
}

func TestFormatPathsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sg")
	writeFile(t, path, "fn f() {\n")
	results, err := FormatPaths(context.Background(), []string{path}, FormatOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(results[0].Err, format.ErrParse) {
		t.Fatalf("want ErrParse, got %v", results[0].Err)
	}
	if readFile(t, path) != "fn f() {\n" {
		t.Fatal("broken file was rewritten")
	}
}

func TestFormatPathsNoFiles(t *testing.T) {
	_, err := FormatPaths(context.Background(), []string{t.TempDir()}, FormatOptions{})
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("want ErrNoFiles, got %v", err)
	}
}

func TestFormatPathsEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.sg"), messy)
	writeFile(t, filepath.Join(dir, "b.sg"), tidy)

	events := make(chan Event, 64)
	if _, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Check: true, Events: events}); err != nil {
		t.Fatal(err)
	}
	final := map[string]Status{}
	for ev := range events {
		if ev.Status != StatusWorking {
			final[filepath.Base(ev.File)] = ev.Status
		}
	}
	if final["a.sg"] != StatusDone || final["b.sg"] != StatusUnchanged {
		t.Fatalf("unexpected final statuses: %v", final)
	}
}

func TestFormatPathsCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.sg")
	writeFile(t, path, messy)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FormatPaths(ctx, []string{path}, FormatOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestAlign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.sg")
	writeFile(t, path, "if (x) {\n    y()\n    }\n")

	res, err := Align(context.Background(), path, AlignOptions{Line: 3, Col: 6, Trigger: formatting.OnChar('}')})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Edits) != 1 || string(res.Output) != "if (x) {\n    y()\n}\n" || res.Written {
		t.Fatalf("unexpected result: %+v %q", res.Edits, res.Output)
	}

	res, err = Align(context.Background(), path, AlignOptions{Line: 3, Col: 6, Trigger: formatting.OnChar('}'), Apply: true})
	if err != nil || !res.Written {
		t.Fatalf("apply: %v %+v", err, res)
	}
	if got := readFile(t, path); got != "if (x) {\n    y()\n}\n" {
		t.Fatalf("file = %q", got)
	}

	if _, err := Align(context.Background(), path, AlignOptions{Line: 9, Col: 1, Trigger: formatting.OnReturn()}); !errors.Is(err, errNoLine) {
		t.Fatalf("want errNoLine, got %v", err)
	}
}

func TestTokenize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ManifestName), "[project]\ndefines = [\"X\"]\n")
	path := filepath.Join(dir, "a.sg")
	writeFile(t, path, "#if X\nfn f() {\n#else\nfn g() {\n#endif\n}\n")

	res, err := Tokenize(context.Background(), path, TokenizeOptions{Braces: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Defines.Has("X") {
		t.Fatal("manifest defines not applied")
	}
	// активная ветка: () и {}, пары идут в порядке закрытия
	if res.Braces == nil || len(res.Braces.Pairs) != 2 || !res.Braces.Balanced() {
		t.Fatalf("braces: %+v", res.Braces)
	}
	if got := res.Braces.Pairs[0].Kind; got != token.LParen {
		t.Fatalf("first pair kind = %v, want LParen", got)
	}
	block := res.Braces.Pairs[1]
	if block.Kind != token.LBrace || block.OpenPos.Line != 2 || block.ClosePos.Line != 6 {
		t.Fatalf("active block should span lines 2-6: %+v", block)
	}

	line, err := Tokenize(context.Background(), path, TokenizeOptions{Line: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(line.Tokens) != 1 || line.Tokens[0].Kind != token.Inactive {
		t.Fatalf("line 4 should be one inactive token: %+v", line.Tokens)
	}
}

func TestFormatPathsTimings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.sg")
	writeFile(t, path, messy)

	totals := observ.NewTotals()
	if _, err := FormatPaths(context.Background(), []string{path}, FormatOptions{Verify: true, Timings: totals}); err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	var names []string
	for _, p := range totals.Report().Phases {
		names = append(names, p.Name)
		if p.Count != 1 {
			t.Fatalf("phase %s counted %d times", p.Name, p.Count)
		}
	}
	want := []string{"reading", "formatting", "verifying", "writing"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("phases = %v, want %v", names, want)
	}
}
