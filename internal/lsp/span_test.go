package lsp

import (
	"strings"
	"testing"

	"reindent/internal/source"
)

func TestUTF16PositionMapping(t *testing.T) {
	src := strings.Join([]string{
		"fn main() {",
		"    let s = \"é🙂\"; foo()",
		"}",
		"",
	}, "\n")
	file := source.NewVirtualFile("/w/main.sg", []byte(src))

	off := uint32(strings.Index(src, "foo"))
	// "    let s = \"" = 13 units, e + U+0301 = 2, 🙂 = 2, `"; ` = 3
	want := position{Line: 1, Character: 20}
	if got := positionForOffsetInFile(file, off); got != want {
		t.Fatalf("position of foo = %+v, want %+v", got, want)
	}
	if got := offsetForPositionInFile(file, want); got != off {
		t.Fatalf("offset of %+v = %d, want %d", want, got, off)
	}
}

func TestPositionClamping(t *testing.T) {
	file := source.NewVirtualFile("/w/a.sg", []byte("ab\ncd"))
	cases := []struct {
		pos  position
		want uint32
	}{
		{position{Line: 0, Character: 0}, 0},
		{position{Line: 0, Character: 99}, 2},
		{position{Line: 1, Character: 1}, 4},
		{position{Line: 7, Character: 0}, 5},
		{position{Line: -1, Character: 0}, 0},
	}
	for _, tc := range cases {
		if got := offsetForPositionInFile(file, tc.pos); got != tc.want {
			t.Fatalf("offset(%+v) = %d, want %d", tc.pos, got, tc.want)
		}
	}
	if got := positionForOffsetInFile(file, 5); got != (position{Line: 1, Character: 2}) {
		t.Fatalf("end position = %+v", got)
	}
}

func TestSurrogatePairNotSplit(t *testing.T) {
	file := source.NewVirtualFile("/w/a.sg", []byte("🙂x"))
	// character 1 points into the middle of the pair
	if got := offsetForPositionInFile(file, position{Character: 1}); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
	if got := offsetForPositionInFile(file, position{Character: 2}); got != 4 {
		t.Fatalf("got %d, want 4", got)
	}
}

func TestApplyChanges(t *testing.T) {
	text := "one\ntwo\n"
	text = applyChanges(text, []textDocumentContentChangeEvent{
		{Range: &lspRange{Start: position{0, 0}, End: position{0, 0}}, Text: "// "},
		{Range: &lspRange{Start: position{1, 0}, End: position{1, 3}}, Text: "2"},
	})
	if text != "// one\n2\n" {
		t.Fatalf("got %q", text)
	}
	text = applyChanges(text, []textDocumentContentChangeEvent{{Text: "full"}})
	if text != "full" {
		t.Fatalf("full sync: got %q", text)
	}
}

func TestURIPathRoundTrip(t *testing.T) {
	path := "/tmp/with space/main.sg"
	uri := pathToURI(path)
	if uri != "file:///tmp/with%20space/main.sg" {
		t.Fatalf("uri = %q", uri)
	}
	if got := uriToPath(uri); got != path {
		t.Fatalf("path = %q", got)
	}
	if uriToPath("untitled:Untitled-1") != "" {
		t.Fatal("non-file scheme must map to empty path")
	}
}
