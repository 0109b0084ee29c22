package lexer

import (
	"testing"

	"reindent/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sg", []byte(content))
	return fs.Get(id)
}

// "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte("a\nb") {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("expected EOF to stick")
	}
}

func TestMarkAndReset(t *testing.T) {
	cursor := NewCursor(createFile("hello"))
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 2 {
		t.Fatalf("unexpected span %v", sp)
	}
	cursor.Reset(m)
	if cursor.Off != 0 {
		t.Fatalf("expected reset to 0, got %d", cursor.Off)
	}
}

func TestPeek2AndEat(t *testing.T) {
	cursor := NewCursor(createFile("ab"))
	b0, b1, ok := cursor.Peek2()
	if !ok || b0 != 'a' || b1 != 'b' {
		t.Fatalf("unexpected Peek2 %q %q %v", b0, b1, ok)
	}
	if cursor.Eat('b') {
		t.Fatal("Eat must not consume a mismatching byte")
	}
	if !cursor.Eat('a') {
		t.Fatal("Eat must consume a matching byte")
	}
	if _, _, ok := cursor.Peek2(); ok {
		t.Fatal("Peek2 must fail with one byte left")
	}
}

func TestSkipToLineEnd(t *testing.T) {
	cursor := NewCursor(createFile("abc\ndef"))
	cursor.SkipToLineEnd()
	if cursor.Off != 3 || cursor.Peek() != '\n' {
		t.Fatalf("expected to stop before newline, got off=%d", cursor.Off)
	}
}
