package source

import "testing"

func TestLineAt(t *testing.T) {
	file := NewVirtualFile("lines.sg", []byte("ab\n\n  cd\nlast"))
	tests := []struct {
		off  uint32
		num  uint32
		text string
	}{
		{off: 0, num: 0, text: "ab"},
		{off: 2, num: 0, text: "ab"}, // сам '\n' принадлежит строке, которую он завершает
		{off: 3, num: 1, text: ""},
		{off: 4, num: 2, text: "  cd"},
		{off: 8, num: 2, text: "  cd"},
		{off: 9, num: 3, text: "last"},
		{off: 13, num: 3, text: "last"},
		{off: 99, num: 3, text: "last"},
	}
	for _, tt := range tests {
		line := file.LineAt(tt.off)
		if line.Num != tt.num {
			t.Errorf("LineAt(%d).Num = %d, want %d", tt.off, line.Num, tt.num)
		}
		if got := file.Text(line); got != tt.text {
			t.Errorf("LineAt(%d) text = %q, want %q", tt.off, got, tt.text)
		}
	}
}

func TestLineCountTrailingNewline(t *testing.T) {
	file := NewVirtualFile("x.sg", []byte("a\nb\n"))
	if got := file.LineCount(); got != 3 {
		t.Fatalf("LineCount = %d, want 3", got)
	}
	last, ok := file.Line(2)
	if !ok || last.Len() != 0 || last.Start != 4 {
		t.Fatalf("unexpected last line %+v ok=%v", last, ok)
	}
	if _, ok := file.Line(3); ok {
		t.Fatal("expected line 3 to be out of range")
	}
}

func TestPosition(t *testing.T) {
	file := NewVirtualFile("x.sg", []byte("ab\ncd\n"))
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}},
		{3, LineCol{Line: 2, Col: 1}},
		{4, LineCol{Line: 2, Col: 2}},
		{6, LineCol{Line: 3, Col: 1}},
	}
	for _, tt := range tests {
		if got := file.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
	if got := file.GetLine(2); got != "cd" {
		t.Errorf("GetLine(2) = %q, want %q", got, "cd")
	}
}

func TestSpanTouches(t *testing.T) {
	sp := Span{Start: 4, End: 5}
	for off, want := range map[uint32]bool{3: false, 4: true, 5: true, 6: false} {
		if got := sp.Touches(off); got != want {
			t.Errorf("Touches(%d) = %v, want %v", off, got, want)
		}
	}
	if !sp.Overlaps(Span{Start: 0, End: 5}) || sp.Overlaps(Span{Start: 5, End: 9}) {
		t.Error("unexpected Overlaps result")
	}
}
