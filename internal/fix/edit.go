package fix

import (
	"fmt"

	"fortio.org/safecast"

	"reindent/internal/source"
)

// TextEdit replaces the bytes covered by Span with NewText.
// OldText, when set, is the text the edit expects to replace; hosts use it to
// detect a stale snapshot before applying.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Noop reports whether applying the edit leaves the text unchanged.
func (e TextEdit) Noop() bool {
	return e.OldText == e.NewText && int(e.Span.Len()) == len(e.OldText)
}

// Delta is the change in length the edit causes.
func (e TextEdit) Delta() int {
	return len(e.NewText) - int(e.Span.Len())
}

// ReplaceSpan replaces text covered by span with newText; expect guards the old text.
func ReplaceSpan(span source.Span, newText, expect string) TextEdit {
	return TextEdit{Span: span, NewText: newText, OldText: expect}
}

// InsertText inserts text at the position of an empty span.
func InsertText(at source.Span, text string) TextEdit {
	at.End = at.Start
	return TextEdit{Span: at, NewText: text}
}

// DeleteSpan removes text covered by span.
func DeleteSpan(span source.Span, expect string) TextEdit {
	return TextEdit{Span: span, OldText: expect}
}

// ReplaceFile builds a single edit replacing the whole snapshot with content.
func ReplaceFile(file *source.File, content []byte) TextEdit {
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("file content overflow: %w", err))
	}
	return TextEdit{
		Span:    source.Span{File: file.ID, Start: 0, End: end},
		NewText: string(content),
		OldText: string(file.Content),
	}
}
