package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"reindent/internal/source"
)

var (
	// ErrConflict is returned when two edits overlap.
	ErrConflict = errors.New("fix: overlapping edits")
	// ErrStale is returned when an edit's OldText no longer matches the buffer.
	ErrStale = errors.New("fix: existing text does not match expected content")
	// ErrRange is returned when an edit's span lies outside the buffer.
	ErrRange = errors.New("fix: edit span out of range")
)

// Apply applies edits to content and returns the new buffer. Edits refer to
// offsets in the original content; they are applied from the end of the
// buffer backwards so earlier offsets stay valid. The input is not modified.
func Apply(content []byte, edits []TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return append([]byte(nil), content...), nil
	}
	sorted := append([]TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start == sorted[j].Span.Start {
			return sorted[i].Span.End > sorted[j].Span.End
		}
		return sorted[i].Span.Start > sorted[j].Span.Start
	})
	for i := 1; i < len(sorted); i++ {
		if spansConflict(sorted[i-1], sorted[i]) {
			return nil, fmt.Errorf("%w: %s and %s", ErrConflict, sorted[i].Span, sorted[i-1].Span)
		}
	}

	working := append([]byte(nil), content...)
	for _, edit := range sorted {
		start, end := int(edit.Span.Start), int(edit.Span.End)
		if end < start || end > len(working) {
			return nil, fmt.Errorf("%w: %s (len %d)", ErrRange, edit.Span, len(working))
		}
		if edit.OldText != "" && string(working[start:end]) != edit.OldText {
			return nil, fmt.Errorf("%w at %s", ErrStale, edit.Span)
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], edit.NewText...), suffix...)
	}
	return working, nil
}

// ApplyFile applies edits to a snapshot.
func ApplyFile(file *source.File, edits []TextEdit) ([]byte, error) {
	for _, e := range edits {
		if e.Span.File != file.ID {
			return nil, fmt.Errorf("fix: edit for file %d applied to file %d", e.Span.File, file.ID)
		}
	}
	return Apply(file.Content, edits)
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// WriteFile applies edits to file and writes the result to file.Path,
// keeping the existing file mode.
func WriteFile(file *source.File, edits []TextEdit) (FileChange, error) {
	if file.Flags&source.FileVirtual != 0 {
		return FileChange{}, fmt.Errorf("fix: %s is virtual", file.Path)
	}
	buf, err := ApplyFile(file, edits)
	if err != nil {
		return FileChange{}, err
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(file.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(file.Path, buf, mode); err != nil {
		return FileChange{}, fmt.Errorf("write %s: %w", file.Path, err)
	}
	return FileChange{Path: file.Path, EditCount: len(edits)}, nil
}

// spansConflict reports whether two edits overlap.
// Spans are half-open. Two insertions never conflict, even at the same
// position; an insertion conflicts with a span strictly containing it.
func spansConflict(a, b TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}
