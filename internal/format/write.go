package format

import (
	"bytes"

	"reindent/internal/source"
)

// Writer accumulates formatted output line by line.
type Writer struct {
	sf          *source.File
	opt         Options
	buf         []byte
	indentLevel int
}

// NewWriter creates a new formatting writer.
func NewWriter(sf *source.File, opt Options) *Writer {
	return &Writer{
		sf:  sf,
		opt: opt.withDefaults(),
		buf: make([]byte, 0, len(sf.Content)),
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// SetIndent sets the indentation level of the next written line.
func (w *Writer) SetIndent(level int) {
	w.indentLevel = max(level, 0)
}

func (w *Writer) writeIndent() {
	if w.opt.UseTabs {
		for i := 0; i < w.indentLevel; i++ {
			w.buf = append(w.buf, '\t')
		}
		return
	}
	for i := 0; i < w.indentLevel*w.opt.IndentWidth; i++ {
		w.buf = append(w.buf, ' ')
	}
}

// TrimmedLine writes source bytes [start, end) as one indented line with
// surrounding whitespace removed.
func (w *Writer) TrimmedLine(start, end uint32) {
	trimmed := bytes.TrimSpace(w.slice(start, end))
	if len(trimmed) > 0 {
		w.writeIndent()
		w.buf = append(w.buf, trimmed...)
	}
	w.EndLine()
}

// VerbatimLine copies source bytes [start, end) unchanged.
func (w *Writer) VerbatimLine(start, end uint32) {
	w.buf = append(w.buf, w.slice(start, end)...)
	w.EndLine()
}

// EndLine terminates the current line.
func (w *Writer) EndLine() {
	w.buf = append(w.buf, '\n')
}

func (w *Writer) slice(start, end uint32) []byte {
	n := uint32(len(w.sf.Content))
	end = min(end, n)
	if start >= end {
		return nil
	}
	return w.sf.Content[start:end]
}
