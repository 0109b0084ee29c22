package lsp

import (
	"unicode/utf8"

	"fortio.org/safecast"

	"reindent/internal/fix"
	"reindent/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// utf16Len is the number of UTF-16 code units r occupies.
func utf16Len(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// offsetForPositionInFile converts an LSP position (UTF-16 columns) into a
// byte offset. Positions past the end of a line clamp to the line end, lines
// past the end of the file clamp to the file end.
func offsetForPositionInFile(file *source.File, pos position) uint32 {
	if file == nil || pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	line, ok := file.Line(safeUint32(pos.Line))
	if !ok {
		return safeUint32(len(file.Content))
	}
	units := 0
	off := line.Start
	for off < line.End {
		r, size := utf8.DecodeRune(file.Content[off:line.End])
		need := utf16Len(r)
		if units+need > pos.Character {
			break
		}
		units += need
		off += safeUint32(size)
	}
	return off
}

func positionForOffsetInFile(file *source.File, offset uint32) position {
	if file == nil {
		return position{}
	}
	contentLen := safeUint32(len(file.Content))
	if offset > contentLen {
		offset = contentLen
	}
	line := file.LineAt(offset)
	if offset > line.End {
		offset = line.End
	}
	units := 0
	for off := line.Start; off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		units += utf16Len(r)
		off += safeUint32(size)
	}
	return position{Line: int(line.Num), Character: units}
}

func rangeForSpan(file *source.File, span source.Span) lspRange {
	if file == nil {
		return lspRange{}
	}
	return lspRange{
		Start: positionForOffsetInFile(file, span.Start),
		End:   positionForOffsetInFile(file, span.End),
	}
}

func spanForRange(file *source.File, r lspRange) source.Span {
	start := offsetForPositionInFile(file, r.Start)
	end := offsetForPositionInFile(file, r.End)
	if end < start {
		end = start
	}
	return source.Span{File: file.ID, Start: start, End: end}
}

// toTextEdits converts service edits to LSP edits; never nil so an empty
// answer encodes as [].
func toTextEdits(file *source.File, edits []fix.TextEdit) []textEdit {
	out := make([]textEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, textEdit{Range: rangeForSpan(file, e.Span), NewText: e.NewText})
	}
	return out
}
