package source

import (
	"sort"

	"fortio.org/safecast"
)

func (f *File) contentLen() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return ^uint32(0)
	}
	return n
}

// LineCount returns the number of lines; a trailing newline opens an empty last line.
func (f *File) LineCount() uint32 {
	return uint32(len(f.LineIdx)) + 1
}

// Line returns the 0-based line num.
func (f *File) Line(num uint32) (Line, bool) {
	if num >= f.LineCount() {
		return Line{}, false
	}
	var start uint32
	if num > 0 {
		start = f.LineIdx[num-1] + 1
	}
	end := f.contentLen()
	if int(num) < len(f.LineIdx) {
		end = f.LineIdx[num]
	}
	return Line{Num: num, Start: start, End: end}, true
}

// LineAt returns the line containing off. Offsets past the end clamp to the last line;
// an offset sitting on a '\n' belongs to the line that newline terminates.
func (f *File) LineAt(off uint32) Line {
	if limit := f.contentLen(); off > limit {
		off = limit
	}
	num := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= off })
	line, _ := f.Line(uint32(num))
	return line
}

// Text returns the bytes of the line as a string.
func (f *File) Text(line Line) string {
	if line.End > f.contentLen() || line.Start > line.End {
		return ""
	}
	return string(f.Content[line.Start:line.End])
}

// Position converts a byte offset into a 1-based line/column.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	line, ok := f.Line(lineNum - 1)
	if !ok {
		return ""
	}
	return f.Text(line)
}
