package source

type (
	// FileID uniquely identifies a snapshot within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a snapshot.
	FileFlags uint8
)

const (
	// FileVirtual marks a snapshot added from memory (editor buffer, test, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is an immutable snapshot of a document's text.
// A new document version is always a new File; Content is never mutated after Add.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Line is a contiguous run of a snapshot's bytes, without its terminating newline.
// Its lifetime is bound to the File it was read from.
type Line struct {
	Num   uint32 // 0-based
	Start uint32
	End   uint32 // exclusive, excludes '\n'
}

// Len returns the number of bytes on the line.
func (l Line) Len() uint32 { return l.End - l.Start }

// Span returns the line's byte range as a span in file.
func (l Line) Span(file FileID) Span {
	return Span{File: file, Start: l.Start, End: l.End}
}
