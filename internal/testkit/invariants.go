// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"reindent/internal/fix"
	"reindent/internal/source"
	"reindent/internal/token"
)

// CheckTokenInvariants runs the lossless-lexing invariants on a full token
// stream of sf:
// 1) tokens are contiguous, start at 0 and the stream ends with EOF at len(Content)
// 2) every token's Text is exactly the bytes its span covers
// 3) Line and Col agree with the snapshot's line index
func CheckTokenInvariants(sf *source.File, tokens []token.Token) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if len(tokens) == 0 {
		return fmt.Errorf("empty token stream")
	}

	var off uint32
	for i, tok := range tokens {
		if tok.Span.Start != off {
			return fmt.Errorf("token %d (%v) starts at %d, previous ended at %d", i, tok.Kind, tok.Span.Start, off)
		}
		if tok.Span.End < tok.Span.Start || tok.Span.End > lenContent {
			return fmt.Errorf("token %d (%v) has bad span %v", i, tok.Kind, tok.Span)
		}
		if got := string(sf.Content[tok.Span.Start:tok.Span.End]); tok.Text != got {
			return fmt.Errorf("token %d (%v) text %q, source %q", i, tok.Kind, tok.Text, got)
		}
		line := sf.LineAt(tok.Span.Start)
		if tok.Line != line.Num || tok.Col != tok.Span.Start-line.Start {
			return fmt.Errorf("token %d (%v) at %d:%d, line index says %d:%d",
				i, tok.Kind, tok.Line, tok.Col, line.Num, tok.Span.Start-line.Start)
		}
		off = tok.Span.End

		if tok.Kind == token.EOF {
			if i != len(tokens)-1 {
				return fmt.Errorf("EOF at index %d of %d", i, len(tokens))
			}
			if off != lenContent {
				return fmt.Errorf("EOF at %d, content is %d bytes", off, lenContent)
			}
			return nil
		}
	}
	return fmt.Errorf("token stream does not end with EOF")
}

// CheckIndentEdit verifies an aligner edit for the caret at pos:
// 1) it covers exactly the leading spaces of the caret's line
// 2) OldText matches those bytes and NewText consists of spaces only
func CheckIndentEdit(sf *source.File, pos uint32, edit fix.TextEdit) error {
	line := sf.LineAt(pos)
	if edit.Span.Start != line.Start {
		return fmt.Errorf("edit starts at %d, line starts at %d", edit.Span.Start, line.Start)
	}
	if edit.Span.End < edit.Span.Start || edit.Span.End > line.End {
		return fmt.Errorf("edit span %v leaves line [%d,%d)", edit.Span, line.Start, line.End)
	}
	old := string(sf.Content[edit.Span.Start:edit.Span.End])
	if strings.Trim(old, " ") != "" {
		return fmt.Errorf("edit replaces non-space text %q", old)
	}
	if end := edit.Span.End; end < line.End && sf.Content[end] == ' ' {
		return fmt.Errorf("edit leaves leading spaces after %d", end)
	}
	if old != edit.OldText {
		return fmt.Errorf("edit expects %q, source has %q", edit.OldText, old)
	}
	if strings.Trim(edit.NewText, " ") != "" {
		return fmt.Errorf("edit inserts non-space text %q", edit.NewText)
	}
	return nil
}
