package lexer

import (
	"reindent/internal/token"
)

// scanString scans a "..." literal. Escapes are skipped, not validated.
// A newline ends the literal as Invalid so that a typo never swallows the rest
// of the file.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			continue
		case '\n':
			tok := lx.emit(token.Invalid, start)
			lx.report("UnterminatedString", tok.Span, "newline in string literal")
			return tok
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.report("UnterminatedString", tok.Span, "unterminated string literal")
	return tok
}
