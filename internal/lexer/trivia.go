package lexer

import (
	"reindent/internal/token"
)

// ' ' и '\t' коалесцируются в один Whitespace
func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	for {
		b := lx.cursor.Peek()
		if b != ' ' && b != '\t' {
			break
		}
		lx.cursor.Bump()
	}
	return lx.emit(token.Whitespace, start)
}

// Each '\n' is its own token so that a line never owns another line's newline.
func (lx *Lexer) scanNewline() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.emit(token.Newline, start)
}

func (lx *Lexer) isCommentStart() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '/' && (b1 == '/' || b1 == '*')
}

// //... , ///... , /*...*/
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	if lx.cursor.Peek() == '/' {
		lx.cursor.Bump()
		kind := token.LineComment
		// "///" это doc comment, но не "////"
		if lx.cursor.Peek() == '/' {
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' || b1 != '/' {
				kind = token.DocComment
			}
		}
		lx.cursor.SkipToLineEnd()
		return lx.emit(kind, start)
	}

	// "/* ... */" (with nesting); may span lines
	lx.cursor.Bump() // '*'
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		if b0, b1, ok := lx.cursor.Peek2(); ok {
			if b0 == '/' && b1 == '*' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth++
				continue
			}
			if b0 == '*' && b1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth--
				continue
			}
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.BlockComment, start)
	if depth > 0 {
		lx.report("UnterminatedBlockComment", tok.Span, "unterminated block comment")
	}
	return tok
}

func (lx *Lexer) scanInactive() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.SkipToLineEnd()
	return lx.emit(token.Inactive, start)
}
