package lexer

import (
	"reindent/internal/source"
	"reindent/internal/token"
)

// Lexer splits a snapshot into classified tokens. Unlike a compiler lexer it keeps
// every byte: whitespace, newlines and comments come back as tokens too, so a line
// can be rebuilt exactly from its tokens.
type Lexer struct {
	file        *source.File
	cursor      Cursor
	opts        Options
	atLineStart bool        // только пробелы с начала строки
	conds       []condFrame // стек #if
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		atLineStart: true,
	}
}

// Next возвращает следующий токен, включая trivia. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.cursor.EOF() {
		return lx.finish(token.Token{Kind: token.EOF, Span: lx.emptySpan()})
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == ' ' || ch == '\t':
		// пробелы не меняют atLineStart
		return lx.finish(lx.scanWhitespace())
	case ch == '\n':
		tok = lx.scanNewline()
		lx.atLineStart = true
		return lx.finish(tok)
	}

	if lx.atLineStart && ch == '#' {
		if dir, ok := lx.scanDirective(); ok {
			lx.atLineStart = false
			return lx.finish(dir)
		}
	}
	if !lx.active() {
		// строка в неактивной ветке #if: всё до конца строки один токен
		lx.atLineStart = false
		return lx.finish(lx.scanInactive())
	}

	lx.atLineStart = false

	switch {
	case ch == '/' && lx.isCommentStart():
		tok = lx.scanComment()

	case ch == '_' || isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	default:
		tok = lx.scanOperatorOrPunct()
	}
	return lx.finish(tok)
}

// All tokenizes the whole snapshot, EOF included.
func (lx *Lexer) All() []token.Token {
	tokens := make([]token.Token, 0, len(lx.file.Content)/3+1)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

// Unterminated reports whether the input ended inside an #if block.
func (lx *Lexer) Unterminated() bool {
	return len(lx.conds) > 0
}

// finish fills the line/column fields of a token.
func (lx *Lexer) finish(tok token.Token) token.Token {
	if tok.Text == "" && tok.Span.End > tok.Span.Start {
		tok.Text = string(lx.file.Content[tok.Span.Start:tok.Span.End])
	}
	line := lx.file.LineAt(tok.Span.Start)
	tok.Line = line.Num
	tok.Col = tok.Span.Start - line.Start
	end := tok.Span.End
	if end > line.End {
		end = line.End
	}
	if end < tok.Span.Start {
		end = tok.Span.Start
	}
	tok.EndCol = end - line.Start
	return tok
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
