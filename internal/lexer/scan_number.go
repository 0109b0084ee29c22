package lexer

import (
	"reindent/internal/token"
)

// scanNumber accepts 0b/0o/0x integers, decimals with an optional fraction and
// exponent, and ".5"-style floats. Suffixes are not part of the token.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Eat('.') {
		lx.digits(isDec)
		return lx.exponent(start)
	}

	if lx.cursor.Peek() == '0' {
		if _, b1, ok := lx.cursor.Peek2(); ok {
			var digit func(byte) bool
			switch b1 {
			case 'b', 'B':
				digit = func(b byte) bool { return b == '0' || b == '1' }
			case 'o', 'O':
				digit = func(b byte) bool { return b >= '0' && b <= '7' }
			case 'x', 'X':
				digit = isHex
			}
			if digit != nil {
				lx.cursor.Bump()
				lx.cursor.Bump()
				if lx.digits(digit) == 0 {
					tok := lx.emit(token.Invalid, start)
					lx.report("BadNumber", tok.Span, "missing digits after base prefix")
					return tok
				}
				return lx.emit(token.IntLit, start)
			}
		}
	}

	lx.digits(isDec)
	kind := token.IntLit
	// "1..2" это диапазон, а не дробь
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump()
		lx.digits(isDec)
		kind = token.FloatLit
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		return lx.exponent(start)
	}
	return lx.emit(kind, start)
}

// exponent scans an optional exponent and emits a float literal.
func (lx *Lexer) exponent(start Mark) token.Token {
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if lx.digits(isDec) == 0 {
			tok := lx.emit(token.Invalid, start)
			lx.report("BadNumber", tok.Span, "expected digit after exponent")
			return tok
		}
	}
	return lx.emit(token.FloatLit, start)
}

// digits consumes digits accepted by ok, with '_' separators, and returns how
// many real digits it saw.
func (lx *Lexer) digits(ok func(byte) bool) int {
	n := 0
	for {
		b := lx.cursor.Peek()
		switch {
		case ok(b):
			n++
		case b == '_':
		default:
			return n
		}
		lx.cursor.Bump()
	}
}
