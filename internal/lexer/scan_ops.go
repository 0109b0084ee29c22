package lexer

import (
	"reindent/internal/token"
)

var twoCharOps = [...]struct {
	a, b byte
	kind token.Kind
}{
	{'.', '.', token.DotDot},
	{':', ':', token.ColonColon},
	{'-', '>', token.Arrow},
	{'=', '>', token.FatArrow},
	{'&', '&', token.AndAnd},
	{'|', '|', token.OrOr},
	{'=', '=', token.EqEq},
	{'!', '=', token.BangEq},
	{'<', '=', token.LtEq},
	{'>', '=', token.GtEq},
}

var oneCharOps = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Assign,
	'!': token.Bang,
	'<': token.Lt,
	'>': token.Gt,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	'?': token.Question,
	':': token.Colon,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'@': token.At,
	'#': token.Hash,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}

// scanOperatorOrPunct is greedy: two-byte operators win over single bytes.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range twoCharOps {
		if lx.try2(op.a, op.b) {
			return lx.emit(op.kind, start)
		}
	}

	if lx.cursor.Peek() >= utf8RuneSelf {
		lx.bumpRune()
		tok := lx.emit(token.Invalid, start)
		lx.report("UnknownChar", tok.Span, "unknown character")
		return tok
	}
	ch := lx.cursor.Bump()
	if kind, ok := oneCharOps[ch]; ok {
		return lx.emit(kind, start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.report("UnknownChar", tok.Span, "unknown character")
	return tok
}
