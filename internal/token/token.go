package token

import (
	"reindent/internal/source"
)

// Token is a single classified run of source bytes with its location.
type Token struct {
	Kind   Kind
	Span   source.Span
	Text   string
	Line   uint32 // 0-based line the token starts on
	Col    uint32 // 0-based byte column of Span.Start within Line
	EndCol uint32 // Col + number of bytes of the token on its first line
}

// IsTrivia reports whether the token carries no code.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwFn && t.Kind <= KwFalse
}

// IsLiteral reports whether the token is a numeric, string, or nothing literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NothingLit, IntLit, FloatLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsBracket reports whether the token is one of the six brackets.
func (t Token) IsBracket() bool {
	return t.Kind.IsOpenBracket() || t.Kind.IsCloseBracket()
}

// FirstMeaningful returns the first token that is not trivia.
func FirstMeaningful(tokens []Token) (Token, bool) {
	for _, tok := range tokens {
		if !tok.IsTrivia() {
			return tok, true
		}
	}
	return Token{}, false
}
