package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Whitespace is a run of spaces and tabs.
	Whitespace
	// Newline is a single '\n'.
	Newline
	// LineComment is a // comment up to the end of the line.
	LineComment
	// DocComment is a /// comment up to the end of the line.
	DocComment
	// BlockComment is a (possibly nested) /* */ comment, or the part of it on one line.
	BlockComment
	// Directive is a whole #if/#else/#endif line.
	Directive
	// Inactive is the text of a line excluded by the active defines.
	Inactive

	// Ident represents an identifier token.
	Ident
	KwFn       // fn
	KwLet      // let
	KwConst    // const
	KwMut      // mut
	KwIf       // if
	KwElse     // else
	KwWhile    // while
	KwFor      // for
	KwIn       // in
	KwBreak    // break
	KwContinue // continue
	KwReturn   // return
	KwImport   // import
	KwAs       // as
	KwType     // type
	KwPub      // pub
	KwExtern   // extern
	KwCompare  // compare
	KwTrue     // true
	KwFalse    // false

	// NothingLit represents the nothing literal token.
	NothingLit
	// IntLit represents the integer literal token.
	IntLit
	// FloatLit represents the float literal token.
	FloatLit
	// StringLit represents a string literal, or the part of it on one line.
	StringLit

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Assign     // =
	EqEq       // ==
	Bang       // !
	BangEq     // !=
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	Amp        // &
	Pipe       // |
	Caret      // ^
	AndAnd     // &&
	OrOr       // ||
	Question   // ?
	Colon      // :
	ColonColon // ::
	Semicolon  // ;
	Comma      // ,
	Dot        // .
	DotDot     // ..
	Arrow      // ->
	FatArrow   // =>
	At         // @
	Hash       // # outside of a directive line

	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Whitespace:   "Whitespace",
	Newline:      "Newline",
	LineComment:  "LineComment",
	DocComment:   "DocComment",
	BlockComment: "BlockComment",
	Directive:    "Directive",
	Inactive:     "Inactive",
	Ident:        "Ident",
	KwFn:         "KwFn",
	KwLet:        "KwLet",
	KwConst:      "KwConst",
	KwMut:        "KwMut",
	KwIf:         "KwIf",
	KwElse:       "KwElse",
	KwWhile:      "KwWhile",
	KwFor:        "KwFor",
	KwIn:         "KwIn",
	KwBreak:      "KwBreak",
	KwContinue:   "KwContinue",
	KwReturn:     "KwReturn",
	KwImport:     "KwImport",
	KwAs:         "KwAs",
	KwType:       "KwType",
	KwPub:        "KwPub",
	KwExtern:     "KwExtern",
	KwCompare:    "KwCompare",
	KwTrue:       "KwTrue",
	KwFalse:      "KwFalse",
	NothingLit:   "NothingLit",
	IntLit:       "IntLit",
	FloatLit:     "FloatLit",
	StringLit:    "StringLit",
	Plus:         "Plus",
	Minus:        "Minus",
	Star:         "Star",
	Slash:        "Slash",
	Percent:      "Percent",
	Assign:       "Assign",
	EqEq:         "EqEq",
	Bang:         "Bang",
	BangEq:       "BangEq",
	Lt:           "Lt",
	LtEq:         "LtEq",
	Gt:           "Gt",
	GtEq:         "GtEq",
	Amp:          "Amp",
	Pipe:         "Pipe",
	Caret:        "Caret",
	AndAnd:       "AndAnd",
	OrOr:         "OrOr",
	Question:     "Question",
	Colon:        "Colon",
	ColonColon:   "ColonColon",
	Semicolon:    "Semicolon",
	Comma:        "Comma",
	Dot:          "Dot",
	DotDot:       "DotDot",
	Arrow:        "Arrow",
	FatArrow:     "FatArrow",
	At:           "At",
	Hash:         "Hash",
	LParen:       "LParen",
	RParen:       "RParen",
	LBrace:       "LBrace",
	RBrace:       "RBrace",
	LBracket:     "LBracket",
	RBracket:     "RBracket",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsTrivia reports whether the kind carries no code: whitespace, newlines and comments.
// Doc comments are line comments for this purpose.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, Newline, LineComment, DocComment, BlockComment:
		return true
	default:
		return false
	}
}

// IsOpenBracket reports whether the kind is one of ( [ {.
func (k Kind) IsOpenBracket() bool {
	return k == LParen || k == LBracket || k == LBrace
}

// IsCloseBracket reports whether the kind is one of ) ] }.
func (k Kind) IsCloseBracket() bool {
	return k == RParen || k == RBracket || k == RBrace
}

// Partner returns the matching bracket kind, or Invalid for non-brackets.
func (k Kind) Partner() Kind {
	switch k {
	case LParen:
		return RParen
	case RParen:
		return LParen
	case LBrace:
		return RBrace
	case RBrace:
		return LBrace
	case LBracket:
		return RBracket
	case RBracket:
		return LBracket
	default:
		return Invalid
	}
}
