package lexer

import (
	"strings"

	"reindent/internal/source"
	"reindent/internal/token"
)

// condFrame is one level of #if nesting.
type condFrame struct {
	parent  bool // была ли активна объемлющая ветка
	taken   bool // условие #if было истинным
	active  bool
	sawElse bool
}

func (lx *Lexer) active() bool {
	if len(lx.conds) == 0 {
		return true
	}
	return lx.conds[len(lx.conds)-1].active
}

// scanDirective recognizes #if EXPR, #else and #endif at the start of a line.
// Anything else starting with '#' is left to the normal scanners.
func (lx *Lexer) scanDirective() (token.Token, bool) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	wordStart := lx.cursor.Off
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	word := string(lx.file.Content[wordStart:lx.cursor.Off])
	switch word {
	case "if", "else", "endif":
	default:
		lx.cursor.Reset(start)
		return token.Token{}, false
	}
	argStart := lx.cursor.Off
	lx.cursor.SkipToLineEnd()
	tok := lx.emit(token.Directive, start)
	arg := string(lx.file.Content[argStart:lx.cursor.Off])

	switch word {
	case "if":
		lx.pushIf(tok.Span, arg)
	case "else":
		lx.flipElse(tok.Span)
	case "endif":
		lx.popEndif(tok.Span)
	}
	return tok, true
}

func (lx *Lexer) pushIf(sp source.Span, arg string) {
	parent := lx.active()
	value, err := evalCondition(stripDirectiveComment(arg), lx.opts.Defines)
	if err != nil {
		lx.report("BadDirective", sp, "invalid #if condition: "+err.Error())
		value = true
	}
	lx.conds = append(lx.conds, condFrame{
		parent: parent,
		taken:  value,
		active: parent && value,
	})
}

func (lx *Lexer) flipElse(sp source.Span) {
	if len(lx.conds) == 0 {
		lx.report("StrayElse", sp, "#else without #if")
		return
	}
	top := &lx.conds[len(lx.conds)-1]
	if top.sawElse {
		lx.report("DuplicateElse", sp, "duplicate #else")
		return
	}
	top.sawElse = true
	top.active = top.parent && !top.taken
}

func (lx *Lexer) popEndif(sp source.Span) {
	if len(lx.conds) == 0 {
		lx.report("StrayEndif", sp, "#endif without #if")
		return
	}
	lx.conds = lx.conds[:len(lx.conds)-1]
}

func stripDirectiveComment(arg string) string {
	if i := strings.Index(arg, "//"); i >= 0 {
		arg = arg[:i]
	}
	return strings.TrimSpace(arg)
}
