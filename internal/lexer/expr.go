package lexer

import (
	"errors"
	"fmt"
)

// evalCondition evaluates an #if expression:
//
//	or    := and ("||" and)*
//	and   := unary ("&&" unary)*
//	unary := "!" unary | "(" or ")" | ident
func evalCondition(src string, defines Defines) (bool, error) {
	if src == "" {
		return false, errors.New("missing condition")
	}
	p := condParser{src: src, defines: defines}
	v, err := p.parseOr()
	if err != nil {
		return false, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return false, fmt.Errorf("unexpected %q", p.src[p.pos:])
	}
	return v, nil
}

type condParser struct {
	src     string
	pos     int
	defines Defines
}

func (p *condParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *condParser) eat(op string) bool {
	p.skipSpace()
	if len(p.src)-p.pos >= len(op) && p.src[p.pos:p.pos+len(op)] == op {
		p.pos += len(op)
		return true
	}
	return false
}

func (p *condParser) parseOr() (bool, error) {
	left, err := p.parseAnd()
	if err != nil {
		return false, err
	}
	for p.eat("||") {
		right, err := p.parseAnd()
		if err != nil {
			return false, err
		}
		left = left || right
	}
	return left, nil
}

func (p *condParser) parseAnd() (bool, error) {
	left, err := p.parseUnary()
	if err != nil {
		return false, err
	}
	for p.eat("&&") {
		right, err := p.parseUnary()
		if err != nil {
			return false, err
		}
		left = left && right
	}
	return left, nil
}

func (p *condParser) parseUnary() (bool, error) {
	if p.eat("!") {
		v, err := p.parseUnary()
		return !v, err
	}
	if p.eat("(") {
		v, err := p.parseOr()
		if err != nil {
			return false, err
		}
		if !p.eat(")") {
			return false, errors.New("missing ')'")
		}
		return v, nil
	}
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && (isIdentContinueByte(p.src[p.pos]) || p.src[p.pos] >= utf8RuneSelf) {
		p.pos++
	}
	if start == p.pos {
		if p.pos >= len(p.src) {
			return false, errors.New("unexpected end of condition")
		}
		return false, fmt.Errorf("unexpected %q", p.src[p.pos:p.pos+1])
	}
	return p.defines.Has(p.src[start:p.pos]), nil
}
