package token_test

import (
	"testing"

	"reindent/internal/token"
)

func TestIsTrivia(t *testing.T) {
	trivia := []token.Kind{token.Whitespace, token.Newline, token.LineComment, token.DocComment, token.BlockComment}
	for _, k := range trivia {
		if !k.IsTrivia() {
			t.Fatalf("%v should be trivia", k)
		}
	}
	non := []token.Kind{token.Ident, token.RBrace, token.Directive, token.Inactive, token.StringLit}
	for _, k := range non {
		if k.IsTrivia() {
			t.Fatalf("%v must NOT be trivia", k)
		}
	}
}

func TestBracketPartners(t *testing.T) {
	pairs := map[token.Kind]token.Kind{
		token.LParen:   token.RParen,
		token.LBrace:   token.RBrace,
		token.LBracket: token.RBracket,
	}
	for open, closeKind := range pairs {
		if !open.IsOpenBracket() || open.IsCloseBracket() {
			t.Fatalf("%v should be an open bracket", open)
		}
		if !closeKind.IsCloseBracket() || closeKind.IsOpenBracket() {
			t.Fatalf("%v should be a close bracket", closeKind)
		}
		if open.Partner() != closeKind || closeKind.Partner() != open {
			t.Fatalf("partner mismatch for %v/%v", open, closeKind)
		}
	}
	if token.Plus.Partner() != token.Invalid {
		t.Fatal("non-bracket must have no partner")
	}
}

func TestFirstMeaningful(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.Whitespace, Col: 0},
		{Kind: token.BlockComment, Col: 4},
		{Kind: token.RBrace, Col: 10},
		{Kind: token.Ident, Col: 12},
	}
	got, ok := token.FirstMeaningful(tokens)
	if !ok || got.Kind != token.RBrace || got.Col != 10 {
		t.Fatalf("unexpected first meaningful token %+v ok=%v", got, ok)
	}
	if _, ok := token.FirstMeaningful(tokens[:2]); ok {
		t.Fatal("expected no meaningful token on a trivia-only line")
	}
}

func TestKindString(t *testing.T) {
	if token.RBracket.String() != "RBracket" {
		t.Fatalf("unexpected name %q", token.RBracket.String())
	}
	if got := token.Kind(250).String(); got != "Kind(250)" {
		t.Fatalf("unexpected fallback name %q", got)
	}
}

func TestLookupKeyword(t *testing.T) {
	if k, ok := token.LookupKeyword("fn"); !ok || k != token.KwFn {
		t.Fatalf("LookupKeyword(fn) = %v, %v", k, ok)
	}
	if _, ok := token.LookupKeyword("Fn"); ok {
		t.Fatal("keywords are case sensitive")
	}
}
