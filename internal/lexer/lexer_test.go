package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"reindent/internal/lexer"
	"reindent/internal/source"
	"reindent/internal/token"
)

func makeFile(input string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.sg", []byte(input)))
}

// lexAll возвращает все токены без EOF и собранные диагностики
func lexAll(input string, defines lexer.Defines) ([]token.Token, *lexer.Collector) {
	rep := &lexer.Collector{}
	lx := lexer.New(makeFile(input), lexer.Options{Reporter: rep, Defines: defines})
	tokens := lx.All()
	return tokens[:len(tokens)-1], rep
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectKinds(t *testing.T, got []token.Token, want ...token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %s", len(want), len(got), tokensToString(got))
	}
	for i, k := range kinds(got) {
		if k != want[i] {
			t.Errorf("token %d: expected %v, got %v (%s)", i, want[i], k, tokensToString(got))
		}
	}
}

func TestLexerKeepsEveryByte(t *testing.T) {
	inputs := []string{
		"fn main() {\n    let x = 1;\n}\n",
		"/* a\n /* b */ c */ x // tail\n",
		"#if DEBUG\n  log(\"x\");\n#else\n  y\n#endif\n",
		"let s = \"unterminated\nnext",
		"a..b ::c -> d => e && f || g",
	}
	for _, input := range inputs {
		tokens, _ := lexAll(input, nil)
		var b strings.Builder
		for _, tok := range tokens {
			b.WriteString(tok.Text)
		}
		if b.String() != input {
			t.Errorf("round trip mismatch:\nwant %q\ngot  %q", input, b.String())
		}
	}
}

func TestOperatorsAndBrackets(t *testing.T) {
	tokens, rep := lexAll("a..b::c->d=>e&&f||g==h!=i<=j>=k", nil)
	expectKinds(t, tokens,
		token.Ident, token.DotDot, token.Ident, token.ColonColon, token.Ident,
		token.Arrow, token.Ident, token.FatArrow, token.Ident, token.AndAnd,
		token.Ident, token.OrOr, token.Ident, token.EqEq, token.Ident,
		token.BangEq, token.Ident, token.LtEq, token.Ident, token.GtEq, token.Ident,
	)
	if len(rep.Items) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.Items)
	}

	tokens, _ = lexAll("([{}])", nil)
	expectKinds(t, tokens, token.LParen, token.LBracket, token.LBrace, token.RBrace, token.RBracket, token.RParen)
}

func TestIdentifiersAndKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"foo", token.Ident},
		{"_", token.Ident},
		{"_bar9", token.Ident},
		{"имя", token.Ident},
		{"fn", token.KwFn},
		{"Fn", token.Ident},
		{"return", token.KwReturn},
		{"nothing", token.NothingLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, _ := lexAll(tt.input, nil)
			if len(tokens) != 1 || tokens[0].Kind != tt.kind || tokens[0].Text != tt.input {
				t.Fatalf("expected single %v, got %s", tt.kind, tokensToString(tokens))
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntLit},
		{"1_000", token.IntLit},
		{"0x1F", token.IntLit},
		{"0b1010", token.IntLit},
		{"0o17", token.IntLit},
		{"1.5", token.FloatLit},
		{".5", token.FloatLit},
		{"1e10", token.FloatLit},
		{"2.5E-3", token.FloatLit},
		{"1e", token.Invalid},
		{"0x", token.Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, _ := lexAll(tt.input, nil)
			if len(tokens) != 1 || tokens[0].Kind != tt.kind {
				t.Fatalf("expected single %v, got %s", tt.kind, tokensToString(tokens))
			}
		})
	}

	// диапазон не поглощается числом
	tokens, _ := lexAll("1..2", nil)
	expectKinds(t, tokens, token.IntLit, token.DotDot, token.IntLit)
}

func TestStrings(t *testing.T) {
	tokens, rep := lexAll(`"a\"b" x`, nil)
	expectKinds(t, tokens, token.StringLit, token.Whitespace, token.Ident)
	if tokens[0].Text != `"a\"b"` {
		t.Fatalf("unexpected string text %q", tokens[0].Text)
	}
	if len(rep.Items) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.Items)
	}

	tokens, rep = lexAll("\"abc\nx", nil)
	expectKinds(t, tokens, token.Invalid, token.Newline, token.Ident)
	if !rep.Has("UnterminatedString") {
		t.Fatalf("expected UnterminatedString diagnostic, got %v", rep.Items)
	}
}

func TestComments(t *testing.T) {
	tokens, _ := lexAll("// line\n/// doc\n//// not doc\n", nil)
	expectKinds(t, tokens,
		token.LineComment, token.Newline,
		token.DocComment, token.Newline,
		token.LineComment, token.Newline,
	)

	tokens, rep := lexAll("/* outer /* inner */ still */x", nil)
	expectKinds(t, tokens, token.BlockComment, token.Ident)
	if len(rep.Items) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.Items)
	}

	_, rep = lexAll("/* open", nil)
	if !rep.Has("UnterminatedBlockComment") {
		t.Fatalf("expected UnterminatedBlockComment, got %v", rep.Items)
	}
}

func TestUnknownCharacter(t *testing.T) {
	tokens, rep := lexAll("a $ b ✓", nil)
	expectKinds(t, tokens,
		token.Ident, token.Whitespace, token.Invalid, token.Whitespace,
		token.Ident, token.Whitespace, token.Invalid,
	)
	if tokens[6].Text != "✓" {
		t.Fatalf("expected whole rune in invalid token, got %q", tokens[6].Text)
	}
	if !rep.Has("UnknownChar") {
		t.Fatalf("expected UnknownChar, got %v", rep.Items)
	}
}

func TestTokenColumns(t *testing.T) {
	tokens, _ := lexAll("a\n    }\n", nil)
	// a, \n, ws, }, \n
	brace := tokens[3]
	if brace.Kind != token.RBrace {
		t.Fatalf("expected RBrace, got %s", tokensToString(tokens))
	}
	if brace.Line != 1 || brace.Col != 4 || brace.EndCol != 5 {
		t.Fatalf("unexpected position line=%d col=%d end=%d", brace.Line, brace.Col, brace.EndCol)
	}
}

func TestDirectives(t *testing.T) {
	input := "#if DEBUG\nlog()\n#else\nquiet()\n#endif\n"

	tokens, rep := lexAll(input, nil)
	expectKinds(t, tokens,
		token.Directive, token.Newline,
		token.Inactive, token.Newline,
		token.Directive, token.Newline,
		token.Ident, token.LParen, token.RParen, token.Newline,
		token.Directive, token.Newline,
	)
	if len(rep.Items) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.Items)
	}

	tokens, _ = lexAll(input, lexer.NewDefines("DEBUG"))
	expectKinds(t, tokens,
		token.Directive, token.Newline,
		token.Ident, token.LParen, token.RParen, token.Newline,
		token.Directive, token.Newline,
		token.Inactive, token.Newline,
		token.Directive, token.Newline,
	)
}

func TestNestedDirectivesInsideInactiveBranch(t *testing.T) {
	input := "#if A\n#if B\nx\n#else\ny\n#endif\n#endif\nz"
	tokens, _ := lexAll(input, lexer.NewDefines("B"))
	var inactive, idents []string
	for _, tok := range tokens {
		switch tok.Kind {
		case token.Inactive:
			inactive = append(inactive, tok.Text)
		case token.Ident:
			idents = append(idents, tok.Text)
		}
	}
	if strings.Join(inactive, ",") != "x,y" {
		t.Fatalf("expected x and y inactive, got %v", inactive)
	}
	if strings.Join(idents, ",") != "z" {
		t.Fatalf("expected only z active, got %v", idents)
	}
}

func TestDirectiveExpressions(t *testing.T) {
	defines := lexer.NewDefines("A", "B")
	tests := []struct {
		cond   string
		active bool
	}{
		{"A", true},
		{"C", false},
		{"!C", true},
		{"A && B", true},
		{"A && C", false},
		{"C || B", true},
		{"!(A && C)", true},
		{"(A || C) && !B", false},
		{"A // comment", true},
	}
	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			tokens, rep := lexAll("#if "+tt.cond+"\nx\n#endif", defines)
			if len(rep.Items) != 0 {
				t.Fatalf("unexpected diagnostics: %v", rep.Items)
			}
			got := tokens[2].Kind == token.Ident
			if got != tt.active {
				t.Fatalf("expected active=%v, got %s", tt.active, tokensToString(tokens))
			}
		})
	}
}

func TestMalformedDirectives(t *testing.T) {
	tokens, rep := lexAll("#if A &&\nx\n#endif", nil)
	if !rep.Has("BadDirective") {
		t.Fatalf("expected BadDirective, got %v", rep.Items)
	}
	if tokens[2].Kind != token.Ident {
		t.Fatalf("malformed condition must leave code active, got %s", tokensToString(tokens))
	}

	_, rep = lexAll("#endif\n#else\n", nil)
	if !rep.Has("StrayEndif") || !rep.Has("StrayElse") {
		t.Fatalf("expected stray diagnostics, got %v", rep.Items)
	}

	// не директива: '#' посреди строки и неизвестное слово
	tokens, _ = lexAll("x #if\n#iffy", nil)
	expectKinds(t, tokens,
		token.Ident, token.Whitespace, token.Hash, token.KwIf, token.Newline,
		token.Hash, token.Ident,
	)
}

func TestUnterminatedConditional(t *testing.T) {
	lx := lexer.New(makeFile("#if A\nx\n"), lexer.Options{})
	lx.All()
	if !lx.Unterminated() {
		t.Fatal("expected open #if to be reported as unterminated")
	}
}

func TestDefinesNormalization(t *testing.T) {
	// "é" как одна руна и как e + combining acute
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"
	d := lexer.NewDefines(decomposed, "  ", "")
	if !d.Has(composed) {
		t.Fatal("expected NFC-equivalent names to match")
	}
	if got := d.Names(); len(got) != 1 || got[0] != composed {
		t.Fatalf("unexpected names %v", got)
	}
}
