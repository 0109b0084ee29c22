package format

import (
	"bytes"
	"errors"
	"fmt"

	"reindent/internal/brace"
	"reindent/internal/lexer"
	"reindent/internal/source"
	"reindent/internal/token"
)

// ErrParse is returned when the input is too broken to reindent safely.
var ErrParse = errors.New("format: parse errors present")

type Options struct {
	IndentWidth int
	UseTabs     bool
	Defines     lexer.Defines
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	sf     *source.File
	tokens []token.Token
	writer *Writer
}

// FormatFile reindents every line of sf to its bracket depth.
//
// Lines starting with closers are dedented first, trailing whitespace is
// trimmed, runs of blank lines collapse to one and the result ends with a
// single newline. Continuation lines of block comments and lines of inactive
// #if branches are copied unchanged; directives go to column 0.
func FormatFile(sf *source.File, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	opt = opt.withDefaults()
	rep := &lexer.Collector{}
	tokens := lexer.New(sf, lexer.Options{Reporter: rep, Defines: opt.Defines}).All()
	if err := checkParse(sf, tokens, rep); err != nil {
		return nil, err
	}
	pr := printer{sf: sf, tokens: tokens, writer: NewWriter(sf, opt)}
	pr.printFile()
	return pr.writer.Bytes(), nil
}

func checkParse(sf *source.File, tokens []token.Token, rep *lexer.Collector) error {
	for _, d := range rep.Items {
		switch d.Kind {
		case "UnterminatedBlockComment", "UnterminatedString":
			return fmt.Errorf("%w: %s at %s", ErrParse, d.Message, posString(sf, d.Span.Start))
		}
	}
	if res := brace.Pairs(sf, tokens); !res.Balanced() {
		return fmt.Errorf("%w: unmatched bracket at %s", ErrParse, posString(sf, res.Unmatched[0].Start))
	}
	return nil
}

func posString(sf *source.File, off uint32) string {
	pos := sf.Position(off)
	return fmt.Sprintf("%s:%d:%d", sf.Path, pos.Line, pos.Col)
}

func (p *printer) printFile() {
	var (
		depth      int
		blank      bool   // есть отложенная пустая строка
		wrote      bool   // уже записана хотя бы одна строка
		commentEnd uint32 // конец последнего блочного комментария
		next       int
	)
	flushBlank := func() {
		if blank && wrote {
			p.writer.EndLine()
		}
		blank = false
		wrote = true
	}

	for num := uint32(0); num < p.sf.LineCount(); num++ {
		line, _ := p.sf.Line(num)
		continuation := commentEnd > line.Start

		start := next
		for next < len(p.tokens) && p.tokens[next].Kind != token.EOF && p.tokens[next].Span.Start <= line.End {
			next++
		}
		code := meaningful(p.tokens[start:next])

		inactive := false
		for _, tok := range code {
			switch {
			case tok.Kind == token.BlockComment:
				commentEnd = max(commentEnd, tok.Span.End)
			case tok.Kind == token.Inactive:
				inactive = true
			}
		}

		switch {
		case continuation || inactive:
			flushBlank()
			p.writer.VerbatimLine(line.Start, line.End)
		case len(code) == 0:
			blank = true
		default:
			flushBlank()
			level := depth
			for _, tok := range code {
				if !tok.Kind.IsCloseBracket() {
					break
				}
				level--
			}
			if code[0].Kind == token.Directive {
				level = 0
			}
			p.writer.SetIndent(level)
			last := code[len(code)-1].Span.End
			p.writer.TrimmedLine(code[0].Span.Start, min(last, line.End))
		}

		for _, tok := range code {
			switch {
			case tok.Kind.IsOpenBracket():
				depth++
			case tok.Kind.IsCloseBracket() && depth > 0:
				depth--
			}
		}
	}
}

// meaningful drops whitespace and newlines; comments stay.
func meaningful(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == token.Whitespace || tok.Kind == token.Newline {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// CheckRoundTrip formats sf twice and verifies that the second pass changes
// nothing and that no code token was added, lost or altered.
func CheckRoundTrip(sf *source.File, opt Options) (ok bool, msg string) {
	once, err := FormatFile(sf, opt)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}
	reparsed := source.NewVirtualFile(sf.Path, once)
	twice, err := FormatFile(reparsed, opt)
	if err != nil {
		return false, "fmt-check: reformat failed: " + err.Error()
	}
	if !bytes.Equal(once, twice) {
		return false, "fmt-check: output is not stable"
	}
	if !sameCode(sf, reparsed, opt.Defines) {
		return false, "fmt-check: code tokens differ after formatting"
	}
	return true, "fmt-check: OK"
}

func sameCode(a, b *source.File, defines lexer.Defines) bool {
	codeOf := func(f *source.File) []string {
		var out []string
		for _, tok := range lexer.New(f, lexer.Options{Defines: defines}).All() {
			if tok.IsTrivia() || tok.Kind == token.EOF {
				continue
			}
			out = append(out, string(bytes.TrimSpace([]byte(tok.Text))))
		}
		return out
	}
	ka, kb := codeOf(a), codeOf(b)
	if len(ka) != len(kb) {
		return false
	}
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}
