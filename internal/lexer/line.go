package lexer

import (
	"context"
	"fmt"
	"strconv"

	"reindent/internal/source"
	"reindent/internal/token"
	"reindent/internal/trace"
)

// TokenizeLine returns the tokens of the line starting at lineStart, clipped to
// that line. The whole snapshot is scanned from the top so that block comments
// and #if branches opened on earlier lines are honoured. The terminating
// newline is not included.
func TokenizeLine(file *source.File, lineStart uint32, defines Defines) ([]token.Token, error) {
	line := file.LineAt(lineStart)
	if line.Start != lineStart {
		return nil, fmt.Errorf("lexer: offset %d is not a line start (line %d starts at %d)", lineStart, line.Num+1, line.Start)
	}
	if line.Start == line.End {
		return nil, nil
	}
	lx := New(file, Options{Defines: defines})
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF || tok.Span.Start >= line.End {
			break
		}
		if tok.Span.End <= line.Start {
			continue
		}
		out = append(out, clipToLine(file, tok, line))
	}
	return out, nil
}

// clipToLine narrows a token that spans several lines to its part on line.
func clipToLine(file *source.File, tok token.Token, line source.Line) token.Token {
	if tok.Span.Start >= line.Start && tok.Span.End <= line.End {
		return tok
	}
	sp := tok.Span
	if sp.Start < line.Start {
		sp.Start = line.Start
	}
	if sp.End > line.End {
		sp.End = line.End
	}
	tok.Span = sp
	tok.Text = string(file.Content[sp.Start:sp.End])
	tok.Line = line.Num
	tok.Col = sp.Start - line.Start
	tok.EndCol = sp.End - line.Start
	return tok
}

// LineTokenizer adapts TokenizeLine to the context-aware collaborator shape
// used by the aligner.
type LineTokenizer struct{}

// TokenizeLine implements the aligner's tokenizer dependency.
func (LineTokenizer) TokenizeLine(ctx context.Context, file *source.File, lineStart uint32, defines Defines) ([]token.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span, _ := trace.Start(ctx, trace.ScopeStep, "tokenize")
	tokens, err := TokenizeLine(file, lineStart, defines)
	span.Attr("tokens", strconv.Itoa(len(tokens)))
	span.End(file.Path)
	return tokens, err
}
