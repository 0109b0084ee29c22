// Package indent computes the whitespace edit that lines a closing bracket up
// with the line that opened it.
package indent

import (
	"context"
	"strings"

	"fortio.org/safecast"

	"reindent/internal/brace"
	"reindent/internal/fix"
	"reindent/internal/lexer"
	"reindent/internal/source"
	"reindent/internal/token"
)

// LineTokenizer splits one line of a snapshot into tokens.
type LineTokenizer interface {
	TokenizeLine(ctx context.Context, file *source.File, lineStart uint32, defines lexer.Defines) ([]token.Token, error)
}

// BraceMatcher finds the bracket pair at a position.
type BraceMatcher interface {
	MatchAt(ctx context.Context, file *source.File, path string, opts brace.Options, pos uint32) (brace.Pair, bool, error)
}

// Aligner reindents a line that starts with a closing bracket.
type Aligner struct {
	tokens LineTokenizer
	braces BraceMatcher
}

// New creates an aligner from its collaborators.
func New(tokens LineTokenizer, braces BraceMatcher) *Aligner {
	return &Aligner{tokens: tokens, braces: braces}
}

// Default returns an aligner backed by the lexer and the brace matcher.
func Default() *Aligner {
	return New(lexer.LineTokenizer{}, brace.Matcher{})
}

// Align returns the edit replacing the leading spaces of the line containing
// position with the leading spaces of the line that opened the bracket
// matched at position. It applies only when that closing bracket is the first
// meaningful token of the line; otherwise ok is false.
//
// Only ' ' counts as indentation. A tab-indented opener measures as zero.
func (a *Aligner) Align(ctx context.Context, file *source.File, path string, position uint32, defines lexer.Defines) (edit fix.TextEdit, ok bool, err error) {
	line := file.LineAt(position)

	tokens, err := a.tokens.TokenizeLine(ctx, file, line.Start, defines)
	if err != nil {
		return fix.TextEdit{}, false, err
	}

	first, found := token.FirstMeaningful(tokens)
	if !found {
		return fix.TextEdit{}, false, nil
	}

	pair, matched, err := a.braces.MatchAt(ctx, file, path, brace.Options{Defines: defines}, position)
	if err != nil || !matched {
		return fix.TextEdit{}, false, err
	}

	// закрывающая скобка должна быть на этой строке и первой значимой
	if pair.Close.Start < line.Start || pair.Close.Start >= line.End {
		return fix.TextEdit{}, false, nil
	}
	if pair.Close.Start-line.Start != first.Col {
		return fix.TextEdit{}, false, nil
	}

	openLine := file.LineAt(pair.Open.Start)
	want := LeadingSpaces(file.Text(openLine))
	have := LeadingSpaces(file.Text(line))

	haveLen, err := safecast.Conv[uint32](have)
	if err != nil {
		return fix.TextEdit{}, false, err
	}
	current := source.Span{File: file.ID, Start: line.Start, End: line.Start + haveLen}
	return fix.ReplaceSpan(current, strings.Repeat(" ", want), strings.Repeat(" ", have)), true, nil
}

// LeadingSpaces counts the ' ' characters at the start of text.
func LeadingSpaces(text string) int {
	n := 0
	for n < len(text) && text[n] == ' ' {
		n++
	}
	return n
}
