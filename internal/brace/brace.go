// Package brace pairs the brackets of a snapshot and finds the pair at a
// caret position.
package brace

import (
	"context"
	"sort"
	"strconv"

	"reindent/internal/lexer"
	"reindent/internal/source"
	"reindent/internal/token"
	"reindent/internal/trace"
)

// Pair is a matched open/close bracket.
type Pair struct {
	Kind     token.Kind // kind of the opener
	Open     source.Span
	Close    source.Span
	OpenPos  source.LineCol
	ClosePos source.LineCol
}

// Mode selects how a position is tested against a bracket.
type Mode uint8

const (
	// ModeFormatting matches when Start <= pos <= End, so a caret just after a
	// typed closer still finds it.
	ModeFormatting Mode = iota
	// ModeNavigation matches only when the caret sits on the bracket byte.
	ModeNavigation
)

// Options configure a match.
type Options struct {
	Mode    Mode
	Defines lexer.Defines
}

// Result is the outcome of pairing every bracket in a snapshot.
type Result struct {
	Pairs []Pair
	// Unmatched holds openers left on the stack and closers that paired with
	// nothing, in document order.
	Unmatched []source.Span
}

// Balanced reports whether every bracket found a partner.
func (r Result) Balanced() bool { return len(r.Unmatched) == 0 }

type stackEntry struct {
	kind token.Kind
	span source.Span
}

// Pairs pairs the brackets of tokens with a stack. Trivia, strings and
// inactive code are skipped because they never lex as bracket tokens.
// A closer that does not match the innermost opener is left unmatched and
// the stack is not popped.
func Pairs(file *source.File, tokens []token.Token) Result {
	var res Result
	stack := make([]stackEntry, 0, 16)
	for _, tok := range tokens {
		switch {
		case tok.Kind.IsOpenBracket():
			stack = append(stack, stackEntry{kind: tok.Kind, span: tok.Span})
		case tok.Kind.IsCloseBracket():
			if len(stack) == 0 || stack[len(stack)-1].kind.Partner() != tok.Kind {
				res.Unmatched = append(res.Unmatched, tok.Span)
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			res.Pairs = append(res.Pairs, Pair{
				Kind:     open.kind,
				Open:     open.span,
				Close:    tok.Span,
				OpenPos:  file.Position(open.span.Start),
				ClosePos: file.Position(tok.Span.Start),
			})
		}
	}
	for _, open := range stack {
		res.Unmatched = append(res.Unmatched, open.span)
	}
	sortSpans(res.Unmatched)
	return res
}

// Matcher finds bracket pairs in snapshots. The zero value is ready to use.
type Matcher struct{}

// All tokenizes file with the given defines and pairs every bracket.
func (Matcher) All(file *source.File, opts Options) Result {
	lx := lexer.New(file, lexer.Options{Defines: opts.Defines})
	return Pairs(file, lx.All())
}

// MatchAt returns the pair whose opener or closer contains pos.
// Preference: a closer ending at pos, then a closer starting at pos, then an
// opener; ties go to the earlier bracket in the document.
func (m Matcher) MatchAt(ctx context.Context, file *source.File, path string, opts Options, pos uint32) (Pair, bool, error) {
	if err := ctx.Err(); err != nil {
		return Pair{}, false, err
	}
	span, _ := trace.Start(ctx, trace.ScopeStep, "brace-match")
	defer span.End(path)

	res := m.All(file, opts)
	if err := ctx.Err(); err != nil {
		return Pair{}, false, err
	}
	span.Attr("pairs", strconv.Itoa(len(res.Pairs)))

	best, bestRank, bestStart := -1, rankNone, uint32(0)
	for i, p := range res.Pairs {
		rank, start := rankPair(p, pos, opts.Mode)
		if rank == rankNone {
			continue
		}
		if best < 0 || rank < bestRank || rank == bestRank && start < bestStart {
			best, bestRank, bestStart = i, rank, start
		}
	}
	if best < 0 {
		return Pair{}, false, nil
	}
	return res.Pairs[best], true, nil
}

const (
	rankCloseEnd = iota
	rankCloseStart
	rankOpen
	rankNone
)

// rankPair returns how well pos matches p and the offset of the matched bracket.
func rankPair(p Pair, pos uint32, mode Mode) (rank int, start uint32) {
	if mode == ModeNavigation {
		switch {
		case p.Close.Start <= pos && pos < p.Close.End:
			return rankCloseStart, p.Close.Start
		case p.Open.Start <= pos && pos < p.Open.End:
			return rankOpen, p.Open.Start
		}
		return rankNone, 0
	}
	switch {
	case p.Close.End == pos:
		return rankCloseEnd, p.Close.Start
	case p.Close.Start == pos:
		return rankCloseStart, p.Close.Start
	case p.Open.Touches(pos):
		return rankOpen, p.Open.Start
	}
	return rankNone, 0
}

func sortSpans(spans []source.Span) {
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
}
