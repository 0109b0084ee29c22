package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"reindent/internal/brace"
	"reindent/internal/config"
	"reindent/internal/lexer"
	"reindent/internal/source"
	"reindent/internal/token"
)

// TokenizeOptions select what Tokenize returns.
type TokenizeOptions struct {
	Line   int // 1-based; 0 tokenizes the whole file
	Braces bool
	Store  *config.Store
}

// TokenizeResult holds the tokens of a file or of one of its lines.
type TokenizeResult struct {
	File        *source.File
	Tokens      []token.Token
	Diagnostics []lexer.Diagnostic
	Braces      *brace.Result
	Defines     lexer.Defines
}

// Tokenize lexes path with the defines of its project.
func Tokenize(ctx context.Context, path string, opts TokenizeOptions) (*TokenizeResult, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	file := fileSet.Get(id)

	store := opts.Store
	if store == nil {
		store = config.NewStore()
	}
	project, err := store.ProjectOptions(ctx, path)
	if err != nil {
		return nil, err
	}
	defines := lexer.NewDefines(project.Defines...)
	res := &TokenizeResult{File: file, Defines: defines}

	if opts.Line > 0 {
		num, err := safecast.Conv[uint32](opts.Line - 1)
		if err != nil {
			return nil, err
		}
		line, ok := file.Line(num)
		if !ok {
			return nil, fmt.Errorf("%s: %w: %d (file has %d)", path, errNoLine, opts.Line, file.LineCount())
		}
		res.Tokens, err = lexer.LineTokenizer{}.TokenizeLine(ctx, file, line.Start, defines)
		if err != nil {
			return nil, err
		}
	} else {
		rep := &lexer.Collector{}
		res.Tokens = lexer.New(file, lexer.Options{Reporter: rep, Defines: defines}).All()
		res.Diagnostics = rep.Items
	}

	if opts.Braces {
		all := brace.Matcher{}.All(file, brace.Options{Defines: defines})
		res.Braces = &all
	}
	return res, nil
}
