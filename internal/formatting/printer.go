package formatting

import (
	"context"

	"reindent/internal/config"
	"reindent/internal/format"
	"reindent/internal/lexer"
	"reindent/internal/source"
)

// PrettyPrinter reformats a whole document.
type PrettyPrinter interface {
	Format(ctx context.Context, file *source.File, path string, opts config.ProjectOptions) ([]byte, error)
}

// FormatPrinter is the PrettyPrinter backed by internal/format.
type FormatPrinter struct{}

// Format implements PrettyPrinter.
func (FormatPrinter) Format(ctx context.Context, file *source.File, _ string, opts config.ProjectOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return format.FormatFile(file, FormatOptions(opts))
}

// FormatOptions maps project options onto pretty-printer options.
func FormatOptions(opts config.ProjectOptions) format.Options {
	return format.Options{
		IndentWidth: opts.IndentWidth,
		UseTabs:     opts.UseTabs,
		Defines:     lexer.NewDefines(opts.Defines...),
	}
}
