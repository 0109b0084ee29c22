package driver

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"

	"reindent/internal/config"
	"reindent/internal/fix"
	"reindent/internal/formatting"
	"reindent/internal/logging"
	"reindent/internal/source"
)

// AlignOptions describe one simulated editor action.
type AlignOptions struct {
	Line    int // 1-based
	Col     int // 1-based byte column of the caret
	Trigger formatting.Trigger
	Apply   bool // write the result back to the file
	Store   *config.Store
}

// AlignResult is the answer of the formatting service for one action.
type AlignResult struct {
	File     *source.File
	Position uint32
	Edits    []fix.TextEdit
	Output   []byte // file content with the edits applied
	Written  bool
}

// fileSource serves a single loaded snapshot.
type fileSource struct{ file *source.File }

func (f fileSource) Snapshot(ctx context.Context, _ string) (*source.File, error) {
	return f.file, ctx.Err()
}

// Align loads path and runs the formatting service for opts.Trigger at the
// given caret.
func Align(ctx context.Context, path string, opts AlignOptions) (*AlignResult, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	file := fileSet.Get(id)

	pos, err := caretOffset(file, opts.Line, opts.Col)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	store := opts.Store
	if store == nil {
		store = config.NewStore()
	}

	logging.FromContext(ctx).Debug("align", logging.FieldPath, path, logging.FieldLine, opts.Line, logging.FieldOffset, pos)
	svc := formatting.NewService(fileSource{file: file}, store, store)
	edits, err := svc.Format(ctx, path, opts.Trigger, pos)
	if err != nil {
		return nil, err
	}
	out, err := fix.ApplyFile(file, edits)
	if err != nil {
		return nil, err
	}
	res := &AlignResult{File: file, Position: pos, Edits: edits, Output: out}
	if opts.Apply && len(edits) > 0 && !edits[0].Noop() {
		if _, err := fix.WriteFile(file, edits); err != nil {
			return res, err
		}
		res.Written = true
	}
	return res, nil
}

var errNoLine = errors.New("line out of range")

// caretOffset converts a 1-based line and byte column to an offset, clamping
// the column to the line end.
func caretOffset(file *source.File, line, col int) (uint32, error) {
	if line < 1 || col < 1 {
		return 0, fmt.Errorf("invalid position %d:%d", line, col)
	}
	num, err := safecast.Conv[uint32](line - 1)
	if err != nil {
		return 0, err
	}
	l, ok := file.Line(num)
	if !ok {
		return 0, fmt.Errorf("%w: %d (file has %d)", errNoLine, line, file.LineCount())
	}
	c, err := safecast.Conv[uint32](col - 1)
	if err != nil {
		return 0, err
	}
	return l.Start + min(c, l.Len()), nil
}
