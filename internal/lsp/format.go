package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"reindent/internal/corpus"
	"reindent/internal/fix"
	"reindent/internal/formatting"
	"reindent/internal/logging"
	"reindent/internal/source"
)

// pinned serves the snapshot a request was resolved against.
type pinned struct{ file *source.File }

func (p pinned) Snapshot(ctx context.Context, _ string) (*source.File, error) {
	return p.file, ctx.Err()
}

func invalidParams(err error) error {
	return &rpcError{Code: codeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
}

func noEdits(context.Context) (any, error) { return []textEdit{}, nil }

// snapshot returns the open document at uri, or nil when it is not open.
func (s *Server) snapshot(uri string) (string, *source.File) {
	path := uriToPath(uri)
	if path == "" {
		return "", nil
	}
	file, err := s.docs.Snapshot(context.Background(), path)
	if err != nil {
		s.logger.Debug("no snapshot", logging.FieldPath, path, logging.FieldError, err)
		return path, nil
	}
	return path, file
}

func (s *Server) prepareOnType(raw json.RawMessage) (requestHandler, error) {
	var params documentOnTypeFormattingParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, invalidParams(err)
	}
	path, file := s.snapshot(params.TextDocument.URI)
	if file == nil {
		return noEdits, nil
	}
	var trig formatting.Trigger
	switch r := []rune(params.Ch); {
	case params.Ch == "\n":
		trig = formatting.OnReturn()
	case len(r) == 1:
		trig = formatting.OnChar(r[0])
	default:
		return noEdits, nil
	}
	pos := offsetForPositionInFile(file, params.Position)
	return s.formatHandler(path, file, trig, pos), nil
}

func (s *Server) prepareFormatting(raw json.RawMessage) (requestHandler, error) {
	var params documentFormattingParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, invalidParams(err)
	}
	path, file := s.snapshot(params.TextDocument.URI)
	if file == nil {
		return noEdits, nil
	}
	return s.formatHandler(path, file, formatting.OnFormat(nil), 0), nil
}

func (s *Server) prepareRangeFormatting(raw json.RawMessage) (requestHandler, error) {
	var params documentRangeFormattingParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, invalidParams(err)
	}
	path, file := s.snapshot(params.TextDocument.URI)
	if file == nil {
		return noEdits, nil
	}
	span := spanForRange(file, params.Range)
	return s.formatHandler(path, file, formatting.OnFormat(&span), span.Start), nil
}

func (s *Server) formatHandler(path string, file *source.File, trig formatting.Trigger, pos uint32) requestHandler {
	return func(ctx context.Context) (any, error) {
		svc := formatting.NewService(pinned{file: file}, s.store, s.store, s.svcOpts...)
		edits, err := svc.Format(ctx, path, trig, pos)
		if err != nil {
			return nil, err
		}
		s.record(path, file, trig, pos, edits)
		return toTextEdits(file, edits), nil
	}
}

// record appends the request to the corpus when recording is on.
func (s *Server) record(path string, file *source.File, trig formatting.Trigger, pos uint32, edits []fix.TextEdit) {
	if s.recorder == nil {
		return
	}
	cfg, _, err := s.store.Resolve(path)
	if err != nil {
		s.logger.Warn("not recording request", logging.FieldPath, path, logging.FieldError, err)
		return
	}
	version, _ := s.docs.version(path)
	c := corpus.Case{
		Name:        fmt.Sprintf("%s@v%d:%d", filepath.Base(path), version, pos),
		Path:        path,
		Text:        string(file.Content),
		Position:    pos,
		IndentStyle: cfg.Editor.IndentStyle.String(),
		Defines:     cfg.Project.Defines,
		IndentWidth: cfg.Format.IndentWidth,
		UseTabs:     cfg.Format.UseTabs,
		Edits:       corpus.FromTextEdits(edits),
	}
	c.SetTrigger(trig)
	if err := s.recorder.Append(c); err != nil {
		s.logger.Warn("corpus append failed", logging.FieldError, err)
	}
}
