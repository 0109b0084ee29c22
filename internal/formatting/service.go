// Package formatting is the editor-facing formatting service: it gates each
// trigger, runs the aligner or the pretty-printer against a snapshot and
// returns at most one edit.
package formatting

import (
	"context"
	"errors"
	"strconv"

	"github.com/charmbracelet/log"

	"reindent/internal/config"
	"reindent/internal/fix"
	"reindent/internal/indent"
	"reindent/internal/lexer"
	"reindent/internal/logging"
	"reindent/internal/source"
	"reindent/internal/trace"
)

// DocumentSource returns the current snapshot of a document.
type DocumentSource interface {
	Snapshot(ctx context.Context, docPath string) (*source.File, error)
}

// ConfigProvider returns the editor indent style for a document.
type ConfigProvider interface {
	IndentStyle(ctx context.Context, docPath string) (config.IndentStyle, error)
}

// ProjectProvider returns project options for a document.
type ProjectProvider interface {
	ProjectOptions(ctx context.Context, docPath string) (config.ProjectOptions, error)
}

// Request is everything one formatting action works on.
type Request struct {
	Doc      *source.File
	Path     string
	Position uint32
	Trigger  Trigger
	Style    config.IndentStyle
	Defines  lexer.Defines
	Options  config.ProjectOptions
}

// Service answers formatting requests. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	docs    DocumentSource
	config  ConfigProvider
	project ProjectProvider
	printer PrettyPrinter
	aligner *indent.Aligner
	logger  *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPrinter replaces the whole-document pretty-printer.
func WithPrinter(p PrettyPrinter) Option { return func(s *Service) { s.printer = p } }

// WithAligner replaces the closing-bracket aligner.
func WithAligner(a *indent.Aligner) Option { return func(s *Service) { s.aligner = a } }

// WithLogger sets the logger; otherwise the context logger is used.
func WithLogger(l *log.Logger) Option { return func(s *Service) { s.logger = l } }

// NewService wires a service. Config and project options usually come from
// the same store.
func NewService(docs DocumentSource, cfg ConfigProvider, project ProjectProvider, opts ...Option) *Service {
	s := &Service{
		docs:    docs,
		config:  cfg,
		project: project,
		printer: FormatPrinter{},
		aligner: indent.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnTypedCharacter handles a typed character at the caret.
func (s *Service) OnTypedCharacter(ctx context.Context, docPath string, r rune, pos uint32) ([]fix.TextEdit, error) {
	return s.Format(ctx, docPath, OnChar(r), pos)
}

// OnReturn handles a newline; pos is the caret after the newline.
func (s *Service) OnReturn(ctx context.Context, docPath string, pos uint32) ([]fix.TextEdit, error) {
	return s.Format(ctx, docPath, OnReturn(), pos)
}

// OnPaste never produces edits.
func (s *Service) OnPaste(ctx context.Context, docPath string, span source.Span) ([]fix.TextEdit, error) {
	return s.Format(ctx, docPath, OnPaste(span), span.End)
}

// OnFormat formats the whole document (nil span) or a selection (unsupported).
func (s *Service) OnFormat(ctx context.Context, docPath string, span *source.Span) ([]fix.TextEdit, error) {
	return s.Format(ctx, docPath, OnFormat(span), 0)
}

// Format dispatches a trigger. The result is empty or holds exactly one edit.
// The only error returned is the context's; failures of collaborators are
// logged and yield no edit.
func (s *Service) Format(ctx context.Context, docPath string, trigger Trigger, pos uint32) ([]fix.TextEdit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := s.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	logger = logger.With(logging.FieldDocument, docPath, logging.FieldTrigger, trigger.String())

	span, ctx := trace.Start(ctx, trace.ScopeRequest, "format")
	span.Attr("trigger", trigger.String())
	edits, err := s.format(ctx, logger, docPath, trigger, pos)
	switch {
	case err != nil:
		span.End("cancelled")
	default:
		span.End(strconv.Itoa(len(edits)) + " edit(s)")
		logger.Debug("formatted", logging.FieldEdits, len(edits))
	}
	return edits, err
}

func (s *Service) format(ctx context.Context, logger *log.Logger, docPath string, trigger Trigger, pos uint32) ([]fix.TextEdit, error) {
	req := Request{Path: docPath, Position: pos, Trigger: trigger, Style: config.IndentStyleSmart}

	// не тот символ: даже конфиг не трогаем
	if trigger.Kind == TriggerChar && !SupportsFormattingOnTypedCharacter(trigger.Char) {
		return nil, nil
	}
	if trigger.needsStyle() {
		err := s.step(ctx, "config", func(ctx context.Context) (err error) {
			req.Style, err = s.config.IndentStyle(ctx, docPath)
			return err
		})
		if err != nil {
			return s.fail(ctx, logger, "config", err)
		}
	}

	decision := Gate(trigger, req.Style)
	logger.Debug("gate", "decision", decision.String(), logging.FieldStyle, req.Style.String())
	if decision == DecisionSkip {
		return nil, nil
	}

	err := s.step(ctx, "snapshot", func(ctx context.Context) (err error) {
		req.Doc, err = s.docs.Snapshot(ctx, docPath)
		if err == nil && req.Doc == nil {
			err = errors.New("no snapshot")
		}
		return err
	})
	if err != nil {
		return s.fail(ctx, logger, "snapshot", err)
	}
	err = s.step(ctx, "project", func(ctx context.Context) (err error) {
		req.Options, err = s.project.ProjectOptions(ctx, docPath)
		return err
	})
	if err != nil {
		return s.fail(ctx, logger, "project", err)
	}
	req.Defines = lexer.NewDefines(req.Options.Defines...)

	if decision == DecisionAlign {
		return s.align(ctx, logger, req)
	}
	return s.prettyPrint(ctx, logger, req)
}

func (s *Service) align(ctx context.Context, logger *log.Logger, req Request) ([]fix.TextEdit, error) {
	span, stepCtx := trace.Start(ctx, trace.ScopeStep, "align")
	edit, ok, err := s.aligner.Align(stepCtx, req.Doc, req.Path, req.Position, req.Defines)
	span.End(strconv.FormatBool(ok))
	if err != nil {
		return s.fail(ctx, logger, "align", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	logger.Debug("aligned", logging.FieldOffset, edit.Span.Start, "indent", len(edit.NewText))
	return []fix.TextEdit{edit}, nil
}

func (s *Service) prettyPrint(ctx context.Context, logger *log.Logger, req Request) ([]fix.TextEdit, error) {
	span, stepCtx := trace.Start(ctx, trace.ScopeStep, "pretty-print")
	out, err := s.printer.Format(stepCtx, req.Doc, req.Path, req.Options)
	span.End("")
	if err != nil {
		return s.fail(ctx, logger, "pretty-print", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []fix.TextEdit{fix.ReplaceFile(req.Doc, out)}, nil
}

// step runs one suspension point under a trace span. A cancelled context
// counts as the step's failure.
func (s *Service) step(ctx context.Context, name string, fn func(context.Context) error) error {
	span, stepCtx := trace.Start(ctx, trace.ScopeStep, name)
	err := fn(stepCtx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		span.End("error")
		return err
	}
	span.End("")
	return nil
}

// fail collapses a collaborator failure into "no edit". Cancellation wins.
func (s *Service) fail(ctx context.Context, logger *log.Logger, step string, err error) ([]fix.TextEdit, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	logger.Warn("formatting step failed", logging.FieldStep, step, logging.FieldError, err)
	return nil, nil
}
