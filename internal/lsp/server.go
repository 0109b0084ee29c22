// Package lsp serves the formatting service to editors over stdio JSON-RPC.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"reindent/internal/config"
	"reindent/internal/corpus"
	"reindent/internal/formatting"
	"reindent/internal/logging"
	"reindent/internal/trace"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Store    *config.Store // nil: a fresh store
	Logger   *log.Logger   // nil: logging.Default()
	Recorder *corpus.Writer
	Version  string
	// Service options applied to every request, e.g. a custom printer.
	ServiceOptions []formatting.Option
}

type requestHandler func(ctx context.Context) (any, error)

// Server handles stdio JSON-RPC for the formatter.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	mu     sync.Mutex

	docs     *documents
	store    *config.Store
	logger   *log.Logger
	recorder *corpus.Writer
	version  string
	svcOpts  []formatting.Option

	overrides         config.Overrides
	traceLSP          bool
	workspaceRoot     string
	shutdownRequested bool
	baseCtx           context.Context
	pending           map[string]context.CancelFunc
	inflight          sync.WaitGroup
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	store := opts.Store
	if store == nil {
		store = config.NewStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Server{
		in:       bufio.NewReader(in),
		out:      bufio.NewWriter(out),
		docs:     newDocuments(),
		store:    store,
		logger:   logger.WithPrefix("lsp"),
		recorder: opts.Recorder,
		version:  opts.Version,
		svcOpts:  opts.ServiceOptions,
		baseCtx:  context.Background(),
		pending:  make(map[string]context.CancelFunc),
	}
}

// Run serves LSP requests until exit or EOF. In-flight requests are
// cancelled and awaited before it returns.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.inflight.Wait()
	}()
	s.baseCtx = logging.WithLogger(ctx, s.logger)
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Warn("failed to parse message", logging.FieldError, err)
			if err := s.sendError(json.RawMessage("null"), codeParseError, "parse error"); err != nil {
				return err
			}
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		s.mu.Lock()
		requested := s.shutdownRequested
		s.mu.Unlock()
		if requested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "$/cancelRequest":
		return s.handleCancel(msg)
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/onTypeFormatting":
		return s.dispatch(msg, s.prepareOnType)
	case "textDocument/formatting":
		return s.dispatch(msg, s.prepareFormatting)
	case "textDocument/rangeFormatting":
		return s.dispatch(msg, s.prepareRangeFormatting)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

// dispatch resolves a request against the current document state on the
// reader goroutine, then computes the answer on its own goroutine so that
// $/cancelRequest can reach it.
func (s *Server) dispatch(msg *rpcMessage, prepare func(params json.RawMessage) (requestHandler, error)) error {
	handler, err := prepare(msg.Params)
	if err != nil {
		var rerr *rpcError
		if errors.As(err, &rerr) {
			return s.sendError(msg.ID, rerr.Code, rerr.Message)
		}
		return s.sendError(msg.ID, codeInternalError, err.Error())
	}

	key := string(msg.ID)
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.mu.Lock()
	s.pending[key] = cancel
	s.mu.Unlock()

	id := append(json.RawMessage(nil), msg.ID...)
	method := msg.Method
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			s.mu.Lock()
			delete(s.pending, key)
			s.mu.Unlock()
			cancel()
		}()

		span, ctx := trace.Start(ctx, trace.ScopeRequest, method)
		result, err := handler(ctx)
		var sendErr error
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			span.End("cancelled")
			sendErr = s.sendError(id, codeRequestCancelled, "request cancelled")
		case err != nil:
			span.End("error")
			sendErr = s.sendError(id, codeInternalError, err.Error())
		default:
			span.End("")
			sendErr = s.sendResponse(id, result)
		}
		if sendErr != nil {
			s.logger.Error("failed to send response", logging.FieldMethod, method, logging.FieldRequest, key, logging.FieldError, sendErr)
		}
	}()
	return nil
}

func (s *Server) handleCancel(msg *rpcMessage) error {
	var params cancelParams
	if err := json.Unmarshal(msg.Params, &params); err != nil || len(params.ID) == 0 {
		return nil
	}
	s.mu.Lock()
	cancel, ok := s.pending[string(params.ID)]
	s.mu.Unlock()
	if ok {
		cancel()
	}
	return nil
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	s.mu.Lock()
	s.workspaceRoot = root
	s.mu.Unlock()
	s.applySettings(params.InitializationOptions)

	more := make([]string, 0, len(formatting.TriggerCharacters()))
	for _, ch := range formatting.TriggerCharacters() {
		if ch != "}" {
			more = append(more, ch)
		}
	}
	if formatting.SupportsFormatOnReturn() {
		more = append(more, "\n")
	}
	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save: saveOptions{
					IncludeText: true,
				},
			},
			DocumentFormattingProvider:      formatting.SupportsFormatDocument(),
			DocumentRangeFormattingProvider: formatting.SupportsFormatSelection(),
			DocumentOnTypeFormattingProvider: &onTypeFormattingOptions{
				FirstTriggerCharacter: "}",
				MoreTriggerCharacter:  more,
			},
		},
		ServerInfo: &serverInfo{Name: "reindent", Version: s.version},
	}
	s.logger.Debug("initialized", "root", root)
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	for _, cancel := range s.pending {
		cancel()
	}
	s.mu.Unlock()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	s.docs.open(params.TextDocument.URI, path, params.TextDocument.Text, params.TextDocument.Version)
	if s.tracing() {
		s.logger.Info("didOpen", logging.FieldPath, path, logging.FieldVersion, params.TextDocument.Version)
	}
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	if !s.docs.change(path, params.TextDocument.Version, params.ContentChanges) {
		s.logger.Warn("didChange for a document that is not open", logging.FieldPath, path)
		return nil
	}
	if s.tracing() {
		s.logger.Info("didChange", logging.FieldPath, path, logging.FieldVersion, params.TextDocument.Version)
	}
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	if params.Text != nil {
		s.docs.replace(path, *params.Text)
	}
	// манифест мог поменяться вместе с файлом
	if filepath.Base(path) == config.ManifestName {
		s.store.Forget()
	}
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	s.docs.close(path)
	return nil
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}
