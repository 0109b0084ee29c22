package trace

import (
	"bufio"
	"io"
	"sync"
)

// Stream writes events to an io.Writer as they arrive. Output is buffered
// and flushed whenever a request span ends.
type Stream struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
	seq    uint64
}

// NewStream creates a stream tracer. FormatAuto means text.
func NewStream(w io.Writer, level Level, format Format) *Stream {
	if format == FormatAuto {
		format = FormatText
	}
	return &Stream{out: w, buf: bufio.NewWriter(w), level: level, format: format}
}

// Emit implements Tracer.
func (t *Stream) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	ev.Seq = t.seq
	// ошибки записи трейса не ломают форматирование
	_, _ = t.buf.Write(FormatEvent(ev, t.format))
	if ev.Kind == KindEnd && ev.Scope == ScopeRequest {
		_ = t.buf.Flush()
	}
}

// Flush implements Tracer.
func (t *Stream) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Flush()
}

// Close flushes and closes the output if it is an io.Closer.
func (t *Stream) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.buf.Flush(); err != nil {
		return err
	}
	if closer, ok := t.out.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Level implements Tracer.
func (t *Stream) Level() Level { return t.level }
