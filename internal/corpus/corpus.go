// Package corpus records formatting requests and their answers as a msgpack
// stream and replays them against the current service. A replay with no
// mismatches means behavior matches the recorded one.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"reindent/internal/config"
	"reindent/internal/fix"
	"reindent/internal/formatting"
	"reindent/internal/source"
)

// Current schema version - increment when Case format changes
const SchemaVersion uint16 = 1

// Case is one recorded request with everything needed to repeat it.
type Case struct {
	Schema uint16

	Name string
	Path string
	Text string

	// Request
	Trigger     string // "char", "return", "paste", "format"
	Char        string // typed character for "char"
	Position    uint32
	HasSpan     bool // paste or selection
	SpanStart   uint32
	SpanEnd     uint32
	IndentStyle string
	Defines     []string
	IndentWidth int
	UseTabs     bool

	// Answer
	Edits []Edit
}

// Edit is a TextEdit without the file identity.
type Edit struct {
	Start   uint32
	End     uint32
	NewText string
}

// BuildTrigger rebuilds the formatting trigger of the case.
func (c *Case) BuildTrigger() (formatting.Trigger, error) {
	span := source.Span{Start: c.SpanStart, End: c.SpanEnd}
	switch c.Trigger {
	case "char":
		r := []rune(c.Char)
		if len(r) != 1 {
			return formatting.Trigger{}, fmt.Errorf("case %q: char trigger needs one character, got %q", c.Name, c.Char)
		}
		return formatting.OnChar(r[0]), nil
	case "return":
		return formatting.OnReturn(), nil
	case "paste":
		return formatting.OnPaste(span), nil
	case "format":
		if c.HasSpan {
			return formatting.OnFormat(&span), nil
		}
		return formatting.OnFormat(nil), nil
	default:
		return formatting.Trigger{}, fmt.Errorf("case %q: unknown trigger %q", c.Name, c.Trigger)
	}
}

// SetTrigger stores t into the case.
func (c *Case) SetTrigger(t formatting.Trigger) {
	c.Trigger = t.Kind.String()
	c.Char = ""
	c.HasSpan = false
	c.SpanStart, c.SpanEnd = 0, 0
	if t.Kind == formatting.TriggerChar {
		c.Char = string(t.Char)
	}
	if t.Span != nil {
		c.HasSpan = true
		c.SpanStart, c.SpanEnd = t.Span.Start, t.Span.End
	}
}

// FromTextEdits strips file identity and expected text.
func FromTextEdits(edits []fix.TextEdit) []Edit {
	if len(edits) == 0 {
		return nil
	}
	out := make([]Edit, len(edits))
	for i, e := range edits {
		out[i] = Edit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText}
	}
	return out
}

// Writer appends cases to a stream. Safe for concurrent use.
type Writer struct {
	mu    sync.Mutex
	enc   *msgpack.Encoder
	close func() error
	count int
}

// NewWriter writes cases to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: msgpack.NewEncoder(w)}
}

// Create opens path for appending, creating it if needed.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	w := NewWriter(f)
	w.close = f.Close
	return w, nil
}

// Append encodes one case, stamping the schema version.
func (w *Writer) Append(c Case) error {
	if w == nil {
		return nil
	}
	c.Schema = SchemaVersion
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(&c); err != nil {
		return fmt.Errorf("corpus: encode %q: %w", c.Name, err)
	}
	w.count++
	return nil
}

// Count returns how many cases were appended.
func (w *Writer) Count() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying file when the writer owns one.
func (w *Writer) Close() error {
	if w == nil || w.close == nil {
		return nil
	}
	return w.close()
}

// Read decodes cases until EOF. Cases with another schema are rejected.
func Read(r io.Reader) ([]Case, error) {
	dec := msgpack.NewDecoder(r)
	var out []Case
	for {
		var c Case
		if err := dec.Decode(&c); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("corpus: case %d: %w", len(out), err)
		}
		if c.Schema != SchemaVersion {
			return out, fmt.Errorf("corpus: case %d: schema %d, want %d", len(out), c.Schema, SchemaVersion)
		}
		out = append(out, c)
	}
}

// ReadFile reads every case stored at path.
func ReadFile(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Options rebuilds the project options of the case.
func (c *Case) Options() config.ProjectOptions {
	return config.ProjectOptions{
		Defines:     c.Defines,
		IndentWidth: c.IndentWidth,
		UseTabs:     c.UseTabs,
	}
}
