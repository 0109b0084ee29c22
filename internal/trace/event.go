package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Scope is the granularity of a span; lower is coarser.
type Scope uint8

const (
	ScopeRequest Scope = iota + 1 // formatting request, CLI file
	ScopeStep                     // a step inside a request
)

func (s Scope) String() string {
	switch s {
	case ScopeRequest:
		return "request"
	case ScopeStep:
		return "step"
	default:
		return "unknown"
	}
}

// Attr is a key-value annotation of a span, kept in insertion order.
type Attr struct {
	Key   string
	Value string
}

// Event is a span boundary as seen by a Tracer.
type Event struct {
	Time    time.Time
	Seq     uint64 // assigned by the tracer that writes the event
	Kind    Kind
	Scope   Scope
	Span    uint64
	Parent  uint64 // 0 for a root span
	Depth   int    // nesting depth, 0 for a root span
	Name    string // e.g. "format", "tokenize"
	Detail  string // set on KindEnd
	Elapsed time.Duration
	Attrs   []Attr
}
