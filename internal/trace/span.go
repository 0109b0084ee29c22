package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span is an open span. The zero value and nil are inert.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	depth   int
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

type spanKey struct{}

// Start opens a span under the span carried by ctx and returns a context in
// which it is the parent of nested spans. When the context's tracer does not
// record scope, the span is inert and ctx is returned unchanged.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	t := FromContext(ctx)
	if !Enabled(t, scope) {
		return &Span{}, ctx
	}
	span := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	if parent := parentOf(ctx); parent != nil {
		span.parent = parent.id
		span.depth = parent.depth + 1
	}
	t.Emit(span.event(KindBegin, span.started))
	return span, context.WithValue(ctx, spanKey{}, span)
}

func parentOf(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanKey{}).(*Span)
	return span
}

// CurrentSpan returns the ID of the span carried by ctx, 0 if none.
func CurrentSpan(ctx context.Context) uint64 {
	return parentOf(ctx).ID()
}

// Attr annotates the end event of the span.
func (s *Span) Attr(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

// End emits the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	ev := s.event(KindEnd, now)
	ev.Detail = detail
	ev.Elapsed = now.Sub(s.started)
	ev.Attrs = s.attrs
	s.tracer.Emit(ev)
	s.tracer = nil
	return ev.Elapsed
}

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) event(kind Kind, at time.Time) *Event {
	return &Event{
		Time:   at,
		Kind:   kind,
		Scope:  s.scope,
		Span:   s.id,
		Parent: s.parent,
		Depth:  s.depth,
		Name:   s.name,
	}
}
