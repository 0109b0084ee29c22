package trace

import "sync"

// Recorder keeps events in memory. Tests use it to assert which steps ran.
type Recorder struct {
	mu     sync.Mutex
	level  Level
	events []Event
}

// NewRecorder creates a recorder for the given level.
func NewRecorder(level Level) *Recorder {
	return &Recorder{level: level}
}

// Emit implements Tracer.
func (r *Recorder) Emit(ev *Event) {
	if !r.level.ShouldEmit(ev.Scope) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Seq = uint64(len(r.events) + 1)
	r.events = append(r.events, *ev)
}

func (r *Recorder) Flush() error { return nil }
func (r *Recorder) Close() error { return nil }
func (r *Recorder) Level() Level { return r.level }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Ended returns the names of ended spans in the order they ended.
func (r *Recorder) Ended() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		if ev.Kind == KindEnd {
			out = append(out, ev.Name)
		}
	}
	return out
}
