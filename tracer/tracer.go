// Package tracer provides the diagnostic sink used by retry handlers.
//
// A Tracer receives one line per diagnostic event. Handlers never assume a
// sink is present: a nil Tracer is a legal no-op. Sinks shared between
// concurrent retry invocations must be safe for concurrent use.
package tracer

import (
	"fmt"
	"sync"
)

// Tracer receives diagnostic messages.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: tracing is best-effort and must not panic.
type Tracer interface {
	Trace(msg string)
}

// Func adapts a function to a Tracer.
type Func func(msg string)

// Trace calls f(msg).
func (f Func) Trace(msg string) { f(msg) }

// Nop discards every message.
var Nop Tracer = nop{}

type nop struct{}

func (nop) Trace(string) {}

// Multi fans messages out to every non-nil tracer in order.
func Multi(tracers ...Tracer) Tracer {
	ts := make([]Tracer, 0, len(tracers))
	for _, t := range tracers {
		if t != nil {
			ts = append(ts, t)
		}
	}
	switch len(ts) {
	case 0:
		return Nop
	case 1:
		return ts[0]
	}
	return multi(ts)
}

type multi []Tracer

func (m multi) Trace(msg string) {
	for _, t := range m {
		t.Trace(msg)
	}
}

// Source tags messages with the identity of the component emitting them.
// The zero value discards messages.
type Source struct {
	prefix string
	tracer Tracer
}

// NewSource returns a Source for component writing to t.
func NewSource(component string, t Tracer) Source {
	return Source{prefix: component + ": ", tracer: t}
}

// With returns a copy of s writing to t.
func (s Source) With(t Tracer) Source {
	s.tracer = t
	return s
}

// Tracer returns the underlying sink, which may be nil.
func (s Source) Tracer() Tracer { return s.tracer }

// Enabled reports whether messages reach a sink.
func (s Source) Enabled() bool { return s.tracer != nil }

// Tracef formats and emits a message. Nothing is formatted without a sink.
func (s Source) Tracef(format string, args ...any) {
	if s.tracer == nil {
		return
	}
	s.tracer.Trace(s.prefix + fmt.Sprintf(format, args...))
}

// Recorder keeps every message in memory.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

// Trace records msg.
func (r *Recorder) Trace(msg string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Reset discards recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.msgs = nil
	r.mu.Unlock()
}
