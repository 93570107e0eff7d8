package events

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"toolhub/internal/api"
	"toolhub/pkg/logging"
)

// State is the lifecycle position of a Translator.
type State int

const (
	StateIdle State = iota
	StateStreaming
	StateFinished
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateFinished:
		return "finished"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// PersistFunc stores the full answer of a finished turn.
type PersistFunc func(ctx context.Context, answer string) error

// Translator turns one turn's trace into the caller-facing event stream.
// An instance serves exactly one turn.
type Translator struct {
	maxArgLen int
	persist   PersistFunc

	mu    sync.Mutex
	state State
}

// Option customizes a Translator.
type Option func(*Translator)

// WithMaxArgLength sets the per-argument cap applied to tool_start input.
func WithMaxArgLength(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.maxArgLen = n
		}
	}
}

// WithPersister sets the hook that stores the answer before finish is sent.
func WithPersister(fn PersistFunc) Option {
	return func(t *Translator) { t.persist = fn }
}

// NewTranslator creates a Translator in the idle state.
func NewTranslator(opts ...Option) *Translator {
	t := &Translator{maxArgLen: DefaultMaxArgLength}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current lifecycle state.
func (t *Translator) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Translator) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

// Run consumes trace and returns the output stream. Events are forwarded in
// arrival order and the stream ends with exactly one finish or error event,
// after which the channel is closed. A closed trace counts as StreamFinish.
//
// The output is unbuffered, so a slow reader slows the trace down. If ctx is
// cancelled the stream is closed without a terminal event.
func (t *Translator) Run(ctx context.Context, trace <-chan TraceEvent) <-chan api.Event {
	out := make(chan api.Event)

	t.mu.Lock()
	if t.state != StateIdle {
		state := t.state
		t.mu.Unlock()
		go func() {
			defer close(out)
			t.send(ctx, out, api.NewErrorEvent(fmt.Sprintf("translator already used (state %s)", state)))
		}()
		return out
	}
	t.state = StateStreaming
	t.mu.Unlock()

	go t.loop(ctx, trace, out)
	return out
}

func (t *Translator) loop(ctx context.Context, trace <-chan TraceEvent, out chan<- api.Event) {
	defer close(out)

	var answer strings.Builder
	for {
		var ev TraceEvent
		select {
		case <-ctx.Done():
			t.setState(StateErrored)
			return
		case e, ok := <-trace:
			if !ok {
				e = StreamFinish{}
			}
			ev = e
		}

		switch e := ev.(type) {
		case TextFragment:
			if e.Text == "" {
				continue
			}
			answer.WriteString(e.Text)
			if !t.send(ctx, out, api.NewTokenEvent(e.Text)) {
				t.setState(StateErrored)
				return
			}
		case CapabilityStart:
			if !t.send(ctx, out, api.NewToolStartEvent(e.Name, SanitizeArgs(e.Args, t.maxArgLen))) {
				t.setState(StateErrored)
				return
			}
		case CapabilityEnd:
			if !t.send(ctx, out, api.NewToolEndEvent(e.Name, RenderResult(e.Result))) {
				t.setState(StateErrored)
				return
			}
		case StreamError:
			t.setState(StateErrored)
			t.send(ctx, out, api.NewErrorEvent(e.Message))
			return
		case StreamFinish:
			if answer.Len() > 0 && t.persist != nil {
				if err := t.persist(ctx, answer.String()); err != nil {
					logging.Error("Translator", err, "Failed to persist answer, finishing anyway")
				}
			}
			t.setState(StateFinished)
			t.send(ctx, out, api.NewFinishEvent())
			return
		default:
			t.setState(StateErrored)
			t.send(ctx, out, api.NewErrorEvent(fmt.Sprintf("unsupported trace event %T", ev)))
			return
		}
	}
}

func (t *Translator) send(ctx context.Context, out chan<- api.Event, ev api.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
