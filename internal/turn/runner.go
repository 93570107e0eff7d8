package turn

import (
	"context"

	"toolhub/internal/aggregator"
	"toolhub/internal/api"
	"toolhub/internal/events"
	"toolhub/pkg/logging"

	"github.com/google/uuid"
)

// DefaultHistoryLimit is how many past messages are handed to the model.
const DefaultHistoryLimit = 40

// Runner executes conversational turns. It is safe for concurrent use;
// each Stream call builds its own manifest and translator.
type Runner struct {
	builder      ManifestBuilder
	agent        Agent
	recorder     Recorder
	historyLimit int
	maxArgLen    int
}

// Option customizes a Runner.
type Option func(*Runner)

// WithHistoryLimit sets how many past messages are loaded per turn.
func WithHistoryLimit(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.historyLimit = n
		}
	}
}

// WithMaxArgLength sets the tool_start argument cap.
func WithMaxArgLength(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxArgLen = n
		}
	}
}

// NewRunner creates a Runner. recorder may be nil, in which case history is
// neither loaded nor saved.
func NewRunner(builder ManifestBuilder, agent Agent, recorder Recorder, opts ...Option) *Runner {
	r := &Runner{
		builder:      builder,
		agent:        agent,
		recorder:     recorder,
		historyLimit: DefaultHistoryLimit,
		maxArgLen:    events.DefaultMaxArgLength,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stream runs one turn and returns its event stream. Manifest, instruction
// and history problems degrade the turn instead of failing it; a failure to
// start the agent is reported as an error event.
func (r *Runner) Stream(ctx context.Context, sessionID, query string) <-chan api.Event {
	turnID := uuid.NewString()

	manifest := r.builder.BuildManifest(ctx)
	instructions, err := aggregator.RenderInstructions(manifest)
	if err != nil {
		logging.Warn("Turn", "Turn %s: using plain capability summary: %v", turnID, err)
		instructions = manifest.Summary()
	}

	messages := r.history(ctx, turnID, sessionID)
	messages = append(messages, Message{Role: RoleUser, Content: query})

	logging.Debug("Turn", "Turn %s (session %s): %d capabilities, %d messages",
		turnID, sessionID, len(manifest.Capabilities), len(messages))

	trace, err := r.agent.Stream(ctx, Request{
		TurnID:       turnID,
		SessionID:    sessionID,
		Instructions: instructions,
		Manifest:     manifest,
		Messages:     messages,
	})
	if err != nil {
		logging.Error("Turn", err, "Turn %s: agent failed to start", turnID)
		failed := make(chan events.TraceEvent, 1)
		failed <- events.StreamError{Message: err.Error()}
		close(failed)
		trace = failed
	}

	opts := []events.Option{events.WithMaxArgLength(r.maxArgLen)}
	if r.recorder != nil {
		opts = append(opts, events.WithPersister(func(ctx context.Context, answer string) error {
			return r.recorder.SaveInteraction(ctx, sessionID, query, answer)
		}))
	}
	return events.NewTranslator(opts...).Run(ctx, trace)
}

func (r *Runner) history(ctx context.Context, turnID, sessionID string) []Message {
	if r.recorder == nil {
		return nil
	}
	msgs, err := r.recorder.LoadMessages(ctx, sessionID, r.historyLimit)
	if err != nil {
		logging.Warn("Turn", "Turn %s: continuing without history: %v", turnID, err)
		return nil
	}
	return msgs
}
