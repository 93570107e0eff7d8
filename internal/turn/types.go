package turn

import (
	"context"

	"toolhub/internal/aggregator"
	"toolhub/internal/events"
)

// Role is the author of a history message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a session's conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is everything the model needs for one turn.
type Request struct {
	TurnID       string
	SessionID    string
	Instructions string
	Manifest     aggregator.Manifest
	// Messages is the recent history followed by the new user query.
	Messages []Message
}

// Agent is the model-driven execution loop. It calls capabilities through
// req.Manifest and reports progress as trace events. The returned channel
// must be closed when the turn is over.
type Agent interface {
	Stream(ctx context.Context, req Request) (<-chan events.TraceEvent, error)
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(ctx context.Context, req Request) (<-chan events.TraceEvent, error)

// Stream calls f.
func (f AgentFunc) Stream(ctx context.Context, req Request) (<-chan events.TraceEvent, error) {
	return f(ctx, req)
}

// Recorder loads and stores conversation history.
type Recorder interface {
	LoadMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)
	SaveInteraction(ctx context.Context, sessionID, query, answer string) error
}

// ManifestBuilder produces the capability manifest of a turn.
type ManifestBuilder interface {
	BuildManifest(ctx context.Context) aggregator.Manifest
}
