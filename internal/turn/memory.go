package turn

import (
	"context"
	"slices"
	"sync"
)

// MemoryRecorder keeps history in process memory, per session.
type MemoryRecorder struct {
	mu       sync.Mutex
	sessions map[string][]Message
}

// NewMemoryRecorder creates an empty recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{sessions: make(map[string][]Message)}
}

// LoadMessages returns up to limit of the most recent messages of a session.
// A non-positive limit returns the whole history.
func (m *MemoryRecorder) LoadMessages(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.sessions[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return slices.Clone(msgs), nil
}

// SaveInteraction appends a query/answer pair to a session.
func (m *MemoryRecorder) SaveInteraction(ctx context.Context, sessionID, query, answer string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sessionID] = append(m.sessions[sessionID],
		Message{Role: RoleUser, Content: query},
		Message{Role: RoleAssistant, Content: answer},
	)
	return nil
}
