package api

// EventType tags one event of the turn stream sent to the caller.
type EventType string

const (
	EventToken     EventType = "token"
	EventToolStart EventType = "tool_start"
	EventToolEnd   EventType = "tool_end"
	EventFinish    EventType = "finish"
	EventError     EventType = "error"
)

// Terminal reports whether the event ends a stream.
func (t EventType) Terminal() bool {
	return t == EventFinish || t == EventError
}

// Event is one {type, data} pair of the turn stream.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// TokenData carries a text delta.
type TokenData struct {
	Content string `json:"content"`
}

// ToolStartData announces a capability invocation with sanitized input.
type ToolStartData struct {
	ToolName string         `json:"tool_name"`
	Input    map[string]any `json:"input"`
}

// ToolEndData carries a capability's output rendered as text.
type ToolEndData struct {
	ToolName string `json:"tool_name"`
	Output   string `json:"output"`
}

// FinishData closes a successful stream.
type FinishData struct {
	Status string `json:"status"`
}

// ErrorData closes a failed stream.
type ErrorData struct {
	Message string `json:"message"`
}

// FinishStatusSuccess is the status reported by a normal finish event.
const FinishStatusSuccess = "success"

// NewTokenEvent builds a token event.
func NewTokenEvent(content string) Event {
	return Event{Type: EventToken, Data: TokenData{Content: content}}
}

// NewToolStartEvent builds a tool_start event.
func NewToolStartEvent(name string, input map[string]any) Event {
	return Event{Type: EventToolStart, Data: ToolStartData{ToolName: name, Input: input}}
}

// NewToolEndEvent builds a tool_end event.
func NewToolEndEvent(name, output string) Event {
	return Event{Type: EventToolEnd, Data: ToolEndData{ToolName: name, Output: output}}
}

// NewFinishEvent builds a successful finish event.
func NewFinishEvent() Event {
	return Event{Type: EventFinish, Data: FinishData{Status: FinishStatusSuccess}}
}

// NewErrorEvent builds an error event.
func NewErrorEvent(message string) Event {
	return Event{Type: EventError, Data: ErrorData{Message: message}}
}
