package events

// TraceEvent is one signal from the agent execution loop. The set of
// implementations is closed: TextFragment, CapabilityStart, CapabilityEnd,
// StreamError and StreamFinish.
type TraceEvent interface {
	isTraceEvent()
}

// TextFragment is a delta of model output text.
type TextFragment struct {
	Text string
}

// CapabilityStart marks the start of a tool invocation. Args may carry
// execution-layer fields that must not reach the caller.
type CapabilityStart struct {
	Name string
	Args map[string]any
}

// CapabilityEnd carries the raw result of a tool invocation.
type CapabilityEnd struct {
	Name   string
	Result any
}

// StreamError aborts the turn.
type StreamError struct {
	Message string
}

// StreamFinish ends the turn normally.
type StreamFinish struct{}

func (TextFragment) isTraceEvent()    {}
func (CapabilityStart) isTraceEvent() {}
func (CapabilityEnd) isTraceEvent()   {}
func (StreamError) isTraceEvent()     {}
func (StreamFinish) isTraceEvent()    {}
