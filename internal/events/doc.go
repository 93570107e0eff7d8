// Package events translates an agent's execution trace into the event stream
// sent to the caller of a turn.
//
// The trace is a closed set of TraceEvent values. The output is a sequence of
// api.Event values of type token, tool_start, tool_end, finish and error:
//
//	TextFragment     -> token {content}          (empty text is dropped)
//	CapabilityStart  -> tool_start {tool_name, input}
//	CapabilityEnd    -> tool_end {tool_name, output}
//	StreamError      -> error {message}          (terminal)
//	StreamFinish     -> finish {status}          (terminal)
//
// tool_start input is sanitized: execution-layer keys (runtime, callbacks,
// run_manager and anything starting with "__") are removed, unserializable
// values are dropped and each value is capped at 200 characters plus "...".
//
// On StreamFinish the accumulated answer is handed to the persister before
// finish is emitted. A persistence failure is logged and finish is still sent.
//
// FormatSSE renders events as "data: {json}\n\n" frames.
package events
