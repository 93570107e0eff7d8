// Package turn runs one conversational turn end to end: it builds the
// capability manifest, renders the instructions, loads recent history, hands
// everything to the model-driven Agent and streams the Agent's trace back to
// the caller through an events.Translator. The finished answer is saved via
// the Recorder before the finish event is sent.
//
// The Agent and the Recorder are boundaries. A MemoryRecorder is provided for
// tests and single-process use.
package turn
