// Package aggregator assembles the capability manifest for one conversational
// turn.
//
// A manifest starts with the built-in capabilities (web search and current
// weather), which need no connector and are always present unless disabled
// in config.yaml. The tools of every active connector are appended after
// them, in connector name order.
//
// Connector discovery runs concurrently for all active connectors and shares
// a single deadline (3s by default). A connector that is slow, unreachable or
// broken must not stall the turn, so any failure degrades the manifest to
// the built-ins alone and marks it Degraded. The turn still goes ahead.
//
// Names are not deduplicated. When a connector tool shares a name with a
// built-in or another connector tool, Manifest.Lookup resolves to the later
// entry and a warning is logged.
//
// RenderInstructions turns a manifest into the system prompt handed to the
// model.
package aggregator
