// Package api holds the types shared by every toolhub component.
//
// It has no dependencies on other internal packages, so the store, the probe,
// the aggregator, the event translator and the management service can all
// exchange values through it without import cycles.
//
// # Connector model
//
// A ConnectorConfig names one installed tool server. Its Transport is a tagged
// variant: a stdio connector carries PipeParams (command, args, env), an SSE
// connector carries StreamParams (url, headers). Fields of the other variant
// cannot be represented, so a normalized connector never mixes them.
//
// # Error taxonomy
//
// Callers distinguish three outcomes:
//   - success
//   - *ValidationError: input the operator can fix (missing url, unknown type)
//   - *InfrastructureError: the environment failed (disk, network); retry later
//
// *NotFoundError covers lookups of unknown tools or registry entries. Use the
// IsValidation, IsInfrastructure and IsNotFound helpers, which unwrap.
//
// # Turn events
//
// Event is the {type, data} pair streamed to the caller for one conversational
// turn. The stream ends with exactly one terminal event (finish or error).
package api
