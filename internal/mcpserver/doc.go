// Package mcpserver connects to tool servers over the Model Context Protocol.
//
// Two transports are supported, matching the connector variants in the api
// package:
//   - StdioClient spawns a local subprocess and speaks MCP over its stdin/stdout
//   - SSEClient connects to a remote server over Server-Sent Events
//
// NewClient picks the client for a connector. Clients are short-lived: the
// Prober opens one per operation (tool discovery, a connection test or a
// single tool call) and closes it afterwards, so no connection outlives the
// request that needed it.
//
// Every Prober operation is bounded by its context. When the deadline fires
// the call returns immediately with an error wrapping api.ErrConnectorTimeout
// and the half-open connection is torn down (process terminated, stream
// closed) without blocking the caller.
package mcpserver
