// Package connector owns the persisted set of installed tool servers.
//
// The Store keeps one JSON document of the form
//
//	{"tools": {"<name>": {"type": "stdio|sse", "description": "...", "active": true, "config": {...}}}}
//
// and serializes every read-modify-write cycle behind a mutex. The file is
// re-read on each operation, so edits made by another process between calls
// are picked up. A missing or corrupt file reads as an empty set.
//
// Operator input passes through the Normalizer before it is stored. The
// Normalizer unwraps pasted {type, config} envelopes, keeps only the fields
// valid for the declared transport and pins bare interpreter invocations to
// an absolute interpreter path on this host.
//
// The Registry is the read-only catalog of known connector templates used by
// guided installation.
package connector
