package api

import (
	"fmt"
	"strings"
)

// TransportKind identifies how a tool server is reached.
type TransportKind string

const (
	// TransportStdio spawns a local subprocess and speaks MCP over its stdin/stdout.
	TransportStdio TransportKind = "stdio"
	// TransportSSE connects to a remote MCP server over a Server-Sent Events stream.
	TransportSSE TransportKind = "sse"
)

// ParseTransportKind normalizes an operator-supplied transport name.
// Surrounding whitespace and letter case are ignored.
func ParseTransportKind(s string) (TransportKind, error) {
	switch kind := TransportKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case TransportStdio, TransportSSE:
		return kind, nil
	case "":
		return "", NewValidationError("type", "transport type is required (supported: %s, %s)", TransportStdio, TransportSSE)
	default:
		return "", NewValidationError("type", "unsupported transport type %q (supported: %s, %s)", s, TransportStdio, TransportSSE)
	}
}

// PipeParams is the payload of a stdio connector.
type PipeParams struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// StreamParams is the payload of an SSE connector.
type StreamParams struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Transport is a tagged variant: exactly one of Pipe or Stream is set.
// Construct it with PipeTransport or StreamTransport.
type Transport struct {
	Pipe   *PipeParams
	Stream *StreamParams
}

// PipeTransport wraps stdio parameters into a Transport.
func PipeTransport(p PipeParams) Transport {
	return Transport{Pipe: &p}
}

// StreamTransport wraps SSE parameters into a Transport.
func StreamTransport(p StreamParams) Transport {
	return Transport{Stream: &p}
}

// Kind reports which variant is populated. An empty Transport has no kind.
func (t Transport) Kind() TransportKind {
	switch {
	case t.Pipe != nil:
		return TransportStdio
	case t.Stream != nil:
		return TransportSSE
	default:
		return ""
	}
}

// Payload returns the populated variant as a value suitable for JSON encoding.
func (t Transport) Payload() any {
	switch {
	case t.Pipe != nil:
		return t.Pipe
	case t.Stream != nil:
		return t.Stream
	default:
		return struct{}{}
	}
}

// Clone returns a deep copy so callers can mutate it without touching shared state.
func (t Transport) Clone() Transport {
	switch {
	case t.Pipe != nil:
		p := *t.Pipe
		p.Args = append([]string(nil), t.Pipe.Args...)
		p.Env = cloneStringMap(t.Pipe.Env)
		return Transport{Pipe: &p}
	case t.Stream != nil:
		s := *t.Stream
		s.Headers = cloneStringMap(t.Stream.Headers)
		return Transport{Stream: &s}
	default:
		return Transport{}
	}
}

// Validate checks that the populated variant carries its mandatory field.
func (t Transport) Validate() error {
	switch {
	case t.Pipe != nil && t.Stream != nil:
		return NewValidationError("config", "connector cannot be both %s and %s", TransportStdio, TransportSSE)
	case t.Pipe != nil:
		if strings.TrimSpace(t.Pipe.Command) == "" {
			return NewValidationError("config.command", "%s config is missing the 'command' field", TransportStdio)
		}
	case t.Stream != nil:
		if strings.TrimSpace(t.Stream.URL) == "" {
			return NewValidationError("config.url", "%s config is missing the 'url' field", TransportSSE)
		}
	default:
		return NewValidationError("config", "connector has no transport payload")
	}
	return nil
}

// ConnectorConfig is one installed tool server.
type ConnectorConfig struct {
	Name        string
	Description string
	Active      bool
	Transport   Transport
}

// Kind is shorthand for c.Transport.Kind().
func (c ConnectorConfig) Kind() TransportKind {
	return c.Transport.Kind()
}

// Clone returns a deep copy of the connector.
func (c ConnectorConfig) Clone() ConnectorConfig {
	out := c
	out.Transport = c.Transport.Clone()
	return out
}

// String renders a short, log-friendly form.
func (c ConnectorConfig) String() string {
	switch {
	case c.Transport.Pipe != nil:
		return fmt.Sprintf("%s (stdio: %s %s)", c.Name, c.Transport.Pipe.Command, strings.Join(c.Transport.Pipe.Args, " "))
	case c.Transport.Stream != nil:
		return fmt.Sprintf("%s (sse: %s)", c.Name, c.Transport.Stream.URL)
	default:
		return c.Name
	}
}

// RegistryEntry is a read-only catalog template for a known tool server.
type RegistryEntry struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Type          string         `json:"type"`
	DefaultConfig map[string]any `json:"default_config"`
}

// InstalledTool is the operator-facing view of one stored connector.
type InstalledTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Active      bool           `json:"active"`
	Type        TransportKind  `json:"type"`
	Config      map[string]any `json:"config"`
	ConfigJSON  string         `json:"config_json"`
}

// InstallRequest carries raw operator input for install-or-update and test-connection.
// Config may be flat, nested inside another {type, config} envelope, or carry
// fields of the wrong transport; normalization sorts that out.
type InstallRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Type        string         `json:"type"`
	Config      map[string]any `json:"config"`
}

// TestResult is the outcome of a connection probe.
type TestResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Tools   []string `json:"tools,omitempty"`
}

// Recommendation is a registry entry suggested for a natural-language need.
type Recommendation struct {
	RegistryEntry
	Reason    string `json:"recommend_reason"`
	Installed bool   `json:"installed"`
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
