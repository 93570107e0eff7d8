package mcpserver

import (
	"toolhub/internal/api"
)

// NewClient creates the client matching the connector's transport variant.
func NewClient(cfg api.ConnectorConfig) (MCPClient, error) {
	if err := cfg.Transport.Validate(); err != nil {
		return nil, err
	}

	switch t := cfg.Transport; {
	case t.Pipe != nil:
		return NewStdioClient(t.Pipe.Command, t.Pipe.Args, t.Pipe.Env), nil
	case t.Stream != nil:
		return NewSSEClient(t.Stream.URL, t.Stream.Headers), nil
	default:
		return nil, api.NewValidationError("config", "connector %s has no transport payload", cfg.Name)
	}
}

// ClientFactory builds a client for one connector. Tests substitute their own.
type ClientFactory func(cfg api.ConnectorConfig) (MCPClient, error)
