package connector

import (
	"testing"

	"toolhub/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterpreter = "/opt/toolhub/bin/python3"

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		req      api.InstallRequest
		wantName string
		wantKind api.TransportKind
		check    func(t *testing.T, cfg api.ConnectorConfig)
	}{
		{
			name: "flat sse",
			req: api.InstallRequest{
				Name: "maps", Type: "sse",
				Config: map[string]any{"url": "https://x/mcp"},
			},
			wantName: "maps",
			wantKind: api.TransportSSE,
			check: func(t *testing.T, cfg api.ConnectorConfig) {
				assert.Equal(t, "https://x/mcp", cfg.Transport.Stream.URL)
			},
		},
		{
			name: "type is case and whitespace insensitive",
			req: api.InstallRequest{
				Name: "maps", Type: "  SSE ",
				Config: map[string]any{"url": "https://x/mcp"},
			},
			wantName: "maps",
			wantKind: api.TransportSSE,
		},
		{
			name: "sse drops command",
			req: api.InstallRequest{
				Name: "maps", Type: "sse",
				Config: map[string]any{"url": "https://x/mcp", "command": "node", "args": []any{"x"}},
			},
			wantName: "maps",
			wantKind: api.TransportSSE,
			check: func(t *testing.T, cfg api.ConnectorConfig) {
				assert.Nil(t, cfg.Transport.Pipe)
				assert.NotContains(t, payloadMap(cfg.Transport), "command")
				assert.NotContains(t, payloadMap(cfg.Transport), "args")
			},
		},
		{
			name: "stdio drops url and headers",
			req: api.InstallRequest{
				Name: "fs", Type: "stdio",
				Config: map[string]any{"command": "/usr/bin/node", "url": "https://x", "headers": map[string]any{"a": "b"}},
			},
			wantName: "fs",
			wantKind: api.TransportStdio,
			check: func(t *testing.T, cfg api.ConnectorConfig) {
				assert.Nil(t, cfg.Transport.Stream)
				assert.Equal(t, "/usr/bin/node", cfg.Transport.Pipe.Command)
				assert.NotContains(t, payloadMap(cfg.Transport), "url")
			},
		},
		{
			name: "nested envelope adopts inner type and name",
			req: api.InstallRequest{
				Name: "outer", Type: "sse",
				Config: map[string]any{
					"name": "inner",
					"type": "stdio",
					"config": map[string]any{
						"type": "stdio",
						"config": map[string]any{"command": "python", "args": []any{"-m", "srv"}},
					},
				},
			},
			wantName: "inner",
			wantKind: api.TransportStdio,
			check: func(t *testing.T, cfg api.ConnectorConfig) {
				assert.Equal(t, testInterpreter, cfg.Transport.Pipe.Command)
				assert.Equal(t, []string{"-m", "srv"}, cfg.Transport.Pipe.Args)
			},
		},
		{
			name: "nested description used only when outer is empty",
			req: api.InstallRequest{
				Name: "maps", Type: "sse",
				Config: map[string]any{
					"description": "from template",
					"config":      map[string]any{"url": "https://x/mcp"},
				},
			},
			wantName: "maps",
			wantKind: api.TransportSSE,
			check: func(t *testing.T, cfg api.ConnectorConfig) {
				assert.Equal(t, "from template", cfg.Description)
			},
		},
		{
			name: "env is kept for stdio",
			req: api.InstallRequest{
				Name: "gh", Type: "stdio",
				Config: map[string]any{"command": "npx", "args": []any{"-y", "gh"}, "env": map[string]any{"TOKEN": "t"}},
			},
			wantName: "gh",
			wantKind: api.TransportStdio,
			check: func(t *testing.T, cfg api.ConnectorConfig) {
				assert.Equal(t, "npx", cfg.Transport.Pipe.Command)
				assert.Equal(t, map[string]string{"TOKEN": "t"}, cfg.Transport.Pipe.Env)
			},
		},
	}

	n := NewNormalizer(testInterpreter)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := n.Normalize(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, cfg.Name)
			assert.Equal(t, tt.wantKind, cfg.Kind())
			assert.True(t, cfg.Active)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestNormalizer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     api.InstallRequest
		wantMsg string
	}{
		{
			name:    "missing name",
			req:     api.InstallRequest{Type: "sse", Config: map[string]any{"url": "https://x"}},
			wantMsg: "tool name is required",
		},
		{
			name:    "unknown transport",
			req:     api.InstallRequest{Name: "a", Type: "websocket", Config: map[string]any{"url": "wss://x"}},
			wantMsg: "unsupported transport type",
		},
		{
			name:    "sse without url",
			req:     api.InstallRequest{Name: "a", Type: "sse", Config: map[string]any{"command": "node"}},
			wantMsg: "missing the 'url' field",
		},
		{
			name:    "stdio without command",
			req:     api.InstallRequest{Name: "a", Type: "stdio", Config: map[string]any{"url": "https://x"}},
			wantMsg: "missing the 'command' field",
		},
		{
			name:    "args of wrong shape",
			req:     api.InstallRequest{Name: "a", Type: "stdio", Config: map[string]any{"command": "node", "args": "x"}},
			wantMsg: "invalid stdio config",
		},
	}

	n := NewNormalizer(testInterpreter)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.req)
			require.Error(t, err)
			assert.True(t, api.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNormalizer_InterpreterPinning(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []any
		want    string
	}{
		{name: "bare python", command: "python", want: testInterpreter},
		{name: "bare python3", command: "python3", args: []any{"server.py"}, want: testInterpreter},
		{name: "windows py", command: "py.exe", want: testInterpreter},
		{name: "mixed case", command: "Python", want: testInterpreter},
		{name: "module invocation with other command", command: "uv", args: []any{"run", "-m", "srv"}, want: testInterpreter},
		{name: "absolute python untouched", command: "/usr/bin/python", want: "/usr/bin/python"},
		{name: "node untouched", command: "node", args: []any{"index.js"}, want: "node"},
	}

	n := NewNormalizer(testInterpreter)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := n.Normalize(api.InstallRequest{
				Name: "x", Type: "stdio",
				Config: map[string]any{"command": tt.command, "args": tt.args},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Transport.Pipe.Command)
		})
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	inputs := []api.InstallRequest{
		{Name: "maps", Type: "sse", Config: map[string]any{"url": "https://x/mcp", "headers": map[string]any{"Authorization": "Bearer t"}, "command": "x"}},
		{Name: "py", Type: "stdio", Config: map[string]any{"type": "stdio", "config": map[string]any{"command": "python", "args": []any{"-m", "srv"}}}},
		{Name: "node", Type: "stdio", Config: map[string]any{"command": "node", "args": []any{"a.js"}, "env": map[string]any{"K": "V"}}},
	}

	n := NewNormalizer(testInterpreter)
	for _, in := range inputs {
		t.Run(in.Name, func(t *testing.T) {
			once, err := n.Normalize(in)
			require.NoError(t, err)
			twice, err := n.Normalize(RequestFor(once))
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

func TestNormalizer_Repin(t *testing.T) {
	n := NewNormalizer(testInterpreter)
	stored := api.ConnectorConfig{
		Name:      "py",
		Active:    true,
		Transport: api.PipeTransport(api.PipeParams{Command: "/home/author/.venv/bin/python", Args: []string{"-m", "srv"}}),
	}

	got := n.Repin(stored)
	assert.Equal(t, testInterpreter, got.Transport.Pipe.Command)
	assert.Equal(t, "/home/author/.venv/bin/python", stored.Transport.Pipe.Command, "original must not be mutated")

	sse := api.ConnectorConfig{Name: "s", Transport: api.StreamTransport(api.StreamParams{URL: "https://x"})}
	assert.Equal(t, sse, n.Repin(sse))
}
