package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransportKind(t *testing.T) {
	tests := []struct {
		input   string
		want    TransportKind
		wantErr bool
	}{
		{"stdio", TransportStdio, false},
		{"  SSE ", TransportSSE, false},
		{"Stdio\n", TransportStdio, false},
		{"", "", true},
		{"websocket", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransportKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransport_KindAndValidate(t *testing.T) {
	pipe := PipeTransport(PipeParams{Command: "/usr/bin/python3", Args: []string{"-m", "srv"}})
	assert.Equal(t, TransportStdio, pipe.Kind())
	assert.NoError(t, pipe.Validate())

	stream := StreamTransport(StreamParams{URL: "https://x/mcp"})
	assert.Equal(t, TransportSSE, stream.Kind())
	assert.NoError(t, stream.Validate())

	assert.Equal(t, TransportKind(""), Transport{}.Kind())
	assert.Error(t, Transport{}.Validate())
	assert.Error(t, PipeTransport(PipeParams{}).Validate())
	assert.Error(t, StreamTransport(StreamParams{URL: "  "}).Validate())
}

func TestTransport_CloneIsDeep(t *testing.T) {
	orig := ConnectorConfig{
		Name:      "fs",
		Active:    true,
		Transport: PipeTransport(PipeParams{Command: "node", Args: []string{"a"}, Env: map[string]string{"K": "V"}}),
	}
	cp := orig.Clone()
	cp.Transport.Pipe.Args[0] = "b"
	cp.Transport.Pipe.Env["K"] = "changed"

	assert.Equal(t, "a", orig.Transport.Pipe.Args[0])
	assert.Equal(t, "V", orig.Transport.Pipe.Env["K"])
}

func TestEventType_Terminal(t *testing.T) {
	assert.True(t, EventFinish.Terminal())
	assert.True(t, EventError.Terminal())
	assert.False(t, EventToken.Terminal())
	assert.False(t, EventToolStart.Terminal())
	assert.False(t, EventToolEnd.Terminal())
}
