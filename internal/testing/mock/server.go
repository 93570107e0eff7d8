package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

// Server is an in-process MCP tool server with canned responses.
type Server struct {
	name      string
	tools     []ToolConfig
	mcpServer *server.MCPServer
}

// NewServer creates a mock MCP server exposing tools.
func NewServer(name string, tools ...ToolConfig) *Server {
	mcpServer := server.NewMCPServer(
		fmt.Sprintf("mock-%s", name),
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{name: name, tools: tools, mcpServer: mcpServer}
	for _, tc := range tools {
		tool := mcp.NewTool(tc.Name, mcp.WithDescription(tc.Description))
		mcpServer.AddTool(tool, s.createToolHandler(tc))
	}
	return s
}

// NewServerFromFile creates a mock MCP server from a YAML file with a
// top-level "tools" list.
func NewServerFromFile(configPath string) (*Server, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock config file %s: %w", configPath, err)
	}

	var configData struct {
		Tools []ToolConfig `yaml:"tools"`
	}
	if err := yaml.Unmarshal(content, &configData); err != nil {
		return nil, fmt.Errorf("failed to parse mock config file %s: %w", configPath, err)
	}

	name := strings.TrimSuffix(filepath.Base(configPath), filepath.Ext(configPath))
	return NewServer(name, configData.Tools...), nil
}

// Tools returns the configured tools.
func (s *Server) Tools() []ToolConfig {
	return s.tools
}

func (s *Server) createToolHandler(tc ToolConfig) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if tc.Delay != "" {
			if d, err := time.ParseDuration(tc.Delay); err == nil {
				select {
				case <-time.After(d):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}
		if tc.Error != "" {
			return mcp.NewToolResultError(tc.Error), nil
		}

		switch resp := tc.Response.(type) {
		case nil:
			// Echo arguments so callers can check what reached the server.
			data, _ := json.Marshal(request.GetArguments())
			return mcp.NewToolResultText(string(data)), nil
		case map[string]any, []any:
			if data, err := json.Marshal(resp); err == nil {
				return mcp.NewToolResultText(string(data)), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("%v", resp)), nil
		default:
			return mcp.NewToolResultText(fmt.Sprintf("%v", resp)), nil
		}
	}
}

// ServeStdio serves the mock over stdin/stdout until the peer disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// StartSSE serves the mock over SSE on a local test listener. The endpoint
// to connect to is SSEURL(ts).
func (s *Server) StartSSE() *httptest.Server {
	return server.NewTestServer(s.mcpServer)
}

// SSEURL returns the event-stream endpoint of a server started with StartSSE.
func SSEURL(ts *httptest.Server) string {
	return ts.URL + "/sse"
}

// HangingServer accepts connections and never answers them.
type HangingServer struct {
	*httptest.Server
	release chan struct{}
	once    sync.Once
}

// NewHangingServer starts a server whose requests block until the client
// goes away or the server is closed.
func NewHangingServer() *HangingServer {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	return &HangingServer{Server: ts, release: release}
}

// Close releases blocked requests and shuts the server down.
func (h *HangingServer) Close() {
	h.once.Do(func() { close(h.release) })
	h.Server.Close()
}
