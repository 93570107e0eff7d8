package mcpserver

import (
	"context"
	"fmt"

	"toolhub/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// SSEClient implements the MCPClient interface using SSE transport.
// It connects to remote MCP servers using Server-Sent Events for communication.
type SSEClient struct {
	baseMCPClient
	url     string
	headers map[string]string
}

// NewSSEClient creates an SSE-based MCP client. headers may be nil.
func NewSSEClient(url string, headers map[string]string) *SSEClient {
	if headers == nil {
		headers = make(map[string]string)
	}
	return &SSEClient{
		url:     url,
		headers: headers,
	}
}

// Initialize opens the event stream and performs the protocol handshake.
// The stream stays bound to ctx, so ctx must outlive every later call.
func (c *SSEClient) Initialize(ctx context.Context) error {
	if c.isConnected() {
		return nil
	}

	logging.Debug("SSEClient", "Creating SSE client for URL: %s", c.url)

	var opts []transport.ClientOption
	if len(c.headers) > 0 {
		opts = append(opts, transport.WithHeaders(c.headers))
		logging.Debug("SSEClient", "Configured %d custom headers", len(c.headers))
	}

	mcpClient, err := client.NewSSEMCPClient(c.url, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SSE client: %w", err)
	}
	if !c.beginConnect(mcpClient) {
		_ = mcpClient.Close()
		return errClientClosed
	}

	if err := mcpClient.Start(ctx); err != nil {
		c.abortConnect(mcpClient)
		return fmt.Errorf("failed to start SSE transport: %w", err)
	}

	initResult, err := handshake(ctx, mcpClient)
	if err != nil {
		c.abortConnect(mcpClient)
		return fmt.Errorf("failed to initialize MCP protocol: %w", err)
	}
	if err := c.finishConnect(mcpClient); err != nil {
		return err
	}

	logServerInfo("SSEClient", c.url, initResult)
	return nil
}

// Close cleanly shuts down the client connection
func (c *SSEClient) Close() error {
	return c.closeClient()
}

// ListTools returns all available tools from the server
func (c *SSEClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return c.listTools(ctx)
}

// CallTool executes a specific tool and returns the result
func (c *SSEClient) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return c.callTool(ctx, name, args)
}
