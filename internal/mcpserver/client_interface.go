package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"toolhub/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// protocolVersion is the MCP revision announced during the handshake.
const protocolVersion = "2024-11-05"

// clientName identifies toolhub to connected tool servers.
const clientName = "toolhub"

// errClientClosed is returned when Close won the race against Initialize.
var errClientClosed = errors.New("client closed")

// MCPClient is one connection to a tool server. Both transports implement it.
type MCPClient interface {
	// Initialize establishes the connection and performs protocol handshake
	Initialize(ctx context.Context) error
	// Close tears the connection down. It is safe to call at any time, also
	// while Initialize is still running, and more than once.
	Close() error
	// ListTools returns all available tools from the server
	ListTools(ctx context.Context) ([]mcp.Tool, error)
	// CallTool executes a specific tool and returns the result
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
}

var (
	_ MCPClient = (*StdioClient)(nil)
	_ MCPClient = (*SSEClient)(nil)
)

// baseMCPClient holds the connection state shared by both transports.
//
// The lock is never held across network or process I/O so that Close can
// interrupt a handshake that is stuck: Close tears down the pending client,
// and an Initialize that completes after Close discards its result.
type baseMCPClient struct {
	mu        sync.RWMutex
	client    client.MCPClient
	pending   client.MCPClient
	connected bool
	closed    bool
}

// beginConnect records a client whose handshake is about to start. It reports
// false if Close already ran, in which case the caller must close mcpClient.
func (b *baseMCPClient) beginConnect(mcpClient client.MCPClient) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.pending = mcpClient
	return true
}

// finishConnect promotes the pending client after a successful handshake.
func (b *baseMCPClient) finishConnect(mcpClient client.MCPClient) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = nil
	if b.closed {
		_ = mcpClient.Close()
		return errClientClosed
	}
	b.client = mcpClient
	b.connected = true
	return nil
}

// abortConnect drops a pending client after a failed handshake.
func (b *baseMCPClient) abortConnect(mcpClient client.MCPClient) {
	b.mu.Lock()
	if b.pending == mcpClient {
		b.pending = nil
	}
	b.mu.Unlock()
	if err := mcpClient.Close(); err != nil {
		logging.Debug("MCPClient", "Closing failed connection: %v", err)
	}
}

func (b *baseMCPClient) isConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}

// active returns the connected client, or an error when not connected.
func (b *baseMCPClient) active() (client.MCPClient, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.connected || b.client == nil {
		return nil, fmt.Errorf("client not connected")
	}
	return b.client, nil
}

// closeClient performs the common close logic
func (b *baseMCPClient) closeClient() error {
	b.mu.Lock()
	b.closed = true
	connected, pending := b.client, b.pending
	b.client, b.pending = nil, nil
	b.connected = false
	b.mu.Unlock()

	var errs []error
	if pending != nil {
		errs = append(errs, pending.Close())
	}
	if connected != nil {
		errs = append(errs, connected.Close())
	}
	return errors.Join(errs...)
}

// handshake runs the MCP initialize exchange on a started client.
func handshake(ctx context.Context, mcpClient client.MCPClient) (*mcp.InitializeResult, error) {
	return mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: protocolVersion,
			ClientInfo: mcp.Implementation{
				Name:    clientName,
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	})
}

// listTools returns all available tools from the server
func (b *baseMCPClient) listTools(ctx context.Context) ([]mcp.Tool, error) {
	c, err := b.active()
	if err != nil {
		return nil, err
	}

	result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	return result.Tools, nil
}

// callTool executes a specific tool and returns the result
func (b *baseMCPClient) callTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	c, err := b.active()
	if err != nil {
		return nil, err
	}

	result, err := c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call tool: %w", err)
	}

	return result, nil
}
