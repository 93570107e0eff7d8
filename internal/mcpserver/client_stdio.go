package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"time"

	"toolhub/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultStopGrace is how long a subprocess may take to exit after its stdin
// is closed before it is killed.
const DefaultStopGrace = time.Second

// StdioClient implements the MCPClient interface using stdio transport.
// It manages a local subprocess that communicates via stdin/stdout.
type StdioClient struct {
	baseMCPClient
	command   string
	args      []string
	env       map[string]string
	stopGrace time.Duration

	// procCtx bounds the subprocess lifetime; cancelling it kills the process.
	procCtx    context.Context
	procCancel context.CancelFunc
}

// NewStdioClient creates a stdio-based MCP client. The process is spawned by
// Initialize and terminated by Close.
func NewStdioClient(command string, args []string, env map[string]string) *StdioClient {
	procCtx, procCancel := context.WithCancel(context.Background())
	return &StdioClient{
		command:    command,
		args:       args,
		env:        env,
		stopGrace:  DefaultStopGrace,
		procCtx:    procCtx,
		procCancel: procCancel,
	}
}

// commandFunc binds the subprocess to the client's lifetime instead of the
// background context mcp-go would use.
func (c *StdioClient) commandFunc(_ context.Context, command string, env []string, args []string) (*exec.Cmd, error) {
	cmd := exec.CommandContext(c.procCtx, command, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.WaitDelay = c.stopGrace
	return cmd, nil
}

// Initialize spawns the subprocess and performs the protocol handshake.
func (c *StdioClient) Initialize(ctx context.Context) error {
	if c.isConnected() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logging.Debug("StdioClient", "Starting %s %v", c.command, c.args)

	// Sorted so the child environment is deterministic.
	envStrings := make([]string, 0, len(c.env))
	for k, v := range c.env {
		envStrings = append(envStrings, fmt.Sprintf("%s=%s", k, v))
	}
	slices.Sort(envStrings)

	// The process starts immediately.
	mcpClient, err := client.NewStdioMCPClientWithOptions(c.command, envStrings, c.args,
		transport.WithCommandFunc(c.commandFunc))
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", c.command, err)
	}
	if !c.beginConnect(mcpClient) {
		c.procCancel()
		_ = mcpClient.Close()
		return errClientClosed
	}

	initResult, err := handshake(ctx, mcpClient)
	if err != nil {
		// A server that failed the handshake may never exit on its own.
		c.procCancel()
		c.abortConnect(mcpClient)
		return fmt.Errorf("failed to initialize MCP protocol: %w", err)
	}
	if err := c.finishConnect(mcpClient); err != nil {
		return err
	}

	logServerInfo("StdioClient", c.command, initResult)
	return nil
}

// Close closes the subprocess's stdin and kills it if it has not exited
// within the stop grace period. Close returns once the process is gone.
func (c *StdioClient) Close() error {
	timer := time.AfterFunc(c.stopGrace, c.procCancel)
	defer timer.Stop()

	err := c.closeClient()
	c.procCancel()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logging.Debug("StdioClient", "%s exited: %v", c.command, exitErr)
		return nil
	}
	return err
}

// ListTools returns all available tools from the server
func (c *StdioClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return c.listTools(ctx)
}

// CallTool executes a specific tool and returns the result
func (c *StdioClient) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return c.callTool(ctx, name, args)
}

func logServerInfo(subsystem, target string, result *mcp.InitializeResult) {
	if result == nil {
		return
	}
	logging.Debug(subsystem, "Connected to %s (server %s %s, tools=%t)",
		target, result.ServerInfo.Name, result.ServerInfo.Version, result.Capabilities.Tools != nil)
}
