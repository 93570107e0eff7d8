package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"toolhub/internal/api"
	"toolhub/internal/connector"
	"toolhub/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultSampleSize is how many tool names a successful test quotes.
const DefaultSampleSize = 3

// probeError keeps the underlying failure text while classifying it with a
// sentinel from the api package.
type probeError struct {
	kind error
	err  error
}

func (e *probeError) Error() string   { return e.err.Error() }
func (e *probeError) Unwrap() []error { return []error{e.kind, e.err} }

// Prober runs bounded-time trial connections against tool servers.
type Prober struct {
	newClient  ClientFactory
	normalizer *connector.Normalizer
	sampleSize int
}

// ProberOption customizes a Prober.
type ProberOption func(*Prober)

// WithClientFactory replaces the transport client factory.
func WithClientFactory(f ClientFactory) ProberOption {
	return func(p *Prober) { p.newClient = f }
}

// WithSampleSize sets how many tool names a successful test message quotes.
func WithSampleSize(n int) ProberOption {
	return func(p *Prober) {
		if n > 0 {
			p.sampleSize = n
		}
	}
}

// NewProber creates a prober that normalizes candidates with normalizer.
func NewProber(normalizer *connector.Normalizer, opts ...ProberOption) *Prober {
	if normalizer == nil {
		normalizer = connector.NewNormalizer("")
	}
	p := &Prober{
		newClient:  NewClient,
		normalizer: normalizer,
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Discover connects to cfg, lists its tools and disconnects. It returns no
// later than ctx's deadline even if the server never answers; the connection
// is then torn down in the background.
//
// Errors wrap api.ErrConnectorTimeout when the deadline fired and
// api.ErrConnectorUnreachable otherwise.
func (p *Prober) Discover(ctx context.Context, cfg api.ConnectorConfig) ([]mcp.Tool, error) {
	var tools []mcp.Tool
	err := p.withSession(ctx, cfg, func(c MCPClient) error {
		var err error
		tools, err = c.ListTools(ctx)
		return err
	})
	return tools, err
}

// Call opens a fresh session to cfg, invokes one tool and disconnects.
func (p *Prober) Call(ctx context.Context, cfg api.ConnectorConfig, tool string, args map[string]any) (*mcp.CallToolResult, error) {
	var result *mcp.CallToolResult
	err := p.withSession(ctx, cfg, func(c MCPClient) error {
		var err error
		result, err = c.CallTool(ctx, tool, args)
		return err
	})
	return result, err
}

func (p *Prober) withSession(ctx context.Context, cfg api.ConnectorConfig, fn func(MCPClient) error) error {
	c, err := p.newClient(cfg)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		if err := c.Initialize(ctx); err != nil {
			done <- err
			return
		}
		done <- fn(c)
	}()

	select {
	case err := <-done:
		closeClient(c, cfg.Name)
		if err != nil {
			return classify(ctx, err)
		}
		return nil
	case <-ctx.Done():
		// Close may wait for the subprocess to exit; do not hold the caller.
		go closeClient(c, cfg.Name)
		return classify(ctx, ctx.Err())
	}
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &probeError{kind: api.ErrConnectorTimeout, err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &probeError{kind: api.ErrConnectorUnreachable, err: err}
}

func closeClient(c MCPClient, name string) {
	if err := c.Close(); err != nil {
		logging.Debug("Prober", "Closing connection to %s: %v", name, err)
	}
}

// Test normalizes raw operator input and probes it under timeout. Every
// failure is reported in the result; Test never returns an error.
func (p *Prober) Test(ctx context.Context, req api.InstallRequest, timeout time.Duration) api.TestResult {
	cfg, err := p.normalizer.Normalize(req)
	if err != nil {
		return api.TestResult{Success: false, Message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logging.Debug("Prober", "Testing connection to %s with timeout %s", cfg, timeout)
	tools, err := p.Discover(ctx, cfg)
	if err != nil {
		if errors.Is(err, api.ErrConnectorTimeout) {
			return api.TestResult{
				Success: false,
				Message: fmt.Sprintf("connection timed out after %s, check the network or the endpoint", timeout),
			}
		}
		return api.TestResult{Success: false, Message: err.Error()}
	}

	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return api.TestResult{
		Success: true,
		Message: successMessage(names, p.sampleSize),
		Tools:   names,
	}
}

func successMessage(names []string, sample int) string {
	if len(names) == 0 {
		return "connected, found 0 tools"
	}
	shown := names
	suffix := ""
	if len(names) > sample {
		shown = names[:sample]
		suffix = ", ..."
	}
	noun := "tools"
	if len(names) == 1 {
		noun = "tool"
	}
	return fmt.Sprintf("connected, found %d %s: %s%s", len(names), noun, strings.Join(shown, ", "), suffix)
}
