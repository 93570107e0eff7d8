package aggregator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"toolhub/internal/api"
	"toolhub/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"
)

// DefaultDiscoveryTimeout bounds connector discovery for one turn.
const DefaultDiscoveryTimeout = 3 * time.Second

// ConnectorSource lists the connectors that take part in aggregation.
type ConnectorSource interface {
	Active(ctx context.Context) ([]api.ConnectorConfig, error)
}

// Discoverer connects to connectors. *mcpserver.Prober implements it.
type Discoverer interface {
	Discover(ctx context.Context, cfg api.ConnectorConfig) ([]mcp.Tool, error)
	Call(ctx context.Context, cfg api.ConnectorConfig, tool string, args map[string]any) (*mcp.CallToolResult, error)
}

// Repinner rewrites stored connectors for this host before use.
type Repinner interface {
	Repin(cfg api.ConnectorConfig) api.ConnectorConfig
}

// Aggregator builds the per-turn capability manifest. It holds no state
// between turns; every BuildManifest call reads the store afresh.
type Aggregator struct {
	builtins   []Capability
	source     ConnectorSource
	discoverer Discoverer
	repinner   Repinner
	timeout    time.Duration
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithTimeout sets the shared discovery deadline.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithRepinner re-applies interpreter pinning to stored connectors.
func WithRepinner(r Repinner) Option {
	return func(a *Aggregator) { a.repinner = r }
}

// New creates an aggregator over builtins and the connectors of source.
func New(builtins []Capability, source ConnectorSource, discoverer Discoverer, opts ...Option) *Aggregator {
	a := &Aggregator{
		builtins:   slices.Clone(builtins),
		source:     source,
		discoverer: discoverer,
		timeout:    DefaultDiscoveryTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Builtins returns the manifest used when no connector tools are available.
func (a *Aggregator) Builtins() Manifest {
	return Manifest{Capabilities: slices.Clone(a.builtins)}
}

// BuildManifest merges the built-ins with the tools of every active
// connector. All connectors are discovered concurrently under one shared
// deadline. If any of them fails or the deadline fires, the manifest falls
// back to the built-ins alone; BuildManifest itself never fails.
func (a *Aggregator) BuildManifest(ctx context.Context) Manifest {
	manifest := a.Builtins()

	if a.source == nil || a.discoverer == nil {
		return manifest
	}

	active, err := a.source.Active(ctx)
	if err != nil {
		logging.Warn("Aggregator", "Cannot load active connectors, using built-ins only: %v", err)
		manifest.Degraded = true
		return manifest
	}
	if len(active) == 0 {
		return manifest
	}

	discoverCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results := make([][]Capability, len(active))
	g, gctx := errgroup.WithContext(discoverCtx)
	for i, cfg := range active {
		if a.repinner != nil {
			cfg = a.repinner.Repin(cfg)
		}
		g.Go(func() error {
			tools, err := a.discoverer.Discover(gctx, cfg)
			if err != nil {
				return fmt.Errorf("connector %s: %w", cfg.Name, err)
			}
			results[i] = a.connectorCapabilities(cfg, tools)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logging.Warn("Aggregator", "Connector discovery failed, using built-ins only: %v", err)
		manifest.Degraded = true
		return manifest
	}

	for _, caps := range results {
		manifest.Capabilities = append(manifest.Capabilities, caps...)
	}
	if dups := manifest.duplicateNames(); len(dups) > 0 {
		logging.Warn("Aggregator", "Duplicate capability names %v, the last listed one is used", dups)
	}

	logging.Debug("Aggregator", "Manifest has %d capabilities from %d connectors", len(manifest.Capabilities), len(active))
	return manifest
}

func (a *Aggregator) connectorCapabilities(cfg api.ConnectorConfig, tools []mcp.Tool) []Capability {
	caps := make([]Capability, 0, len(tools))
	for _, tool := range tools {
		caps = append(caps, Capability{
			Name:        tool.Name,
			Description: tool.Description,
			Source:      cfg.Name,
			Parameters:  schemaMap(tool.InputSchema),
			Invoke:      a.connectorInvoker(cfg, tool.Name),
		})
	}
	return caps
}

// connectorInvoker opens a fresh session per call so no connection outlives
// the discovery deadline.
func (a *Aggregator) connectorInvoker(cfg api.ConnectorConfig, tool string) InvokeFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		return a.discoverer.Call(ctx, cfg, tool, args)
	}
}
