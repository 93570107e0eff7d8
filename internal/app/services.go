package app

import (
	"fmt"
	"os"

	"toolhub/internal/aggregator"
	"toolhub/internal/config"
	"toolhub/internal/connector"
	"toolhub/internal/manager"
	"toolhub/internal/mcpserver"
	"toolhub/internal/turn"
	"toolhub/pkg/logging"
)

// Services holds the wired components of one toolhub process. Every field
// is safe for concurrent use.
type Services struct {
	// Store persists installed connectors.
	Store *connector.Store

	// Registry is the read-only connector catalog.
	Registry *connector.Registry

	// Prober tests candidate connectors and talks to installed ones.
	Prober *mcpserver.Prober

	// Aggregator builds the per-turn capability manifest.
	Aggregator *aggregator.Aggregator

	// Manager exposes the management operations.
	Manager *manager.Service

	// Recorder keeps conversation history for turns.
	Recorder turn.Recorder
}

// InitializeServices wires all components from cfg.ToolhubConfig. Nothing
// is started; every component works per request.
func InitializeServices(cfg *Config) (*Services, error) {
	if cfg.ToolhubConfig == nil {
		return nil, fmt.Errorf("toolhub configuration is not loaded")
	}
	thc := cfg.ToolhubConfig

	normalizer := connector.NewNormalizer(thc.Interpreter)
	store := connector.NewStore(thc.ToolsFile, normalizer)
	registry := connector.LoadRegistry(thc.RegistryFile)

	prober := mcpserver.NewProber(normalizer, mcpserver.WithSampleSize(thc.Probe.SampleSize))

	agg := aggregator.New(
		aggregator.Builtins(BuiltinOptions(thc.Builtins)),
		store,
		prober,
		aggregator.WithTimeout(thc.Probe.RuntimeTimeout),
		aggregator.WithRepinner(normalizer),
	)

	// No recommender: it is model-backed and only embedders can supply one.
	mgr := manager.NewService(store, registry, prober,
		manager.WithTestTimeout(thc.Probe.InstallTimeout),
	)

	logging.Debug("Services", "Tools file %s, registry %s (%d entries)", thc.ToolsFile, thc.RegistryFile, registry.Len())

	return &Services{
		Store:      store,
		Registry:   registry,
		Prober:     prober,
		Aggregator: agg,
		Manager:    mgr,
		Recorder:   turn.NewMemoryRecorder(),
	}, nil
}

// BuiltinOptions resolves built-in settings, reading API keys from the
// environment variables the configuration names.
func BuiltinOptions(b config.BuiltinsConfig) aggregator.BuiltinOptions {
	return aggregator.BuiltinOptions{
		Weather: aggregator.WeatherOptions{
			Enabled:   b.Weather.IsEnabled(),
			BaseURL:   b.Weather.BaseURL,
			APIKey:    os.Getenv(b.Weather.APIKeyEnv),
			APIKeyEnv: b.Weather.APIKeyEnv,
		},
		Search: aggregator.SearchOptions{
			Enabled:   b.Search.IsEnabled(),
			BaseURL:   b.Search.BaseURL,
			APIKey:    os.Getenv(b.Search.APIKeyEnv),
			APIKeyEnv: b.Search.APIKeyEnv,
		},
	}
}
