package app

import (
	"fmt"
	"io"
	"os"

	"toolhub/internal/config"
	"toolhub/internal/turn"
	"toolhub/pkg/logging"
)

// Application bundles the loaded configuration and the wired services.
//
// Example usage:
//
//	app, err := app.NewApplication(app.NewConfig(false, false, ""))
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	tools, err := app.Services().Manager.ListInstalled(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication performs the bootstrap sequence:
//
//  1. Configures logging based on debug and silent settings
//  2. Loads config.yaml from cfg.ConfigPath (or ~/.config/toolhub)
//  3. Wires store, registry, prober, aggregator and management service
//
// Logs go to stderr so command output on stdout stays machine readable.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelWarn
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	var logOutput io.Writer = os.Stderr
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(appLogLevel, logOutput)

	if cfg.ToolhubConfig == nil {
		configPath := cfg.ConfigPath
		if configPath == "" {
			var err error
			configPath, err = config.GetDefaultConfigPath()
			if err != nil {
				return nil, fmt.Errorf("failed to resolve configuration directory: %w", err)
			}
		}

		toolhubCfg, err := config.LoadConfig(configPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load toolhub configuration from path: %s", configPath)
			return nil, fmt.Errorf("failed to load toolhub configuration from path %s: %w", configPath, err)
		}
		logging.Debug("Bootstrap", "Loaded configuration from %s", configPath)
		cfg.ToolhubConfig = &toolhubCfg
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Config returns the effective configuration.
func (a *Application) Config() *Config {
	return a.config
}

// Services returns the wired components.
func (a *Application) Services() *Services {
	return a.services
}

// NewRunner wires a turn runner around agent, using the application's
// aggregator, history recorder and event limits.
func (a *Application) NewRunner(agent turn.Agent) *turn.Runner {
	cfg := a.config.ToolhubConfig
	return turn.NewRunner(a.services.Aggregator, agent, a.services.Recorder,
		turn.WithHistoryLimit(cfg.History.Limit),
		turn.WithMaxArgLength(cfg.Events.MaxArgLength),
	)
}
