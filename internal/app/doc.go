// Package app provides application bootstrap for toolhub.
//
// Bootstrap runs in two steps. NewApplication configures logging and loads
// config.yaml, then InitializeServices wires the components:
//
//   - connector.Store over the tools file, with a shared Normalizer
//   - connector.Registry loaded once from the registry file
//   - mcpserver.Prober for connection tests and connector sessions
//   - aggregator.Aggregator with the built-ins and the runtime deadline
//   - manager.Service with the install-time deadline
//   - an in-memory turn.Recorder for conversation history
//
// No component starts goroutines at bootstrap. All work is request scoped.
//
// # Usage
//
//	cfg := app.NewConfig(debug, false, configPath)
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("bootstrap failed: %w", err)
//	}
//	result := application.Services().Manager.TestConnection(ctx, req)
//
// Tests can pre-populate Config.ToolhubConfig to skip loading from disk.
package app
