// Package config loads toolhub's application configuration.
//
// Configuration lives in a single directory, ~/.config/toolhub by default or
// the directory passed with --config-path. It contains:
//   - config.yaml: optional settings (timeouts, file names, built-ins)
//   - mcp_config.json: installed connectors, managed by internal/connector
//   - mcp_registry.json: the read-only connector catalog
//
// Example config.yaml:
//
//	toolsFile: mcp_config.json
//	registryFile: mcp_registry.yaml
//	interpreter: /usr/local/bin/python3
//	probe:
//	  installTimeout: 10s
//	  runtimeTimeout: 3s
//	events:
//	  maxArgLength: 200
//	builtins:
//	  weather:
//	    enabled: false
//
// Unset fields take the values from GetDefaultConfig.
package config
