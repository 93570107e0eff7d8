package app

import (
	"toolhub/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// Silent suppresses log output entirely
	Silent bool

	// Custom configuration path (optional)
	// When empty the default ~/.config/toolhub directory is used
	ConfigPath string

	// Loaded toolhub configuration. Pre-populate it to skip loading.
	ToolhubConfig *config.ToolhubConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug, silent bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}
