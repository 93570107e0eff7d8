package config

import "time"

// ToolhubConfig is the top-level configuration structure for toolhub.
type ToolhubConfig struct {
	// ToolsFile is the persisted connector document. Relative paths resolve
	// against the configuration directory.
	ToolsFile string `yaml:"toolsFile,omitempty"`
	// RegistryFile is the read-only connector catalog (JSON or YAML).
	RegistryFile string `yaml:"registryFile,omitempty"`
	// Interpreter pins bare interpreter invocations of stdio connectors to an
	// absolute path. Empty means "resolve python3/python on PATH".
	Interpreter string `yaml:"interpreter,omitempty"`

	Probe    ProbeConfig    `yaml:"probe"`
	Events   EventsConfig   `yaml:"events"`
	History  HistoryConfig  `yaml:"history"`
	Builtins BuiltinsConfig `yaml:"builtins"`
}

// ProbeConfig bounds connection tests and per-turn discovery.
type ProbeConfig struct {
	InstallTimeout time.Duration `yaml:"installTimeout,omitempty"` // test-connection deadline (default 10s)
	RuntimeTimeout time.Duration `yaml:"runtimeTimeout,omitempty"` // shared per-turn discovery deadline (default 3s)
	SampleSize     int           `yaml:"sampleSize,omitempty"`     // tool names quoted in a successful test (default 3)
}

// EventsConfig tunes the turn event stream.
type EventsConfig struct {
	MaxArgLength int `yaml:"maxArgLength,omitempty"` // per-argument cap on tool_start input (default 200)
}

// HistoryConfig tunes the conversation history handed to the model.
type HistoryConfig struct {
	Limit int `yaml:"limit,omitempty"` // most recent messages loaded per turn (default 40)
}

// BuiltinsConfig toggles and configures the always-present capabilities.
type BuiltinsConfig struct {
	Weather BuiltinConfig `yaml:"weather"`
	Search  BuiltinConfig `yaml:"search"`
}

// BuiltinConfig configures one built-in capability.
type BuiltinConfig struct {
	Enabled   *bool  `yaml:"enabled,omitempty"`
	BaseURL   string `yaml:"baseURL,omitempty"`
	APIKeyEnv string `yaml:"apiKeyEnv,omitempty"`
}

// IsEnabled treats an unset flag as enabled.
func (b BuiltinConfig) IsEnabled() bool {
	return b.Enabled == nil || *b.Enabled
}
