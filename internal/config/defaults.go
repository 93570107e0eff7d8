package config

import "time"

const (
	DefaultToolsFile      = "mcp_config.json"
	DefaultRegistryFile   = "mcp_registry.json"
	DefaultInstallTimeout = 10 * time.Second
	DefaultRuntimeTimeout = 3 * time.Second
	DefaultSampleSize     = 3
	DefaultMaxArgLength   = 200
	DefaultHistoryLimit   = 40

	DefaultWeatherBaseURL   = "https://api.openweathermap.org/data/2.5/weather"
	DefaultWeatherAPIKeyEnv = "OPENWEATHER_API_KEY"
	DefaultSearchAPIKeyEnv  = "TAVILY_API_KEY"
)

// GetDefaultConfig returns the configuration used when no config.yaml exists.
func GetDefaultConfig() ToolhubConfig {
	return ToolhubConfig{
		ToolsFile:    DefaultToolsFile,
		RegistryFile: DefaultRegistryFile,
		Probe: ProbeConfig{
			InstallTimeout: DefaultInstallTimeout,
			RuntimeTimeout: DefaultRuntimeTimeout,
			SampleSize:     DefaultSampleSize,
		},
		Events: EventsConfig{
			MaxArgLength: DefaultMaxArgLength,
		},
		History: HistoryConfig{
			Limit: DefaultHistoryLimit,
		},
		Builtins: BuiltinsConfig{
			Weather: BuiltinConfig{
				BaseURL:   DefaultWeatherBaseURL,
				APIKeyEnv: DefaultWeatherAPIKeyEnv,
			},
			Search: BuiltinConfig{
				APIKeyEnv: DefaultSearchAPIKeyEnv,
			},
		},
	}
}

// applyDefaults fills zero or nonsensical values left by a partial config.yaml.
func applyDefaults(cfg *ToolhubConfig) {
	def := GetDefaultConfig()
	if cfg.ToolsFile == "" {
		cfg.ToolsFile = def.ToolsFile
	}
	if cfg.RegistryFile == "" {
		cfg.RegistryFile = def.RegistryFile
	}
	if cfg.Probe.InstallTimeout <= 0 {
		cfg.Probe.InstallTimeout = def.Probe.InstallTimeout
	}
	if cfg.Probe.RuntimeTimeout <= 0 {
		cfg.Probe.RuntimeTimeout = def.Probe.RuntimeTimeout
	}
	if cfg.Probe.SampleSize <= 0 {
		cfg.Probe.SampleSize = def.Probe.SampleSize
	}
	if cfg.Events.MaxArgLength <= 0 {
		cfg.Events.MaxArgLength = def.Events.MaxArgLength
	}
	if cfg.History.Limit <= 0 {
		cfg.History.Limit = def.History.Limit
	}
	if cfg.Builtins.Weather.BaseURL == "" {
		cfg.Builtins.Weather.BaseURL = def.Builtins.Weather.BaseURL
	}
	if cfg.Builtins.Weather.APIKeyEnv == "" {
		cfg.Builtins.Weather.APIKeyEnv = def.Builtins.Weather.APIKeyEnv
	}
	if cfg.Builtins.Search.APIKeyEnv == "" {
		cfg.Builtins.Search.APIKeyEnv = def.Builtins.Search.APIKeyEnv
	}
}
