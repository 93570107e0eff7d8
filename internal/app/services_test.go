package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"toolhub/internal/api"
	"toolhub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeServices(t *testing.T) {
	t.Run("requires loaded configuration", func(t *testing.T) {
		_, err := InitializeServices(&Config{})
		require.Error(t, err)
	})

	t.Run("wires every component", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.ToolsFile = t.TempDir() + "/tools.json"
		cfg.RegistryFile = t.TempDir() + "/missing.json"

		s, err := InitializeServices(&Config{ToolhubConfig: &cfg})
		require.NoError(t, err)
		assert.NotNil(t, s.Store)
		assert.NotNil(t, s.Prober)
		assert.NotNil(t, s.Aggregator)
		assert.NotNil(t, s.Manager)
		assert.NotNil(t, s.Recorder)
		assert.Equal(t, 0, s.Registry.Len())
	})

	t.Run("recommendation is left to embedders", func(t *testing.T) {
		dir := t.TempDir()
		registryFile := filepath.Join(dir, "registry.json")
		require.NoError(t, os.WriteFile(registryFile,
			[]byte(`[{"name": "amap", "type": "sse", "description": "maps", "default_config": {"url": "https://mcp.amap.com/sse"}}]`), 0o600))

		cfg := config.GetDefaultConfig()
		cfg.ToolsFile = filepath.Join(dir, "tools.json")
		cfg.RegistryFile = registryFile

		s, err := InitializeServices(&Config{ToolhubConfig: &cfg})
		require.NoError(t, err)
		require.Equal(t, 1, s.Registry.Len())

		_, err = s.Manager.Recommend(context.Background(), "plan a route")
		assert.ErrorIs(t, err, api.ErrRecommenderUnavailable)
	})
}

func TestBuiltinOptions(t *testing.T) {
	t.Setenv("TOOLHUB_TEST_WEATHER_KEY", "weather-secret")
	t.Setenv("TOOLHUB_TEST_SEARCH_KEY", "")

	disabled := false
	opts := BuiltinOptions(config.BuiltinsConfig{
		Weather: config.BuiltinConfig{BaseURL: "http://weather.local", APIKeyEnv: "TOOLHUB_TEST_WEATHER_KEY"},
		Search:  config.BuiltinConfig{Enabled: &disabled, APIKeyEnv: "TOOLHUB_TEST_SEARCH_KEY"},
	})

	assert.True(t, opts.Weather.Enabled)
	assert.Equal(t, "weather-secret", opts.Weather.APIKey)
	assert.Equal(t, "http://weather.local", opts.Weather.BaseURL)
	assert.False(t, opts.Search.Enabled)
	assert.Empty(t, opts.Search.APIKey)
	assert.Equal(t, "TOOLHUB_TEST_SEARCH_KEY", opts.Search.APIKeyEnv)
}
