package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"toolhub/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/toolhub"
	configFileName = "config.yaml"
)

// GetDefaultConfigPath returns ~/.config/toolhub.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads <configPath>/config.yaml on top of the defaults and resolves
// relative file paths against configPath. A missing file is not an error.
func LoadConfig(configPath string) (ToolhubConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return ToolhubConfig{}, ConfigurationError{
			FilePath:  configFilePath,
			ErrorType: "io",
			Message:   err.Error(),
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return ToolhubConfig{}, ConfigurationError{
				FilePath:  configFilePath,
				ErrorType: "parse",
				Message:   err.Error(),
			}
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	applyDefaults(&config)
	config.ToolsFile = resolvePath(configPath, config.ToolsFile)
	config.RegistryFile = resolvePath(configPath, config.RegistryFile)
	return config, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
