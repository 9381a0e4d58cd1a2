package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigPathEnv overrides the default config file path
// (~/.weni-analyzer/config.json). Useful for testing and
// non-standard installations.
const ConfigPathEnv = "WENI_ANALYZER_CONFIG_PATH"

// GetAnalyzerDir returns the analyzer's state directory (~/.weni-analyzer).
func GetAnalyzerDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, AnalyzerDir), nil
}

// GetConfigPath returns the path to the credentials config file.
// Checks the ConfigPathEnv override first.
func GetConfigPath() (string, error) {
	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		return envPath, nil
	}

	dir, err := GetAnalyzerDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}
