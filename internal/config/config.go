package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tabload/internal/common"
	"tabload/pkg/models"
)

func GetConfigPath() string {
	// Check for environment variable first
	if configPath := os.Getenv("TABLOAD_CONFIG"); configPath != "" {
		return filepath.Dir(configPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tabload")
}

func GetConfigFile() string {
	// Check for environment variable first
	if configFile := os.Getenv("TABLOAD_CONFIG"); configFile != "" {
		// Validate the path to prevent directory traversal
		cleaned, err := common.CleanPath(configFile)
		if err != nil {
			// Fall back to default if invalid
			return filepath.Join(GetConfigPath(), "config.yaml")
		}
		return cleaned
	}
	return filepath.Join(GetConfigPath(), "config.yaml")
}

// Load reads the connection profile; a missing file yields defaults so the
// CLI can run from flags and environment alone
func Load() (*models.Config, error) {
	configFile := GetConfigFile()

	cleanedPath, err := common.CleanPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
		return &models.Config{Ingest: models.DefaultIngest()}, nil
	}

	data, err := os.ReadFile(cleanedPath) // #nosec G304 - path is validated
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &models.Config{Ingest: models.DefaultIngest()}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(config)
	return config, nil
}

func Save(config *models.Config) error {
	configPath := GetConfigPath()
	if err := os.MkdirAll(configPath, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(GetConfigFile(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func Exists() bool {
	_, err := os.Stat(GetConfigFile())
	return err == nil
}

// applyDefaults backfills zero values left by a sparse yaml profile
func applyDefaults(config *models.Config) {
	defaults := models.DefaultIngest()
	if config.Ingest.BatchSize <= 0 {
		config.Ingest.BatchSize = defaults.BatchSize
	}
	if config.Ingest.SampleRows <= 0 {
		config.Ingest.SampleRows = defaults.SampleRows
	}
	if config.Ingest.VarcharLength == "" {
		config.Ingest.VarcharLength = defaults.VarcharLength
	}
	if config.Ingest.TimeoutSecs < 0 {
		config.Ingest.TimeoutSecs = defaults.TimeoutSecs
	}
}
