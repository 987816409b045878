package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabload/pkg/models"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("TABLOAD_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Ingest.BatchSize)
	assert.Equal(t, 1000, cfg.Ingest.SampleRows)
	assert.Equal(t, "255", cfg.Ingest.VarcharLength)
	assert.Equal(t, 0, cfg.Ingest.TimeoutSecs)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("TABLOAD_CONFIG", configFile)

	cfg := &models.Config{
		Snowflake: models.Snowflake{
			Account:   "test123.us-east-1",
			Username:  "loader",
			Role:      "SYSADMIN",
			Warehouse: "LOAD_WH",
			Database:  "ANALYTICS",
			Schema:    "PUBLIC",
		},
		Ingest: models.Ingest{
			BatchSize:     2500,
			SampleRows:    500,
			VarcharLength: "max",
		},
	}

	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test123.us-east-1", loaded.Snowflake.Account)
	assert.Equal(t, 2500, loaded.Ingest.BatchSize)
	assert.Equal(t, "max", loaded.Ingest.VarcharLength)
}

func TestLoadSparseProfileBackfillsDefaults(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("TABLOAD_CONFIG", configFile)

	sparse := []byte("snowflake:\n  account: test123\n  username: loader\n")
	require.NoError(t, os.WriteFile(configFile, sparse, 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test123", cfg.Snowflake.Account)
	assert.Equal(t, 5000, cfg.Ingest.BatchSize)
	assert.Equal(t, "255", cfg.Ingest.VarcharLength)
}

func TestConfigFileEnvOverride(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("TABLOAD_CONFIG", configFile)

	assert.Equal(t, configFile, GetConfigFile())
	assert.Equal(t, filepath.Dir(configFile), GetConfigPath())
}
