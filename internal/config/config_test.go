package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"database_url": "postgres://localhost:5432/interview_agent",
		"port": 8080,
		"model_standard": "gemini-2.5-flash",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://localhost:5432/interview_agent", cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelStandard)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_PortOutOfRange(t *testing.T) {
	cfg := &Config{Port: 70000}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/interview_agent",
		Port:        8080,
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestFromEnv_FillsGapsOnly(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/db")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg := Config{DatabaseURL: "postgres://explicit-host/db"}
	merged := cfg.FromEnv()

	// Explicit values win; the environment only fills gaps
	assert.Equal(t, "postgres://explicit-host/db", merged.DatabaseURL)
	assert.Equal(t, "env-key", merged.APIKey)
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		DatabaseURL:   "postgres://default-host/db",
		APIKey:        "default-key",
		Port:          8080,
		ModelAdvanced: "gemini-2.5-pro",
	}

	partial := Config{
		APIKey: "custom-key",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "custom-key", merged.APIKey)

	// Default values should fill in empty fields
	assert.Equal(t, "postgres://default-host/db", merged.DatabaseURL)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "gemini-2.5-pro", merged.ModelAdvanced)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{
		DatabaseURL: "postgres://host/db",
		Port:        9000,
	}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "postgres://host/db", merged.DatabaseURL)
	assert.Equal(t, 9000, merged.Port)
}
