package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadWithEnv_Defaults(t *testing.T) {
	cfg, err := LoadWithEnv("", envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.IsProduction())
}

func TestLoadWithEnv_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
log_level: debug
gemini:
  model: gemini-from-yaml
store:
  driver: sqlite
  sqlite_path: /tmp/yaml.db
batch_concurrency: 8
`), 0o600))

	cfg, err := LoadWithEnv(path, envMap(map[string]string{
		"ENV":                   "production",
		"GEMINI_MODEL":          "gemini-from-env",
		"GEMINI_API_KEY":        "server-key",
		"ALLOWED_ORIGINS":       "https://a.example, https://b.example,",
		"DAILY_QUOTA":           "50",
		"RATE_LIMIT_PER_SECOND": "0.5",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "gemini-from-env", cfg.Gemini.Model)
	assert.Equal(t, "v1", cfg.Gemini.APIVersion)
	assert.Equal(t, "server-key", cfg.Gemini.APIKey)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/yaml.db", cfg.Store.SQLitePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(50), cfg.DailyQuota)
	assert.Equal(t, 0.5, cfg.RateLimitPerSecond)
	assert.Equal(t, 8, cfg.BatchConcurrency)
	assert.True(t, cfg.IsProduction())
}

func TestLoadWithEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":   {"STORE_DRIVER": "redis"},
		"postgres no url":  {"STORE_DRIVER": "postgres"},
		"bad quota":        {"DAILY_QUOTA": "many"},
		"zero concurrency": {"BATCH_CONCURRENCY": "0"},
		"bad log level":    {"LOG_LEVEL": "chatty"},
		"non-numeric port": {"PORT": "http"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWithEnv("", envMap(env))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"), envMap(nil))
	assert.Error(t, err)
}
