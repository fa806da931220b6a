// Package config loads server and CLI settings from defaults, an optional
// YAML file, .env.local and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DotEnvFile is loaded into the environment when present
const DotEnvFile = ".env.local"

// Config holds every tunable of the service
type Config struct {
	Env      string `yaml:"env"`
	Port     string `yaml:"port" validate:"required,numeric"`
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	Gemini GeminiConfig `yaml:"gemini"`
	Store  StoreConfig  `yaml:"store"`

	AllowedOrigins []string `yaml:"allowed_origins"`
	CloudRunURL    string   `yaml:"cloud_run_url" validate:"omitempty,url"`

	RateLimitPerSecond float64 `yaml:"rate_limit_per_second" validate:"gt=0"`
	RateLimitBurst     int     `yaml:"rate_limit_burst" validate:"min=1"`
	DailyQuota         int64   `yaml:"daily_quota" validate:"min=1"`
	BatchConcurrency   int     `yaml:"batch_concurrency" validate:"min=1,max=32"`
}

// GeminiConfig holds the generation endpoint settings
type GeminiConfig struct {
	// APIKey is the server-wide fallback for users without their own key
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model" validate:"required"`
	APIVersion string `yaml:"api_version" validate:"required"`
	BaseURL    string `yaml:"base_url" validate:"omitempty,url"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver      string `yaml:"driver" validate:"oneof=memory sqlite postgres"`
	SQLitePath  string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
	DatabaseURL string `yaml:"database_url" validate:"required_if=Driver postgres"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Env:      "development",
		Port:     "8080",
		LogLevel: "info",
		Gemini: GeminiConfig{
			Model:      "gemini-2.0-flash-001",
			APIVersion: "v1",
		},
		Store: StoreConfig{
			Driver:     "memory",
			SQLitePath: "shoken.db",
		},
		RateLimitPerSecond: 1,
		RateLimitBurst:     3,
		DailyQuota:         1000,
		BatchConcurrency:   4,
	}
}

// Load reads the YAML file at path (optional, "" skips it), then .env.local,
// then the process environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("ENV", &cfg.Env)
	str("PORT", &cfg.Port)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("GEMINI_API_KEY", &cfg.Gemini.APIKey)
	str("GEMINI_MODEL", &cfg.Gemini.Model)
	str("GEMINI_API_VERSION", &cfg.Gemini.APIVersion)
	str("GEMINI_BASE_URL", &cfg.Gemini.BaseURL)
	str("STORE_DRIVER", &cfg.Store.Driver)
	str("SQLITE_PATH", &cfg.Store.SQLitePath)
	str("DATABASE_URL", &cfg.Store.DatabaseURL)
	str("CLOUD_RUN_URL", &cfg.CloudRunURL)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if v, ok := lookup("RATE_LIMIT_PER_SECOND"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_PER_SECOND: %w", err)
		}
		cfg.RateLimitPerSecond = f
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"RATE_LIMIT_BURST", &cfg.RateLimitBurst},
		{"BATCH_CONCURRENCY", &cfg.BatchConcurrency},
	}
	for _, it := range ints {
		if v, ok := lookup(it.key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", it.key, err)
			}
			*it.dst = n
		}
	}
	if v, ok := lookup("DAILY_QUOTA"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("DAILY_QUOTA: %w", err)
		}
		cfg.DailyQuota = n
	}
	return nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
