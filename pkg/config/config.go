package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all borderdrill configuration.
type Config struct {
	Listen       string         `yaml:"listen"`
	DBPath       string         `yaml:"db_path"`
	PersonasFile string         `yaml:"personas_file"`
	Provider     ProviderConfig `yaml:"provider"`
	Cache        CacheConfig    `yaml:"cache"`
	Usage        UsageConfig    `yaml:"usage"`
}

// ProviderConfig defines the upstream chat completion provider.
type ProviderConfig struct {
	URL              string        `yaml:"url"`
	APIKey           string        `yaml:"api_key"`
	Model            string        `yaml:"model"`
	ReplyTemperature float64       `yaml:"reply_temperature"`
	ScoreTemperature float64       `yaml:"score_temperature"`
	Timeout          time.Duration `yaml:"timeout"`
}

// Cache backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// CacheConfig controls the reply cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
}

// UsageConfig controls usage tracking.
type UsageConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a Config with sensible defaults. The API key comes from
// OPENAI_API_KEY and may be empty.
func Default() *Config {
	return &Config{
		Listen: ":8080",
		DBPath: "borderdrill.db",
		Provider: ProviderConfig{
			URL:              "https://api.openai.com",
			APIKey:           os.Getenv("OPENAI_API_KEY"),
			Model:            "gpt-3.5-turbo",
			ReplyTemperature: 0.7,
			ScoreTemperature: 0.5,
			Timeout:          60 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: BackendMemory,
			TTL:     300 * time.Second,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed up by defaults.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config: negative cache ttl %v", c.Cache.TTL)
	}
	if c.Provider.URL == "" {
		return fmt.Errorf("config: provider url is required")
	}
	return nil
}
