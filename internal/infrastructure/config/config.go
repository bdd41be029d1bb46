package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Store backends accepted by PROJECT_STORE.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Projects  ProjectStoreConfig
	Blocks    BlockConfig
	Export    ExportConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	File        string `envconfig:"LOG_FILE"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// ProjectStoreConfig selects where project snapshots live.
type ProjectStoreConfig struct {
	Backend string `envconfig:"PROJECT_STORE" default:"memory"`
	Path    string `envconfig:"PROJECT_STORE_PATH" default:"data/projects"`
}

// BlockConfig holds block catalog configuration.
type BlockConfig struct {
	CatalogDir string `envconfig:"BLOCK_CATALOG_DIR"`
}

// ExportConfig holds export pipeline configuration.
type ExportConfig struct {
	PageGlob     string `envconfig:"EXPORT_PAGE_GLOB" default:"app/**/*.{tsx,jsx,ts,js,mdx}"`
	MaxBodyBytes int64  `envconfig:"EXPORT_MAX_BODY_BYTES" default:"10485760"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.Projects.Backend {
	case StoreMemory, StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("invalid PROJECT_STORE %q (want memory, file or sqlite)", c.Projects.Backend)
	}
	if c.Export.MaxBodyBytes <= 0 {
		return fmt.Errorf("EXPORT_MAX_BODY_BYTES must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Projects: ProjectStoreConfig{
			Backend: StoreMemory,
			Path:    "data/projects",
		},
		Export: ExportConfig{
			PageGlob:     "app/**/*.{tsx,jsx,ts,js,mdx}",
			MaxBodyBytes: 10 << 20,
		},
	}
}
