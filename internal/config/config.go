// Package config provides unified configuration loading for the recommendation
// engine. Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the recommendation engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Dialog        DialogConfig        `yaml:"dialog"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	Rerank        RerankConfig        `yaml:"rerank"`
	Session       SessionConfig       `yaml:"session"`
	Analytics     AnalyticsConfig     `yaml:"analytics"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// CatalogConfig locates the product catalog and its precomputed vectors.
type CatalogConfig struct {
	ProductsPath string `yaml:"products_path"`
	VectorsPath  string `yaml:"vectors_path"`
}

// EmbeddingConfig holds query-embedding service settings. Catalog vectors are
// computed upstream; only user queries are embedded at runtime.
type EmbeddingConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	Dimension int           `yaml:"dimension"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DialogConfig holds settings for the downstream dialogue generator.
type DialogConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RetrievalConfig holds search settings.
type RetrievalConfig struct {
	TopK          int `yaml:"top_k"`
	DisplayLimit  int `yaml:"display_limit"`
	ShowAllLimit  int `yaml:"show_all_limit"`
	RecentWindow  int `yaml:"recent_window"`
	ContextWindow int `yaml:"context_window"`
}

// RerankConfig names the score adjustment weights. The multipliers compose in
// suppression, capacity, budget order.
type RerankConfig struct {
	AccessorySuppression float64 `yaml:"accessory_suppression"`
	CapacityBoost        float64 `yaml:"capacity_boost"`
	CapacitySlack        float64 `yaml:"capacity_slack"`
	BudgetBoost          float64 `yaml:"budget_boost"`
	ComparisonScore      float64 `yaml:"comparison_score"`
}

// SessionConfig holds session store settings.
type SessionConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// AnalyticsConfig holds event tracking settings.
type AnalyticsConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Driver   string         `yaml:"driver"` // sqlite or postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	JournalMode  string `yaml:"journal_mode"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// AuthConfig holds HTTP basic-auth settings for the API.
type AuthConfig struct {
	Enabled bool              `yaml:"enabled"`
	Users   map[string]string `yaml:"users"` // username -> password
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			ProductsPath: "data/products.json",
			VectorsPath:  "data/vectors.json",
		},
		Embedding: EmbeddingConfig{
			BaseURL:   "https://api.openai.com/v1",
			Model:     "text-embedding-3-small",
			Dimension: 1536,
			Timeout:   15 * time.Second,
		},
		Dialog: DialogConfig{
			BaseURL:     "https://api.anthropic.com/v1",
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   2048,
			Temperature: 0.3,
			Timeout:     60 * time.Second,
		},
		Retrieval: RetrievalConfig{
			TopK:          20,
			DisplayLimit:  10,
			ShowAllLimit:  20,
			RecentWindow:  8,
			ContextWindow: 3,
		},
		Rerank: RerankConfig{
			AccessorySuppression: 0.1,
			CapacityBoost:        1.3,
			CapacitySlack:        0.8,
			BudgetBoost:          1.2,
			ComparisonScore:      1.0,
		},
		Session: SessionConfig{
			Driver:     "memory",
			TTL:        30 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Analytics: AnalyticsConfig{
			Enabled: true,
			Driver:  "sqlite",
			SQLite: SQLiteConfig{
				Path:         "data/analytics.db",
				MaxOpenConns: 1,
				JournalMode:  "WAL",
			},
			Postgres: PostgresConfig{
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Auth: AuthConfig{
			Enabled: false,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Catalog.ProductsPath == "" {
		return fmt.Errorf("catalog products_path is required")
	}

	if c.Catalog.VectorsPath == "" {
		return fmt.Errorf("catalog vectors_path is required")
	}

	if c.Embedding.Dimension < 1 {
		return fmt.Errorf("embedding dimension must be positive")
	}

	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval top_k must be positive")
	}

	if c.Retrieval.DisplayLimit < 1 || c.Retrieval.DisplayLimit > c.Retrieval.TopK {
		return fmt.Errorf("display_limit must be between 1 and top_k")
	}

	if c.Rerank.AccessorySuppression <= 0 || c.Rerank.AccessorySuppression > 1 {
		return fmt.Errorf("accessory_suppression must be in (0, 1]")
	}

	if c.Rerank.CapacityBoost < 1 || c.Rerank.BudgetBoost < 1 {
		return fmt.Errorf("boost multipliers must be >= 1")
	}

	if c.Rerank.CapacitySlack <= 0 || c.Rerank.CapacitySlack > 1 {
		return fmt.Errorf("capacity_slack must be in (0, 1]")
	}

	if c.Session.Driver != "memory" && c.Session.Driver != "redis" {
		return fmt.Errorf("invalid session driver: %s", c.Session.Driver)
	}

	if c.Analytics.Enabled && c.Analytics.Driver != "sqlite" && c.Analytics.Driver != "postgres" {
		return fmt.Errorf("invalid analytics driver: %s", c.Analytics.Driver)
	}

	if c.Auth.Enabled && len(c.Auth.Users) == 0 {
		return fmt.Errorf("auth enabled but no users configured")
	}

	return nil
}

// AnalyticsDSN returns the connection string for the configured analytics driver.
func (c *Config) AnalyticsDSN() string {
	if c.Analytics.Driver == "sqlite" {
		return c.Analytics.SQLite.Path
	}
	return c.Analytics.Postgres.DSN
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("PRODUCTS_PATH"); v != "" {
		cfg.Catalog.ProductsPath = v
	}

	if v := os.Getenv("VECTORS_PATH"); v != "" {
		cfg.Catalog.VectorsPath = v
	}

	if v := os.Getenv("EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}

	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}

	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}

	if v := os.Getenv("DIALOG_API_KEY"); v != "" {
		cfg.Dialog.APIKey = v
	}

	if v := os.Getenv("DIALOG_MODEL"); v != "" {
		cfg.Dialog.Model = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Session.Driver = "redis"
		cfg.Session.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		switch {
		case strings.HasPrefix(v, "sqlite:"):
			cfg.Analytics.Driver = "sqlite"
			cfg.Analytics.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		case strings.HasPrefix(v, "postgres"):
			cfg.Analytics.Driver = "postgres"
			cfg.Analytics.Postgres.DSN = v
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}

	if v := os.Getenv("AUTH_ENABLED"); v == "true" {
		cfg.Auth.Enabled = true
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if filepath.IsAbs(targetPath) {
		return targetPath
	}
	return filepath.Join(filepath.Dir(configPath), targetPath)
}
