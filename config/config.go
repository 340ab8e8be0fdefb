package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds catalog sync configuration.
type Config struct {
	MetadataBaseURL   string        `yaml:"metadataBaseURL"`
	StockBaseURL      string        `yaml:"stockBaseURL"`
	Timeout           time.Duration `yaml:"timeout"`
	StockConcurrency  int           `yaml:"stockConcurrency"`
	RequestsPerSecond int           `yaml:"requestsPerSecond"` // 0 disables rate limiting
	UserAgent         string        `yaml:"userAgent"`
	TitleCacheSize    int           `yaml:"titleCacheSize"`
	OutputFile        string        `yaml:"outputFile"`
	OutputFormat      string        `yaml:"outputFormat"` // csv, json, dual, or postgres
	PostgresDSN       string        `yaml:"postgresDSN"`
	MetricsAddr       string        `yaml:"metricsAddr"`
	Verbose           bool          `yaml:"verbose"`
}

// DefaultConfig returns conservative defaults for the store services.
func DefaultConfig() *Config {
	return &Config{
		MetadataBaseURL:   "http://store.metadata.api.co.uk",
		StockBaseURL:      "http://stock.api.co.uk",
		Timeout:           10 * time.Second,
		StockConcurrency:  10,
		RequestsPerSecond: 0,
		UserAgent:         "go-catalog-sync/1.0",
		TitleCacheSize:    1024,
		OutputFile:        "output/products.csv",
		OutputFormat:      "csv",
		MetricsAddr:       "",
		Verbose:           false,
	}
}

// LoadFile reads a YAML config file over the defaults and applies
// environment overrides.
func LoadFile(path string) (*Config, error) {
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

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CATALOG_METADATA_URL"); v != "" {
		c.MetadataBaseURL = v
	}
	if v := os.Getenv("CATALOG_STOCK_URL"); v != "" {
		c.StockBaseURL = v
	}
	if v := os.Getenv("CATALOG_OUTPUT_FILE"); v != "" {
		c.OutputFile = v
	}
	if v := os.Getenv("CATALOG_OUTPUT_FORMAT"); v != "" {
		c.OutputFormat = v
	}
	if v := os.Getenv("CATALOG_PG_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("CATALOG_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("CATALOG_STOCK_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.StockConcurrency = n
		}
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if err := validateBaseURL("metadata base URL", c.MetadataBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("stock base URL", c.StockBaseURL); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.StockConcurrency <= 0 {
		return fmt.Errorf("stock concurrency must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative")
	}
	if c.TitleCacheSize < 0 {
		return fmt.Errorf("title cache size cannot be negative")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	switch c.OutputFormat {
	case "csv", "json", "dual":
		if c.OutputFile == "" {
			return fmt.Errorf("output file cannot be empty")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres DSN cannot be empty")
		}
	default:
		return fmt.Errorf("output format must be csv, json, dual, or postgres")
	}

	return nil
}

func validateBaseURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}
