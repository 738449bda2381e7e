// Package config loads the gateway's process configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RateLimitConfig controls the per-client limiter at the edge.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Config is the top-level YAML configuration.
type Config struct {
	// Listen is the proxy listen address, e.g. ":8000".
	Listen string `yaml:"listen"`
	// Definitions is the path to the API definitions YAML file.
	Definitions string `yaml:"definitions"`
	// TableTTLSeconds bounds how long a built routing table stays warm.
	TableTTLSeconds int `yaml:"table_ttl_seconds"`
	// DrainTimeoutSeconds caps the wait for in-flight requests at shutdown.
	DrainTimeoutSeconds int `yaml:"drain_timeout_seconds"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML bytes into a validated Config with defaults applied.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{
		Listen:              ":8000",
		TableTTLSeconds:     60,
		DrainTimeoutSeconds: 30,
		LogLevel:            "info",
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Definitions == "" {
		return fmt.Errorf("config must name a definitions file")
	}
	if c.TableTTLSeconds <= 0 {
		return fmt.Errorf("table_ttl_seconds must be positive")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limit.requests_per_second must be positive")
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate_limit.burst must be positive")
		}
	}
	return nil
}

// TableTTL returns the routing table TTL as a duration.
func (c *Config) TableTTL() time.Duration {
	return time.Duration(c.TableTTLSeconds) * time.Second
}

// DrainTimeout returns the shutdown drain timeout as a duration.
func (c *Config) DrainTimeout() time.Duration {
	return time.Duration(c.DrainTimeoutSeconds) * time.Second
}
