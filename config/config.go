// Package config loads application settings from an optional YAML file and
// RFP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"rfpsimulator/logging"
	"rfpsimulator/services"
)

// DefaultPath is read when RFP_CONFIG is not set.
const DefaultPath = "rfp.yaml"

// Config is the main application configuration
type Config struct {
	// RatesFile overrides the embedded rate tables when set.
	RatesFile string `yaml:"rates_file"`

	Logging logging.Config `yaml:"logging"`
}

// Default returns a default configuration
func Default() Config {
	return Config{
		Logging: logging.DefaultConfig(),
	}
}

// Load reads path on top of the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from RFP_* variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("RFP_RATES_FILE"); v != "" {
		c.RatesFile = v
	}
	if v := getenv("RFP_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("RFP_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := getenv("RFP_LOG_OUTPUT"); v != "" {
		c.Logging.Output = v
	}
	if v := getenv("RFP_LOG_DEVELOPMENT"); v != "" {
		dev, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("RFP_LOG_DEVELOPMENT: %w", err)
		}
		c.Logging.Development = dev
	}
	return nil
}

// RateTables loads the configured rate tables, or the embedded defaults.
func (c Config) RateTables() (*services.RateTables, error) {
	if c.RatesFile == "" {
		return services.DefaultRateTables()
	}
	return services.LoadRateTablesFile(c.RatesFile)
}
