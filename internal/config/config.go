// Package config provides unified configuration for the schema bridge.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the bridge configuration: the registry endpoint and the
// table-creation defaults.
type Config struct {
	// Registry is the schema registry endpoint configuration
	Registry RegistryConfig `json:"registry" yaml:"registry"`

	// Defaults are the format hints applied when a table property is absent
	Defaults DefaultsConfig `json:"defaults" yaml:"defaults"`

	// LocationProbe configures the optional S3 external-location check
	LocationProbe ProbeConfig `json:"location_probe" yaml:"location_probe"`
}

// RegistryConfig holds the schema registry endpoint settings.
type RegistryConfig struct {
	// Host is the registry server host
	Host string `json:"host" yaml:"host"`

	// Port is the registry server port
	Port int `json:"port" yaml:"port"`

	// Namespace is the registry namespace all groups live under
	Namespace string `json:"namespace" yaml:"namespace"`

	// Timeout bounds each registry request
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultsConfig holds system-wide defaults for table format hints.
type DefaultsConfig struct {
	// HasHeaderRow is applied when has_header_row is absent
	HasHeaderRow string `json:"has_header_row" yaml:"has_header_row"`

	// RecordDelimiter is applied when record_delimiter is absent
	RecordDelimiter string `json:"record_delimiter" yaml:"record_delimiter"`

	// FieldDelimiter is applied when field_delimiter is absent
	FieldDelimiter string `json:"field_delimiter" yaml:"field_delimiter"`
}

// ProbeConfig holds the optional S3 location-probe settings.
type ProbeConfig struct {
	// Enabled turns the advisory external-location check on
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Region is the AWS region for probed buckets
	Region string `json:"region" yaml:"region"`

	// Endpoint is a custom S3 endpoint (for S3-compatible storage)
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// UsePathStyle enables path-style addressing (required for MinIO)
	UsePathStyle bool `json:"use_path_style" yaml:"use_path_style"`
}

// DefaultConfig returns the default configuration for local development.
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			Host:      "localhost",
			Port:      9092,
			Namespace: "",
			Timeout:   30 * time.Second,
		},
		Defaults: DefaultsConfig{
			HasHeaderRow:    "false",
			RecordDelimiter: "\n",
			FieldDelimiter:  ",",
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Registry.Host == "" {
		return fmt.Errorf("registry.host is required")
	}
	if c.Registry.Port <= 0 || c.Registry.Port > 65535 {
		return fmt.Errorf("registry.port must be between 1 and 65535, got %d", c.Registry.Port)
	}
	if c.Registry.Timeout < 0 {
		return fmt.Errorf("registry.timeout must not be negative")
	}
	if c.LocationProbe.Enabled && c.LocationProbe.Region == "" && c.LocationProbe.Endpoint == "" {
		return fmt.Errorf("location_probe requires a region or endpoint when enabled")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the SCHEMABRIDGE_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("SCHEMABRIDGE_REGISTRY_HOST"); v != "" {
		cfg.Registry.Host = v
	}
	if v := os.Getenv("SCHEMABRIDGE_REGISTRY_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Registry.Port)
	}
	if v := os.Getenv("SCHEMABRIDGE_REGISTRY_NAMESPACE"); v != "" {
		cfg.Registry.Namespace = v
	}
	if v := os.Getenv("SCHEMABRIDGE_REGISTRY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Registry.Timeout = d
		}
	}

	// Format hint defaults
	if v := os.Getenv("SCHEMABRIDGE_DEFAULT_HAS_HEADER_ROW"); v != "" {
		cfg.Defaults.HasHeaderRow = v
	}
	if v := os.Getenv("SCHEMABRIDGE_DEFAULT_RECORD_DELIMITER"); v != "" {
		cfg.Defaults.RecordDelimiter = v
	}
	if v := os.Getenv("SCHEMABRIDGE_DEFAULT_FIELD_DELIMITER"); v != "" {
		cfg.Defaults.FieldDelimiter = v
	}

	// Location probe
	if v := os.Getenv("SCHEMABRIDGE_PROBE_ENABLED"); v != "" {
		cfg.LocationProbe.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("SCHEMABRIDGE_PROBE_REGION"); v != "" {
		cfg.LocationProbe.Region = v
	}
	if v := os.Getenv("SCHEMABRIDGE_PROBE_ENDPOINT"); v != "" {
		cfg.LocationProbe.Endpoint = v
	}
	if v := os.Getenv("SCHEMABRIDGE_PROBE_PATH_STYLE"); v != "" {
		cfg.LocationProbe.UsePathStyle = v == "true" || v == "1"
	}
}
