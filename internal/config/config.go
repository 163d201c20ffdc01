package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	StorePath string        `yaml:"store_path"` // saved-device file
	Scan      ScanConfig    `yaml:"scan"`
	Write     WriteConfig   `yaml:"write"`
	Receipt   ReceiptConfig `yaml:"receipt"`
	LogLevel  string        `yaml:"log_level"`
}

// ScanConfig holds device discovery settings.
type ScanConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// WriteConfig holds chunked-transfer settings.
type WriteConfig struct {
	ChunkSize             int `yaml:"chunk_size"`
	InterChunkDelayMS     int `yaml:"inter_chunk_delay_ms"`
	MaxAttempts           int `yaml:"max_attempts"`
	BackoffBaseMS         int `yaml:"backoff_base_ms"`
	MaxReconnectsPerPrint int `yaml:"max_reconnects_per_print"`
}

// ReceiptConfig holds receipt layout texts.
type ReceiptConfig struct {
	HeaderFallback string `yaml:"header_fallback"`
	FooterText     string `yaml:"footer_text"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vendorview-printer")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		StorePath: filepath.Join(DefaultConfigDir(), "device.json"),
		Scan: ScanConfig{
			TimeoutSeconds: 10,
		},
		Write: WriteConfig{
			ChunkSize:             128,
			InterChunkDelayMS:     100,
			MaxAttempts:           3,
			BackoffBaseMS:         200,
			MaxReconnectsPerPrint: 3,
		},
		Receipt: ReceiptConfig{
			HeaderFallback: "RECEIPT",
			FooterText:     "Thank you for your order!",
		},
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled with
// defaults. Tilde (~) in store_path is expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.StorePath = expandTilde(cfg.StorePath)

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Scan.TimeoutSeconds <= 0 {
		return fmt.Errorf("scan.timeout_seconds must be > 0")
	}

	if c.Write.ChunkSize <= 0 {
		return fmt.Errorf("write.chunk_size must be > 0")
	}

	if c.Write.InterChunkDelayMS < 0 {
		return fmt.Errorf("write.inter_chunk_delay_ms must be >= 0")
	}

	if c.Write.MaxAttempts <= 0 {
		return fmt.Errorf("write.max_attempts must be > 0")
	}

	if c.Write.BackoffBaseMS < 0 {
		return fmt.Errorf("write.backoff_base_ms must be >= 0")
	}

	if c.Write.MaxReconnectsPerPrint <= 0 {
		return fmt.Errorf("write.max_reconnects_per_print must be > 0")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
