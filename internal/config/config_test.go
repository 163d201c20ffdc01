package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 128, cfg.Write.ChunkSize)
	assert.Equal(t, 100, cfg.Write.InterChunkDelayMS)
	assert.Equal(t, 3, cfg.Write.MaxAttempts)
	assert.Equal(t, 200, cfg.Write.BackoffBaseMS)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log_level: debug
scan:
  timeout_seconds: 5
write:
  chunk_size: 64
receipt:
  footer_text: "Come again!"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.Scan.TimeoutSeconds)
	assert.Equal(t, 64, cfg.Write.ChunkSize)
	assert.Equal(t, "Come again!", cfg.Receipt.FooterText)
	// Untouched fields keep their defaults.
	assert.Equal(t, 3, cfg.Write.MaxAttempts)
	assert.Equal(t, "RECEIPT", cfg.Receipt.HeaderFallback)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("write: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero scan timeout", func(c *Config) { c.Scan.TimeoutSeconds = 0 }},
		{"zero chunk size", func(c *Config) { c.Write.ChunkSize = 0 }},
		{"negative chunk delay", func(c *Config) { c.Write.InterChunkDelayMS = -1 }},
		{"zero max attempts", func(c *Config) { c.Write.MaxAttempts = 0 }},
		{"negative backoff", func(c *Config) { c.Write.BackoffBaseMS = -1 }},
		{"zero reconnect cap", func(c *Config) { c.Write.MaxReconnectsPerPrint = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x", "device.json"), expandTilde("~/x/device.json"))
	assert.Equal(t, "/abs/device.json", expandTilde("/abs/device.json"))
}
