package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds server configuration. Values come from an optional YAML file
// with CLI flags layered on top.
type Config struct {
	// Listen is the address the HTTP API binds to.
	Listen string `yaml:"listen"`
	// DataDir holds the embedded database.
	DataDir string `yaml:"dataDir"`
	// HeartbeatInterval is the period between SSE comment heartbeats that
	// keep idle stream connections alive through proxies.
	HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`
	// AuthSecret signs user tokens. Overridable via STRIDE_AUTH_SECRET.
	AuthSecret string `yaml:"authSecret"`
	// TokenTTL bounds the validity of issued tokens.
	TokenTTL time.Duration `yaml:"tokenTTL"`

	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:            ":8080",
		DataDir:           "./data",
		HeartbeatInterval: 30 * time.Second,
		TokenTTL:          30 * 24 * time.Hour,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged. The STRIDE_AUTH_SECRET environment variable, when set,
// takes precedence over the file value.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if secret := os.Getenv("STRIDE_AUTH_SECRET"); secret != "" {
		cfg.AuthSecret = secret
	}

	return cfg, nil
}

// Validate checks the configuration is usable for serving.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.AuthSecret == "" {
		return fmt.Errorf("auth secret is required (flag, config file, or STRIDE_AUTH_SECRET)")
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be positive")
	}
	return nil
}
