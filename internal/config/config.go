// Package config holds bazaaradmin configuration: backend address,
// session token and UI preferences. Loaded from a yaml file with
// environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"
)

// Config is the full bazaaradmin configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig points at the store backend.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// AuthConfig holds the persisted session.
type AuthConfig struct {
	Email string `yaml:"email"`
	Token string `yaml:"token"`
}

// UIConfig holds display preferences.
type UIConfig struct {
	Theme string `yaml:"theme"` // "light", "dark" or "" for auto-detect
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // optional log file path
	JSON  bool   `yaml:"json"`  // structured JSON output
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:4000",
			Timeout: "30s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "bazaaradmin", "config.yaml"), nil
}

// Load reads the config file at path, falling back to defaults when it
// does not exist, and applies environment overrides last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: defaults plus env.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnv layers environment variables over file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("BAZAAR_API_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("BAZAAR_TOKEN"); v != "" {
		c.Auth.Token = v
	}
	if v := os.Getenv("BAZAAR_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("BAZAAR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// RequestTimeout parses the configured HTTP timeout, defaulting to 30s.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// SessionExpiry inspects the stored token's exp claim without verifying
// the signature (the backend does that); ok is false when no token is
// stored or it carries no expiry.
func (c *Config) SessionExpiry() (time.Time, bool) {
	if c.Auth.Token == "" {
		return time.Time{}, false
	}
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(c.Auth.Token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// SessionExpired reports whether the stored session token has expired.
func (c *Config) SessionExpired() bool {
	exp, ok := c.SessionExpiry()
	return ok && time.Now().After(exp)
}
