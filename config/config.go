// Package config handles loading and managing application configuration
// from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openclaw/qrforge/render"
)

// History controls where generated items are remembered.
type History struct {
	Backend string `yaml:"backend"` // "memory" or "sqlite"
	Limit   int    `yaml:"limit"`
	DBPath  string `yaml:"db_path"`
}

// RenderDefaults are applied to requests that leave an option unset.
type RenderDefaults struct {
	BoxSize         int    `yaml:"box_size"`
	Border          int    `yaml:"border"`
	ErrorCorrection string `yaml:"error_correction"`
	FgColor         string `yaml:"fg_color"`
	BgColor         string `yaml:"bg_color"`
}

// Config holds all application configuration values.
type Config struct {
	Port         int            `yaml:"port"`
	DataDir      string         `yaml:"data_dir"`
	LogLevel     string         `yaml:"log_level"`
	LogFile      string         `yaml:"log_file"`
	FontPath     string         `yaml:"font_path"`
	WebhookURL   string         `yaml:"webhook_url"`
	MaxBodyBytes int64          `yaml:"max_body_bytes"`
	CacheTTL     Duration       `yaml:"cache_ttl"`
	History      History        `yaml:"history"`
	Defaults     RenderDefaults `yaml:"defaults"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults returns a Config populated with sensible default values.
func Defaults() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		Port:         5001,
		DataDir:      filepath.Join(homeDir, ".qrforge"),
		LogLevel:     "info",
		MaxBodyBytes: 8 << 20,
		CacheTTL:     Duration{10 * time.Minute},
		History: History{
			Backend: "memory",
			Limit:   10,
		},
		Defaults: RenderDefaults{
			BoxSize:         10,
			Border:          4,
			ErrorCorrection: "M",
			FgColor:         "#000000",
			BgColor:         "#FFFFFF",
		},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. Environment variables with the
// QRF_ prefix override any file or default values.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist, proceed with defaults.
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies QRF_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QRF_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("QRF_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("QRF_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QRF_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("QRF_FONT_PATH"); v != "" {
		cfg.FontPath = v
	}
	if v := os.Getenv("QRF_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("QRF_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheTTL = Duration{d}
		}
	}
	if v := os.Getenv("QRF_HISTORY_BACKEND"); v != "" {
		cfg.History.Backend = v
	}
	if v := os.Getenv("QRF_HISTORY_DB"); v != "" {
		cfg.History.DBPath = v
	}
}

// Validate reports configuration values that cannot be served.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.History.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown history backend %q", c.History.Backend)
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("history limit must be positive, got %d", c.History.Limit)
	}
	if err := c.RenderOptions().Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}

// RenderOptions returns the render defaults as options for new requests.
func (c *Config) RenderOptions() render.Options {
	o := render.DefaultOptions()
	o.BoxSize = c.Defaults.BoxSize
	o.Border = c.Defaults.Border
	o.ErrorCorrection = c.Defaults.ErrorCorrection
	o.FgColor = c.Defaults.FgColor
	o.BgColor = c.Defaults.BgColor
	return o
}

// HistoryDBPath returns the SQLite file used by the sqlite history backend.
func (c *Config) HistoryDBPath() string {
	if c.History.DBPath != "" {
		return c.History.DBPath
	}
	return filepath.Join(c.DataDir, "history.db")
}

// EnsureDataDir creates the DataDir if it does not already exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", c.DataDir, err)
	}
	return nil
}
