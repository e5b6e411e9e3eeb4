package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the udgram tool configuration.
type Config struct {
	Socket  SocketConfig  `yaml:"socket"`
	Logging LoggingConfig `yaml:"logging"`
}

// SocketConfig configures the default endpoint behavior.
type SocketConfig struct {
	// Path is the default socket path used when --path is not given.
	Path string `yaml:"path"`

	// Timeout is the default receive wait, e.g. "5s". Empty means block
	// forever.
	Timeout string `yaml:"timeout"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config file and merges it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	if c.Socket.Timeout != "" {
		if _, err := time.ParseDuration(c.Socket.Timeout); err != nil {
			return fmt.Errorf("invalid socket.timeout %q: %w", c.Socket.Timeout, err)
		}
	}
	return nil
}

// ReceiveTimeout parses the configured receive wait. A zero duration means
// block forever.
func (c *Config) ReceiveTimeout() (time.Duration, error) {
	if c.Socket.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Socket.Timeout)
}

// SlogLevel maps the configured level onto slog's scale.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger per the logging section, writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
