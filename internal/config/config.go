// Package config loads rotkit settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// ROTKIT_* environment variables. Command-line flags are applied on top by
// the CLI. A .env file can be auto-loaded by importing:
// _ "github.com/joho/godotenv/autoload"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nmr-relax/rotkit/internal/model"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// AutoPort falls back to a free port when Port is taken.
	AutoPort bool `yaml:"autoPort"`

	// PortRange is how many ports above Port are tried with AutoPort.
	PortRange int `yaml:"portRange"`
}

// Config is the centralized configuration struct for rotkit.
type Config struct {
	// Order is the default Euler convention.
	Order string `yaml:"order"`

	// Precision is the number of decimal places in human output.
	Precision int `yaml:"precision"`

	// QueueSize is the capacity of the interpreter queue.
	QueueSize int `yaml:"queueSize"`

	// Seed makes random output reproducible. Nil means a fresh seed.
	Seed *uint64 `yaml:"seed,omitempty"`

	Server ServerConfig `yaml:"server"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Order:     model.OrderZYZ.String(),
		Precision: 6,
		QueueSize: 1000,
		Server: ServerConfig{
			Host:      "127.0.0.1",
			Port:      8080,
			PortRange: 100,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/rotkit/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "rotkit", "config.yaml")
}

// Load builds the configuration from defaults, the YAML file at path and
// the environment.
//
// An empty path means DefaultPath, which may be missing. An explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config at %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// No config file is fine.
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from ROTKIT_* variables. Values that fail to
// parse are ignored.
func (c *Config) applyEnv() {
	c.Order = getEnv("ROTKIT_ORDER", c.Order)
	c.Precision = getEnvInt("ROTKIT_PRECISION", c.Precision)
	c.QueueSize = getEnvInt("ROTKIT_QUEUE_SIZE", c.QueueSize)
	c.Seed = getEnvUint64("ROTKIT_SEED", c.Seed)
	c.Server.Host = getEnv("ROTKIT_HOST", c.Server.Host)
	c.Server.Port = getEnvInt("ROTKIT_PORT", c.Server.Port)
	c.Server.AutoPort = getEnvBool("ROTKIT_AUTO_PORT", c.Server.AutoPort)
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := model.ParseEulerOrder(c.Order); err != nil {
		return fmt.Errorf("config order: %w", err)
	}
	if c.Precision < 0 || c.Precision > 17 {
		return fmt.Errorf("config precision must be between 0 and 17, got %d", c.Precision)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("config queueSize must be positive, got %d", c.QueueSize)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config server.port out of range: %d", c.Server.Port)
	}
	if c.Server.PortRange < 0 {
		return fmt.Errorf("config server.portRange must not be negative, got %d", c.Server.PortRange)
	}
	return nil
}

// EulerOrder returns the parsed default Euler convention.
// Call only on a validated Config.
func (c *Config) EulerOrder() model.EulerOrder {
	order, err := model.ParseEulerOrder(c.Order)
	if err != nil {
		return model.OrderZYZ
	}
	return order
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvUint64(key string, def *uint64) *uint64 {
	if v := os.Getenv(key); v != "" {
		u, err := strconv.ParseUint(v, 10, 64)
		if err == nil {
			return &u
		}
	}
	return def
}
