package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	pkgerrors "kvvec/pkg/errors"
	"kvvec/pkg/logger"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDir         = "data"
	DefaultCapacity    = 16
	DefaultMaxCapacity = 1 << 24
	DefaultAddr        = ":8080"
	DefaultMode        = "release"
	WALSuffix          = ".wal"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// gin mode: debug, release or test
	Mode string `yaml:"mode"`
}

type Config struct {
	// Dir holds one WAL file per vector. Empty keeps everything in memory.
	Dir             string       `yaml:"dir"`
	DefaultCapacity int          `yaml:"default_capacity"`
	// MaxCapacity bounds the initial capacity a client may ask for.
	MaxCapacity     int          `yaml:"max_capacity"`
	LogLevel        string       `yaml:"log_level"`
	LogFile         string       `yaml:"log_file"`
	Server          ServerConfig `yaml:"server"`
}

// NewConfig returns the default config rooted at dir.
func NewConfig(dir string) (*Config, error) {
	conf := &Config{
		Dir:             dir,
		DefaultCapacity: DefaultCapacity,
		MaxCapacity:     DefaultMaxCapacity,
		LogLevel:        logger.InfoLevel,
		Server: ServerConfig{
			Addr: DefaultAddr,
			Mode: DefaultMode,
		},
	}
	return conf, conf.Validate()
}

// FromFile reads a yaml config file over the defaults. Without a dir key the
// WAL lives in DefaultDir; `dir: ""` keeps everything in memory.
func FromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	conf, err := NewConfig(DefaultDir)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if c.DefaultCapacity <= 0 {
		return fmt.Errorf("default_capacity %d: %w", c.DefaultCapacity, pkgerrors.ErrInvalidCapacity)
	}
	if c.MaxCapacity <= 0 || c.MaxCapacity > math.MaxInt32 {
		return fmt.Errorf("max_capacity %d: %w", c.MaxCapacity, pkgerrors.ErrInvalidCapacity)
	}
	if c.DefaultCapacity > c.MaxCapacity {
		return fmt.Errorf("default_capacity %d above max_capacity %d: %w",
			c.DefaultCapacity, c.MaxCapacity, pkgerrors.ErrInvalidCapacity)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrInvalidLogLevel, err)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q: must be debug, release or test", c.Server.Mode)
	}
	return nil
}

// WALPath returns the log file for the named vector.
func (c *Config) WALPath(name string) string {
	return filepath.Join(c.Dir, name+WALSuffix)
}

// Persistent reports whether vectors are backed by WAL files.
func (c *Config) Persistent() bool {
	return c.Dir != ""
}
