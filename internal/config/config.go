package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrNoInput = errors.New("no input path configured")

// Config holds everything the process needs to run a session. Values come
// from an optional YAML file with command-line flags layered on top.
type Config struct {
	Input    string `yaml:"input"`  // Event stream to consume
	NBBO     string `yaml:"nbbo"`   // Top-of-book output path
	Trades   string `yaml:"trades"` // Trade log output path
	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		NBBO:     "nbbo.csv",
		Trades:   "trades.csv",
		LogLevel: "info",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	if cfg.Input == "" {
		return ErrNoInput
	}
	return nil
}
