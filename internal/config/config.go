package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"knower/internal/logging"
	"knower/internal/prover"
)

// Config holds all knower configuration.
type Config struct {
	// Search settings
	Prover prover.Config `yaml:"prover"`

	// Batch settings
	Batch BatchConfig `yaml:"batch"`

	// Logging
	Logging logging.Settings `yaml:"logging"`
}

// BatchConfig configures concurrent problem-file runs.
type BatchConfig struct {
	// Workers caps concurrent goals; <= 0 means one worker per goal.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Prover: prover.DefaultConfig(),
		Batch: BatchConfig{
			Workers: 4,
		},
		Logging: logging.Settings{
			Level: "info",
			Dir:   "logs",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KNOWER_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Prover.InitialDepth = n
		}
	}
	if v := os.Getenv("KNOWER_MAX_RESTARTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Prover.MaxRestarts = n
		}
	}
	if v := os.Getenv("KNOWER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KNOWER_LOG_DIR"); v != "" {
		c.Logging.Dir = v
	}
}

// Validate checks settings the rest of the system assumes.
func (c *Config) Validate() error {
	if c.Prover.InitialDepth <= 0 {
		return fmt.Errorf("prover.initial_depth must be positive, got %d", c.Prover.InitialDepth)
	}
	if c.Prover.DepthIncrement <= 0 {
		return fmt.Errorf("prover.depth_increment must be positive, got %d", c.Prover.DepthIncrement)
	}
	if c.Prover.MaxRestarts < 0 {
		return fmt.Errorf("prover.max_restarts must not be negative, got %d", c.Prover.MaxRestarts)
	}
	return nil
}

// DefaultPath returns the config path knower looks at when none is given.
func DefaultPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "knower.yaml"
	}
	return filepath.Join(cwd, "knower.yaml")
}
