package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.BaseDir = parseString("CLIQUENET_BASE_DIR", cfg.BaseDir)
	cfg.ClientImage = parseString("CLIQUENET_CLIENT_IMAGE", cfg.ClientImage)
	cfg.ToolsImage = parseString("CLIQUENET_TOOLS_IMAGE", cfg.ToolsImage)
	cfg.DockerHost = parseString("DOCKER_HOST", cfg.DockerHost)
	cfg.BootnodeSettle = parseDuration("CLIQUENET_BOOTNODE_SETTLE", cfg.BootnodeSettle)
	cfg.NodeStartDelay = parseDuration("CLIQUENET_NODE_START_DELAY", cfg.NodeStartDelay)
	cfg.PullRetries = parseInt("CLIQUENET_PULL_RETRIES", cfg.PullRetries)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseDir == "" {
		errs = append(errs, errors.New("baseDir is required"))
	}
	if c.ClientImage == "" {
		errs = append(errs, errors.New("clientImage is required"))
	}
	if c.ToolsImage == "" {
		errs = append(errs, errors.New("toolsImage is required"))
	}
	if c.BootnodeSettle < 0 {
		errs = append(errs, fmt.Errorf("bootnodeSettle must not be negative, got %s", c.BootnodeSettle))
	}
	if c.NodeStartDelay < 0 {
		errs = append(errs, fmt.Errorf("nodeStartDelay must not be negative, got %s", c.NodeStartDelay))
	}
	if c.PullRetries < 0 {
		errs = append(errs, fmt.Errorf("pullRetries must not be negative, got %d", c.PullRetries))
	}
	return errors.Join(errs...)
}

// parseString returns the environment variable, or defaultVal when unset.
func parseString(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
