// Package config loads workspace configuration from .dotlaunch/config.yaml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Dir is the workspace dot-directory all dotlaunch files live under.
const Dir = ".dotlaunch"

// FileName is the configuration file name inside Dir.
const FileName = "config.yaml"

// Config holds all dotlaunch configuration.
type Config struct {
	// Tool settings for the dotnet CLI.
	Tool ToolConfig `yaml:"tool"`

	// Launch defaults.
	Launch LaunchConfig `yaml:"launch"`

	// Watch mode settings.
	Watch WatchConfig `yaml:"watch"`

	// Logging.
	Logging LoggingConfig `yaml:"logging"`
}

// ToolConfig configures build-tool invocations.
type ToolConfig struct {
	// Path is the CLI binary name or absolute path.
	Path string `yaml:"path"`
	// QueryTimeout bounds property queries.
	QueryTimeout string `yaml:"query_timeout"`
	// BuildTimeout bounds full builds.
	BuildTimeout string `yaml:"build_timeout"`
}

// LaunchConfig configures descriptor assembly.
type LaunchConfig struct {
	// Configuration is the default build configuration.
	Configuration string `yaml:"configuration"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce delays re-resolution until file events settle.
	Debounce string `yaml:"debounce"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Tool: ToolConfig{
			Path:         "dotnet",
			QueryTimeout: "15s",
			BuildTimeout: "120s",
		},
		Launch: LaunchConfig{
			Configuration: "Debug",
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the conventional config location under a workspace
// root.
func DefaultPath(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; a present file overlays them.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to read config: %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config: %s", path)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration, creating the dot-directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config: %s", path)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if tool := os.Getenv("DOTLAUNCH_TOOL"); tool != "" {
		c.Tool.Path = tool
	}
	if configuration := os.Getenv("DOTLAUNCH_CONFIGURATION"); configuration != "" {
		c.Launch.Configuration = configuration
	}
	if level := os.Getenv("DOTLAUNCH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// QueryTimeout parses the configured query timeout, falling back to the
// default on a bad value.
func (c *Config) QueryTimeout() time.Duration {
	return duration(c.Tool.QueryTimeout, 15*time.Second)
}

// BuildTimeout parses the configured build timeout.
func (c *Config) BuildTimeout() time.Duration {
	return duration(c.Tool.BuildTimeout, 120*time.Second)
}

// WatchDebounce parses the configured watch debounce.
func (c *Config) WatchDebounce() time.Duration {
	return duration(c.Watch.Debounce, 500*time.Millisecond)
}

func duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
