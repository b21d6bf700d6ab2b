// Package config loads proofdriver defaults from .proofdriver/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrison/proofdriver/internal/logger"
	"github.com/harrison/proofdriver/internal/models"
)

// Dir is the per-project configuration folder.
const Dir = ".proofdriver"

// PlaybackConfig holds defaults for the playback commands.
type PlaybackConfig struct {
	// TestArgs are prepended to the test arguments given on the command line
	TestArgs []string `yaml:"test_args"`
}

// Config represents proofdriver configuration options
type Config struct {
	// HarnessTimeout bounds each harness run (0 = no timeout)
	HarnessTimeout time.Duration `yaml:"harness_timeout"`

	// KeepTemps leaves scratch files behind after a run
	KeepTemps bool `yaml:"keep_temps"`

	// MessageFormat selects how results are reported (human, json)
	MessageFormat models.MessageFormat `yaml:"message_format"`

	// Solver is passed through to the checker verbatim
	Solver string `yaml:"solver"`

	// LogFilter is used when PROOFDRIVER_LOG is unset
	LogFilter string `yaml:"log_filter"`

	// Playback contains playback defaults
	Playback PlaybackConfig `yaml:"playback"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		HarnessTimeout: 0, // No timeout
		KeepTemps:      false,
		MessageFormat:  models.MessageFormatHuman,
		Solver:         "",
		LogFilter:      "",
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are written as strings ("90s", "5m")
	type yamlConfig struct {
		HarnessTimeout string         `yaml:"harness_timeout"`
		KeepTemps      bool           `yaml:"keep_temps"`
		MessageFormat  string         `yaml:"message_format"`
		Solver         string         `yaml:"solver"`
		LogFilter      string         `yaml:"log_filter"`
		Playback       PlaybackConfig `yaml:"playback"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.HarnessTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.HarnessTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid harness_timeout format %q: %w", yamlCfg.HarnessTimeout, err)
		}
		cfg.HarnessTimeout = timeout
	}
	if yamlCfg.MessageFormat != "" {
		format, err := models.ParseMessageFormat(yamlCfg.MessageFormat)
		if err != nil {
			return nil, err
		}
		cfg.MessageFormat = format
	}
	if yamlCfg.Solver != "" {
		cfg.Solver = yamlCfg.Solver
	}
	if yamlCfg.LogFilter != "" {
		cfg.LogFilter = yamlCfg.LogFilter
	}

	// keep_temps is applied whenever the key is present, so a file can
	// switch it off explicitly.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if _, exists := rawMap["keep_temps"]; exists {
			cfg.KeepTemps = yamlCfg.KeepTemps
		}
	}

	if len(yamlCfg.Playback.TestArgs) > 0 {
		cfg.Playback.TestArgs = yamlCfg.Playback.TestArgs
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .proofdriver/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, Dir, "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(harnessTimeout *time.Duration, keepTemps *bool, messageFormat *models.MessageFormat, solver *string) {
	if harnessTimeout != nil {
		c.HarnessTimeout = *harnessTimeout
	}
	if keepTemps != nil {
		c.KeepTemps = *keepTemps
	}
	if messageFormat != nil {
		c.MessageFormat = *messageFormat
	}
	if solver != nil {
		c.Solver = *solver
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	// Timeout can be 0 (no timeout) or positive, negative is invalid
	if c.HarnessTimeout < 0 {
		return fmt.Errorf("harness_timeout must be >= 0, got %v", c.HarnessTimeout)
	}

	switch c.MessageFormat {
	case models.MessageFormatHuman, models.MessageFormatJSON:
	default:
		return fmt.Errorf("invalid message_format %q, must be one of: human, json", c.MessageFormat)
	}

	if c.LogFilter != "" {
		if _, err := logger.ParseFilter(c.LogFilter, false); err != nil {
			return fmt.Errorf("invalid log_filter: %w", err)
		}
	}

	return nil
}
