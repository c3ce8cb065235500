package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dyluth/lineage/pkg/calendar"
)

// DefaultPath is the file name looked up when no --config flag is given.
const DefaultPath = "lineage.yml"

// LineageConfig represents the top-level lineage.yml configuration
type LineageConfig struct {
	Version string         `yaml:"version"`
	Redis   *RedisConfig   `yaml:"redis,omitempty"`
	Display *DisplayConfig `yaml:"display,omitempty"`
	Log     *LogConfig     `yaml:"log,omitempty"`
}

// RedisConfig specifies where shared trees are stored
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db,omitempty"`
	Namespace string `yaml:"namespace,omitempty"` // Key prefix segment, default "default"
}

// DisplayConfig controls how dates are rendered
type DisplayConfig struct {
	Calendar string `yaml:"calendar,omitempty"` // Calendar dates are converted to, empty = as recorded
	UseISO   bool   `yaml:"use_iso,omitempty"`  // Show the canonical Gregorian date instead
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // logrus level name, default "warning"
}

// Default returns the configuration used when no lineage.yml exists.
func Default() *LineageConfig {
	c := &LineageConfig{Version: "1.0"}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

// Validate performs strict validation on the configuration and fills in defaults
func (c *LineageConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.Namespace == "" {
		c.Redis.Namespace = "default"
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if c.Display == nil {
		c.Display = &DisplayConfig{}
	}
	if c.Display.Calendar != "" {
		if _, err := calendar.ForName(c.Display.Calendar); err != nil {
			return fmt.Errorf("display.calendar: %w", err)
		}
		if c.Display.UseISO {
			return fmt.Errorf("display.calendar and display.use_iso are mutually exclusive")
		}
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "warning"
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %s", c.Log.Level)
	}

	return nil
}

// DisplayCalendar returns the calendar dates should be shown in, or false
// when they are shown as recorded.
func (c *LineageConfig) DisplayCalendar() (calendar.Calendar, bool) {
	if c.Display == nil {
		return 0, false
	}
	if c.Display.UseISO {
		return calendar.Gregorian, true
	}
	if c.Display.Calendar == "" {
		return 0, false
	}
	cal, err := calendar.ForName(c.Display.Calendar)
	if err != nil {
		return 0, false
	}
	return cal, true
}

// Load reads and validates lineage.yml from the specified path
func Load(path string) (*LineageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config LineageConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault behaves like Load but returns Default when path does not exist.
func LoadOrDefault(path string) (*LineageConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes config to path as YAML.
func Save(path string, config *LineageConfig) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
