// Package config provides YAML-based configuration loading for ganttpro.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPaddingDays is the time-domain padding applied on each side.
const DefaultPaddingDays = 3.0

// Config is the top-level configuration, loaded from ganttpro.yaml.
type Config struct {
	Input         InputConfig         `yaml:"input"`
	Relationships RelationshipsConfig `yaml:"relationships"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Domain        DomainConfig        `yaml:"domain"`
	Log           LogConfig           `yaml:"log"`
	Server        ServerConfig        `yaml:"server"`
}

// InputConfig locates the workbook.
type InputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // json or sqlite; inferred from the extension when empty
}

// RelationshipsConfig overrides the sheet and header preferences used when
// extracting precedence logic.
type RelationshipsConfig struct {
	Sheets            []string `yaml:"sheets"`
	PredecessorFields []string `yaml:"predecessor_fields"`
}

// ScheduleConfig holds solver settings.
type ScheduleConfig struct {
	Epoch string `yaml:"epoch"` // YYYY-MM-DD; earliest baseline start when empty
}

// DomainConfig controls the chart time domain.
type DomainConfig struct {
	PaddingDays *float64 `yaml:"padding_days"`
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig holds viewer settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in default values.
func (c *Config) applyDefaults() {
	if c.Domain.PaddingDays == nil {
		p := DefaultPaddingDays
		c.Domain.PaddingDays = &p
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":7171"
	}
}

// Validate checks that all fields are consistent.
func (c *Config) Validate() error {
	var errs []string
	switch c.Input.Format {
	case "", "json", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("input.format %q must be json or sqlite", c.Input.Format))
	}
	if c.Schedule.Epoch != "" {
		if _, err := time.Parse("2006-01-02", c.Schedule.Epoch); err != nil {
			errs = append(errs, fmt.Sprintf("schedule.epoch %q must be YYYY-MM-DD", c.Schedule.Epoch))
		}
	}
	if c.Domain.PaddingDays != nil && *c.Domain.PaddingDays < 0 {
		errs = append(errs, "domain.padding_days must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Epoch returns the configured fixed epoch, if any.
func (c *Config) Epoch() (time.Time, bool) {
	if c.Schedule.Epoch == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", c.Schedule.Epoch)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Padding returns the domain padding in days.
func (c *Config) Padding() float64 {
	if c.Domain.PaddingDays == nil {
		return DefaultPaddingDays
	}
	return *c.Domain.PaddingDays
}
