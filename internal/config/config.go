// Package config loads gradelens configuration from defaults, an optional
// YAML file and GRADELENS_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/gradelens/internal/llm"
	"github.com/abhisek/gradelens/internal/logging"
	"github.com/abhisek/gradelens/internal/report"
)

// EnvConfigPath names the variable holding the config file path.
const EnvConfigPath = "GRADELENS_CONFIG"

// Config holds all application configuration.
type Config struct {
	// DB is the sqlite database path. Empty selects the default location.
	DB string `envconfig:"GRADELENS_DB" yaml:"db"`

	// Strict rejects invalid rows instead of keeping them.
	Strict bool `envconfig:"GRADELENS_STRICT" yaml:"strict"`

	// Parallel bounds how many input files are analyzed at once.
	Parallel int `envconfig:"GRADELENS_PARALLEL" yaml:"parallel"`

	// KeepRuns prunes persisted analysis runs beyond this count. Zero keeps
	// everything.
	KeepRuns int `envconfig:"GRADELENS_KEEP_RUNS" yaml:"keep_runs"`

	Log    LogConfig    `yaml:"log"`
	Report ReportConfig `yaml:"report"`
	LLM    llm.Config   `yaml:"llm"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"GRADELENS_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"GRADELENS_LOG_FORMAT" yaml:"format"`
}

// ReportConfig holds report settings.
type ReportConfig struct {
	Title     string `envconfig:"GRADELENS_REPORT_TITLE" yaml:"title"`
	MaxTokens int    `envconfig:"GRADELENS_REPORT_MAX_TOKENS" yaml:"max_tokens"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Parallel: 4,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Report: ReportConfig{
			Title:     report.DefaultTitle,
			MaxTokens: 1024,
		},
		LLM: llm.DefaultConfig(),
	}
}

// Load builds the configuration. An empty path falls back to
// $GRADELENS_CONFIG; no file at all is fine.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}
	if c.Parallel < 1 {
		errs = append(errs, "parallel must be at least 1")
	}
	if c.KeepRuns < 0 {
		errs = append(errs, "keep_runs must not be negative")
	}
	if c.Report.MaxTokens < 1 {
		errs = append(errs, "report max_tokens must be positive")
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, "llm timeout must not be negative")
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Logger builds the logger described by c.Log.
func (c *Config) Logger() *logging.Logger {
	return logging.New(c.Log.Level, c.Log.Format)
}
