// ABOUTME: Runtime configuration from defaults, an optional config file, .env files and env vars.
// ABOUTME: Env vars use the JOURNAL_ prefix; the AI key also reads GEMINI_API_KEY.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harper/journal/internal/db"
)

type Config struct {
	DBPath            string  `mapstructure:"db_path"`
	LogLevel          string  `mapstructure:"log_level"`
	LogFormat         string  `mapstructure:"log_format"`
	LogFile           string  `mapstructure:"log_file"`
	AIBaseURL         string  `mapstructure:"ai_base_url"`
	AIModel           string  `mapstructure:"ai_model"`
	AITemperature     float64 `mapstructure:"ai_temperature"`
	AIMaxOutputTokens int     `mapstructure:"ai_max_output_tokens"`
	AIMaxAttempts     int     `mapstructure:"ai_max_attempts"`
	AIRatePerMinute   int     `mapstructure:"ai_rate_per_minute"`
	AIAPIKey          string  `mapstructure:"ai_api_key"`
	DateFormat        string  `mapstructure:"date_format"`
	SeedOnStart       bool    `mapstructure:"seed_on_start"`
}

var defaults = map[string]any{
	"db_path":              "",
	"log_level":            "warn",
	"log_format":           "console",
	"log_file":             "",
	"ai_base_url":          "https://generativelanguage.googleapis.com",
	"ai_model":             "gemini-2.0-flash",
	"ai_temperature":       0.7,
	"ai_max_output_tokens": 1024,
	"ai_max_attempts":      3,
	"ai_rate_per_minute":   0,
	"ai_api_key":           "",
	"date_format":          db.DefaultDateLayout,
	"seed_on_start":        false,
}

// Load reads configuration using the default file locations.
func Load() (*Config, error) {
	dir := ConfigDir()
	return LoadFrom(
		filepath.Join(dir, "config.yaml"),
		".env",
		filepath.Join(dir, ".env"),
	)
}

// LoadFrom reads the given config file (skipped when missing) after loading
// the given .env files into the environment. Variables already set in the
// environment are never overridden by .env files.
func LoadFrom(configFile string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("JOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ai_api_key", "JOURNAL_AI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind api key: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", configFile, err)
			}
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = db.DefaultPath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations. A missing API key is allowed.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q must be debug, info, warn or error", c.LogLevel))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q must be console or json", c.LogFormat))
	}
	if c.AITemperature < 0 || c.AITemperature > 2 {
		errs = append(errs, fmt.Errorf("ai_temperature %v must be between 0 and 2", c.AITemperature))
	}
	if c.AIMaxOutputTokens <= 0 {
		errs = append(errs, errors.New("ai_max_output_tokens must be positive"))
	}
	if c.AIMaxAttempts < 1 {
		errs = append(errs, errors.New("ai_max_attempts must be at least 1"))
	}
	if c.AIRatePerMinute < 0 {
		errs = append(errs, errors.New("ai_rate_per_minute must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.AIAPIKey) != ""
}

// ConfigDir returns $XDG_CONFIG_HOME/journal.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "journal")
}
