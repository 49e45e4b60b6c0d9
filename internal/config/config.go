// Package config loads focusday configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the process-wide settings. The engine itself takes all of
// these as explicit constructor parameters; this package only exists so
// the CLI has one place to resolve them.
type Config struct {
	// DBPath is the SQLite database location
	DBPath string `mapstructure:"db_path"`

	// APIKey is the Anthropic API key; empty defers to ANTHROPIC_API_KEY
	APIKey string `mapstructure:"api_key"`

	// Model overrides the generation model
	Model string `mapstructure:"model"`

	// RequestTimeout bounds each advisory call
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// MaxConcurrentCalls caps in-flight advisory calls
	MaxConcurrentCalls int `mapstructure:"max_concurrent_calls"`

	// RequestsPerMinute caps the advisory request rate
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// Load reads focusday.yaml from the working directory or
// ~/.config/focusday, applying FOCUSDAY_* environment overrides.
// A missing config file is fine; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("focusday")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/focusday")

	v.SetDefault("db_path", ".focusday/focusday.db")
	v.SetDefault("request_timeout", 60*time.Second)
	v.SetDefault("max_concurrent_calls", 3)
	v.SetDefault("requests_per_minute", 30)

	v.SetEnvPrefix("FOCUSDAY")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}
