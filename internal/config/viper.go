// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"gastos-csv/internal/logging"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Enrich struct {
		Enabled          bool   `mapstructure:"enabled" yaml:"enabled"`
		RateLimitSeconds int    `mapstructure:"rate_limit_seconds" yaml:"rate_limit_seconds"`
		TimeoutSeconds   int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		BaseURL          string `mapstructure:"base_url" yaml:"base_url"`
	} `mapstructure:"enrich" yaml:"enrich"`

	Rubros struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rubros" yaml:"rubros"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then GASTOS_-prefixed environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.gastos-csv")
	v.AddConfigPath(".gastos-csv")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GASTOS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("enrich.enabled", true)
	v.SetDefault("enrich.rate_limit_seconds", 1)
	v.SetDefault("enrich.timeout_seconds", 20)
	v.SetDefault("enrich.base_url", "")

	v.SetDefault("rubros.file", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Enrich.RateLimitSeconds < 0 {
		return fmt.Errorf("enrich.rate_limit_seconds must not be negative, got: %d", config.Enrich.RateLimitSeconds)
	}

	if config.Enrich.TimeoutSeconds < 1 || config.Enrich.TimeoutSeconds > 300 {
		return fmt.Errorf("enrich.timeout_seconds must be between 1 and 300, got: %d", config.Enrich.TimeoutSeconds)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
