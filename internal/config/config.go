// Package config loads bookkeeper settings from defaults, an optional YAML
// file, BOOKKEEPER_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "BOOKKEEPER"

// Config holds all runtime settings.
type Config struct {
	DataFile  string          `mapstructure:"data_file"`
	MaxYear   int             `mapstructure:"max_year"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level    string `mapstructure:"level"`     // debug, info, warn, error
	File     string `mapstructure:"file"`      // empty logs to stderr
	MaxSize  int    `mapstructure:"max_size"`  // MB
	MaxFiles int    `mapstructure:"max_files"` // rotated files kept
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	Endpoint    string `mapstructure:"endpoint"` // OTLP/HTTP host:port, empty disables export
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("data_file", "books.json")
	v.SetDefault("max_year", 2024)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_files", 5)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.service_name", "bookkeeper")
	v.SetDefault("telemetry.insecure", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads cfgFile, if given, into v and decodes the result.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable fallback.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("data_file must not be empty"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}
