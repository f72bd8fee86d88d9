// Package config loads the go-shelllink configuration with viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-shelllink/internal/logger"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink"
)

// Config holds the settings shared by every command
type Config struct {
	CodePage     string     `mapstructure:"code_page"`
	MaxInputSize int64      `mapstructure:"max_input_size"`
	Output       string     `mapstructure:"output"`
	Log          LogConfig  `mapstructure:"log"`
	Scan         ScanConfig `mapstructure:"scan"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Debug  bool   `mapstructure:"debug"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// ScanConfig configures the scan command
type ScanConfig struct {
	Extensions      []string      `mapstructure:"extensions"`
	ContinueOnError bool          `mapstructure:"continue_on_error"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// Logger converts the log section into a logger configuration.
func (c LogConfig) Logger() logger.Config {
	return logger.Config{Debug: c.Debug, Format: c.Format, File: c.File}
}

// Load reads the configuration from path, or from shelllink.yaml in the
// usual search paths when path is empty. A missing file is not an error;
// SHELLLINK_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("shelllink")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.shelllink")
		v.AddConfigPath("/etc/shelllink")
	}

	setDefaults(v)

	v.SetEnvPrefix("SHELLLINK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("code_page", "utf-8")
	v.SetDefault("max_input_size", shelllink.DefaultMaxSize)
	v.SetDefault("output", "table")
	v.SetDefault("log.debug", false)
	v.SetDefault("log.format", logger.FormatHuman)
	v.SetDefault("log.file", "")
	v.SetDefault("scan.extensions", []string{".lnk"})
	v.SetDefault("scan.continue_on_error", true)
	v.SetDefault("scan.timeout", 5*time.Minute)
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if c.MaxInputSize <= 0 {
		return fmt.Errorf("max_input_size must be positive, got %d", c.MaxInputSize)
	}
	if c.Scan.Timeout < 0 {
		return fmt.Errorf("scan.timeout must not be negative, got %v", c.Scan.Timeout)
	}
	switch c.Log.Format {
	case logger.FormatHuman, logger.FormatJSON:
	default:
		return fmt.Errorf("unsupported log format: %s", c.Log.Format)
	}
	return nil
}
