// Package config provides configuration management for the dashboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Trading    TradingConfig    `mapstructure:"trading"`
	Indicators IndicatorsConfig `mapstructure:"indicators"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	UI         UIConfig         `mapstructure:"ui"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// TradingConfig holds paper-trading configuration.
type TradingConfig struct {
	InitialBalance float64 `mapstructure:"initial_balance"`
}

// IndicatorsConfig holds default indicator parameters.
type IndicatorsConfig struct {
	MAShortPeriod int     `mapstructure:"ma_short_period"`
	MALongPeriod  int     `mapstructure:"ma_long_period"`
	RSIPeriod     int     `mapstructure:"rsi_period"`
	BBPeriod      int     `mapstructure:"bb_period"`
	BBStdDev      float64 `mapstructure:"bb_std_dev"`
}

// ProviderConfig holds market data provider configuration.
type ProviderConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	SeriesTTL time.Duration `mapstructure:"series_ttl"`
	QuoteTTL  time.Duration `mapstructure:"quote_ttl"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Console    bool   `mapstructure:"console"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/finboard"
	}
	return filepath.Join(home, ".config", "finboard")
}

// DefaultDBPath returns the default SQLite database path.
func DefaultDBPath() string {
	return filepath.Join(DefaultConfigDir(), "finboard.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: write a template, then proceed with defaults
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("trading.initial_balance", 100000.0)

	v.SetDefault("indicators.ma_short_period", 20)
	v.SetDefault("indicators.ma_long_period", 50)
	v.SetDefault("indicators.rsi_period", 14)
	v.SetDefault("indicators.bb_period", 20)
	v.SetDefault("indicators.bb_std_dev", 2.0)

	v.SetDefault("provider.timeout", "10s")
	v.SetDefault("provider.series_ttl", "1h")
	v.SetDefault("provider.quote_ttl", "1m")

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
	v.SetDefault("ui.time_format", "15:04:05")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.console", false)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Trading.InitialBalance <= 0 {
		return fmt.Errorf("initial_balance must be positive")
	}

	if c.Indicators.MAShortPeriod <= 0 || c.Indicators.MALongPeriod <= 0 {
		return fmt.Errorf("moving average periods must be positive")
	}
	if c.Indicators.RSIPeriod <= 0 {
		return fmt.Errorf("rsi_period must be positive")
	}
	if c.Indicators.BBPeriod <= 0 {
		return fmt.Errorf("bb_period must be positive")
	}
	if c.Indicators.BBStdDev <= 0 {
		return fmt.Errorf("bb_std_dev must be positive")
	}

	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive")
	}

	return nil
}
