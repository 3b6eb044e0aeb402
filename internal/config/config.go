// Package config provides configuration management for the app.
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
	Market    MarketConfig    `mapstructure:"market"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Quotes    QuotesConfig    `mapstructure:"quotes"`
	Funds     FundsConfig     `mapstructure:"funds"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	UI        UIConfig        `mapstructure:"ui"`
}

// MarketConfig tunes the market refresh loop.
type MarketConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	SimInterval     time.Duration `mapstructure:"sim_interval"`
	StatusInterval  time.Duration `mapstructure:"status_interval"`
	FetchCooldown   time.Duration `mapstructure:"fetch_cooldown"`
}

// SimulatorConfig tunes the random-walk fallback.
type SimulatorConfig struct {
	DownThreshold     float64            `mapstructure:"down_threshold"`
	DefaultVolatility float64            `mapstructure:"default_volatility"`
	IndexVolatility   float64            `mapstructure:"index_volatility"`
	Tiers             map[string]float64 `mapstructure:"tiers"`
}

// QuotesConfig holds broker quote API credentials. Values stored in the
// settings database take precedence over this file.
type QuotesConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AccessToken string `mapstructure:"access_token"`
	APIKey      string `mapstructure:"api_key"`
	APISecret   string `mapstructure:"api_secret"`
}

// FundsConfig holds the demo account funds settings.
type FundsConfig struct {
	OpeningBalance float64 `mapstructure:"opening_balance"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// UIConfig holds output settings.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradeview"
	}
	return filepath.Join(home, ".config", "tradeview")
}

// DatabasePath returns the settings database location under configDir.
func DatabasePath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "settings.db")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Market: MarketConfig{
			RefreshInterval: 8 * time.Second,
			SimInterval:     time.Second,
			StatusInterval:  30 * time.Second,
			FetchCooldown:   5 * time.Second,
		},
		Simulator: SimulatorConfig{
			DownThreshold:     0.48,
			DefaultVolatility: 0.002,
			IndexVolatility:   0.0015,
			Tiers: map[string]float64{
				"ADANIENT":   0.004,
				"TATAMOTORS": 0.004,
				"RELIANCE":   0.003,
				"BHARTIARTL": 0.003,
				"SBIN":       0.003,
			},
		},
		Funds: FundsConfig{OpeningBalance: 125000.00},
		Logging: LoggingConfig{
			Level:      "info",
			Console:    true,
			File:       true,
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "02-Jan-2006",
			TimeFormat:   "15:04:05",
		},
	}
}

// Load reads configuration from the specified directory. When the file does
// not exist yet a commented template is written and the defaults are used;
// missing config is never fatal.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: drop a template for the user to edit later.
			_ = createTemplateConfig(configDir)
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config.toml: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("market.refresh_interval", cfg.Market.RefreshInterval)
	v.SetDefault("market.sim_interval", cfg.Market.SimInterval)
	v.SetDefault("market.status_interval", cfg.Market.StatusInterval)
	v.SetDefault("market.fetch_cooldown", cfg.Market.FetchCooldown)
	v.SetDefault("simulator.down_threshold", cfg.Simulator.DownThreshold)
	v.SetDefault("simulator.default_volatility", cfg.Simulator.DefaultVolatility)
	v.SetDefault("simulator.index_volatility", cfg.Simulator.IndexVolatility)
	v.SetDefault("funds.opening_balance", cfg.Funds.OpeningBalance)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", cfg.Logging.MaxAgeDays)
	v.SetDefault("ui.color_enabled", cfg.UI.ColorEnabled)
	v.SetDefault("ui.date_format", cfg.UI.DateFormat)
	v.SetDefault("ui.time_format", cfg.UI.TimeFormat)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADEVIEW_QUOTE_BASE_URL"); v != "" {
		cfg.Quotes.BaseURL = v
	}
	if v := os.Getenv("TRADEVIEW_QUOTE_ACCESS_TOKEN"); v != "" {
		cfg.Quotes.AccessToken = v
	}
	if v := os.Getenv("TRADEVIEW_QUOTE_API_KEY"); v != "" {
		cfg.Quotes.APIKey = v
	}
	if v := os.Getenv("TRADEVIEW_QUOTE_API_SECRET"); v != "" {
		cfg.Quotes.APISecret = v
	}
	if v := os.Getenv("TRADEVIEW_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Market.RefreshInterval <= 0 {
		return fmt.Errorf("market.refresh_interval must be positive")
	}
	if c.Market.SimInterval <= 0 {
		return fmt.Errorf("market.sim_interval must be positive")
	}
	if c.Market.FetchCooldown < 0 {
		return fmt.Errorf("market.fetch_cooldown must be non-negative")
	}
	if c.Simulator.DownThreshold < 0 || c.Simulator.DownThreshold > 1 {
		return fmt.Errorf("simulator.down_threshold must be between 0 and 1")
	}
	if c.Simulator.DefaultVolatility < 0 || c.Simulator.DefaultVolatility > 0.5 {
		return fmt.Errorf("simulator.default_volatility must be between 0 and 0.5")
	}
	if c.Funds.OpeningBalance < 0 {
		return fmt.Errorf("funds.opening_balance must be non-negative")
	}
	return nil
}
