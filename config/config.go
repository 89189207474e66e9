package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxbook/trade"
)

// Config represents the complete trade-book configuration
type Config struct {
	Database   DatabaseConfig   `json:"database" yaml:"database"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
}

// DatabaseConfig locates the SQLite trade book
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text or json
}

// ValidationConfig holds the booking validation bounds. Amounts and
// rates are decimal strings so the file never goes through float64.
type ValidationConfig struct {
	MinTradeAmount     string   `json:"min_trade_amount" yaml:"min_trade_amount"`
	MaxTradeAmount     string   `json:"max_trade_amount" yaml:"max_trade_amount"`
	MinExchangeRate    string   `json:"min_exchange_rate" yaml:"min_exchange_rate"`
	MaxExchangeRate    string   `json:"max_exchange_rate" yaml:"max_exchange_rate"`
	AllowedCurrencies  []string `json:"allowed_currencies" yaml:"allowed_currencies"`
	MaxFutureDays      int      `json:"max_future_days" yaml:"max_future_days"`
	MaxPastDays        int      `json:"max_past_days" yaml:"max_past_days"`
	MaxValueDateOffset int      `json:"max_value_date_offset" yaml:"max_value_date_offset"`
}

// Limits converts the validation section into the domain limit set.
// Call Validate first; Limits assumes the decimal strings parse.
func (v ValidationConfig) Limits() (trade.Limits, error) {
	min, err := decimal.NewFromString(v.MinTradeAmount)
	if err != nil {
		return trade.Limits{}, fmt.Errorf("min_trade_amount: %w", err)
	}
	max, err := decimal.NewFromString(v.MaxTradeAmount)
	if err != nil {
		return trade.Limits{}, fmt.Errorf("max_trade_amount: %w", err)
	}
	minRate, err := decimal.NewFromString(v.MinExchangeRate)
	if err != nil {
		return trade.Limits{}, fmt.Errorf("min_exchange_rate: %w", err)
	}
	maxRate, err := decimal.NewFromString(v.MaxExchangeRate)
	if err != nil {
		return trade.Limits{}, fmt.Errorf("max_exchange_rate: %w", err)
	}
	return trade.Limits{
		MinTradeAmount:     min,
		MaxTradeAmount:     max,
		MinExchangeRate:    minRate,
		MaxExchangeRate:    maxRate,
		AllowedCurrencies:  v.AllowedCurrencies,
		MaxFutureDays:      v.MaxFutureDays,
		MaxPastDays:        v.MaxPastDays,
		MaxValueDateOffset: v.MaxValueDateOffset,
	}, nil
}

// LoadFromFile loads configuration from a file (YAML or JSON). Missing
// fields keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	limits, err := c.Validation.Limits()
	if err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	if limits.MinTradeAmount.Sign() <= 0 {
		return fmt.Errorf("validation.min_trade_amount must be positive")
	}
	if limits.MaxTradeAmount.Cmp(limits.MinTradeAmount) <= 0 {
		return fmt.Errorf("validation.max_trade_amount must exceed min_trade_amount")
	}
	if limits.MinExchangeRate.Sign() <= 0 {
		return fmt.Errorf("validation.min_exchange_rate must be positive")
	}
	if limits.MaxExchangeRate.Cmp(limits.MinExchangeRate) <= 0 {
		return fmt.Errorf("validation.max_exchange_rate must exceed min_exchange_rate")
	}
	if len(c.Validation.AllowedCurrencies) == 0 {
		return fmt.Errorf("validation.allowed_currencies must not be empty")
	}
	for _, code := range c.Validation.AllowedCurrencies {
		if len(code) != 3 {
			return fmt.Errorf("invalid currency code in allowed_currencies: %q", code)
		}
	}
	if c.Validation.MaxFutureDays < 0 {
		return fmt.Errorf("validation.max_future_days cannot be negative")
	}
	if c.Validation.MaxPastDays < 0 {
		return fmt.Errorf("validation.max_past_days cannot be negative")
	}
	if c.Validation.MaxValueDateOffset < 0 {
		return fmt.Errorf("validation.max_value_date_offset cannot be negative")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	limits := trade.DefaultLimits()
	return &Config{
		Database: DatabaseConfig{
			Path: "./fxbook.sqlite",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Validation: ValidationConfig{
			MinTradeAmount:     limits.MinTradeAmount.String(),
			MaxTradeAmount:     limits.MaxTradeAmount.String(),
			MinExchangeRate:    limits.MinExchangeRate.String(),
			MaxExchangeRate:    limits.MaxExchangeRate.String(),
			AllowedCurrencies:  limits.AllowedCurrencies,
			MaxFutureDays:      limits.MaxFutureDays,
			MaxPastDays:        limits.MaxPastDays,
			MaxValueDateOffset: limits.MaxValueDateOffset,
		},
	}
}
