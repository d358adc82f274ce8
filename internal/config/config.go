// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Storage            string // store backend spec, see storage.NewPortfolioStore
	IgnoreCorrupt      bool   // start empty instead of refusing an unreadable store
	AlphaVantageKey    string
	AlphaVantageURL    string
	QuoteTimeout       time.Duration
	QuoteWorkers       int
	QuoteRatePerMinute int
	LogLevel           string
	LogPretty          bool
	APIAddr            string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	timeout, err := getEnvAsDuration("QUOTE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Storage:            getEnv("PORTFOLIO_STORAGE", "file:"+getEnv("PORTFOLIO_PATH", "portfolio.json")),
		IgnoreCorrupt:      getEnvAsBool("PORTFOLIO_IGNORE_CORRUPT", false),
		AlphaVantageKey:    getEnv("ALPHAVANTAGE_API_KEY", ""),
		AlphaVantageURL:    getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
		QuoteTimeout:       timeout,
		QuoteWorkers:       getEnvAsInt("QUOTE_WORKERS", 4),
		QuoteRatePerMinute: getEnvAsInt("QUOTE_RATE_PER_MINUTE", 75),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnvAsBool("LOG_PRETTY", true),
		APIAddr:            getEnv("API_ADDR", ":8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the numeric settings are usable.
func (c *Config) Validate() error {
	if c.QuoteTimeout <= 0 {
		return errors.New("QUOTE_TIMEOUT must be positive")
	}
	if c.QuoteWorkers <= 0 {
		return errors.New("QUOTE_WORKERS must be positive")
	}
	if c.QuoteRatePerMinute <= 0 {
		return errors.New("QUOTE_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// RequireAPIKey fails when no Alpha Vantage key is configured.
func (c *Config) RequireAPIKey() error {
	if c.AlphaVantageKey == "" {
		return errors.New("set ALPHAVANTAGE_API_KEY for this command")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
