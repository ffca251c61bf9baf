package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	StoragePath string
	Payment     PaymentConfig
	LogLevel    string
}

type PaymentConfig struct {
	BaseURL      string
	APIKey       string
	PollInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("STORAGE_PATH", "storefront.db")
	viper.SetDefault("PAYMENT_POLL_INTERVAL", "5s")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	pollInterval, err := time.ParseDuration(getEnvOrViper("PAYMENT_POLL_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_POLL_INTERVAL: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		StoragePath: getEnvOrViper("STORAGE_PATH", "storefront.db"),
		Payment: PaymentConfig{
			BaseURL:      getEnvOrViper("PAYMENT_BASE_URL", ""),
			APIKey:       getEnvOrViper("PAYMENT_API_KEY", ""),
			PollInterval: pollInterval,
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Payment.BaseURL == "" {
		return nil, fmt.Errorf("PAYMENT_BASE_URL is required")
	}
	if cfg.Payment.PollInterval <= 0 {
		return nil, fmt.Errorf("PAYMENT_POLL_INTERVAL must be positive")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
