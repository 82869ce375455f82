package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config carries all runtime settings for the client.
type Config struct {
	APIBaseURL   string        `mapstructure:"API_BASE_URL"`
	APITimeout   time.Duration `mapstructure:"API_TIMEOUT"`
	ServiceName  string        `mapstructure:"SERVICE_NAME"`
	Environment  string        `mapstructure:"ENVIRONMENT"`
	OTLPEndpoint string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	StorePath    string        `mapstructure:"SECURE_STORE_PATH"`
	StoreKeyHex  string        `mapstructure:"SECURE_STORE_KEY"`
}

// Load reads configuration from the environment, falling back to defaults.
// An optional .env file in the working directory is honored when present.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("API_BASE_URL", "http://api.stevenpatino.dev")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("SERVICE_NAME", "storefront-client")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("SECURE_STORE_PATH", "storefront.store")
	v.SetDefault("SECURE_STORE_KEY", "")

	// A missing .env is fine; a malformed one is not.
	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading .env: %w", err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// StoreKey decodes the hex-encoded secure store key. Returns nil when no key
// is configured, in which case persistence is disabled.
func (c *Config) StoreKey() ([]byte, error) {
	if c.StoreKeyHex == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.StoreKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decoding SECURE_STORE_KEY: %w", err)
	}
	return key, nil
}
