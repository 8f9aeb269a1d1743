package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vishal3152/port-api/internal/secrets"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Ledger   LedgerConfig
	Quotes   QuotesConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LedgerConfig holds projection behavior configuration.
type LedgerConfig struct {
	// OversellPolicy is "close" (a sell beyond the held quantity closes the
	// position, the source system's behavior) or "reject" (such a sell fails
	// with no state change).
	OversellPolicy string
}

// QuotesConfig holds quote provider configuration.
type QuotesConfig struct {
	// APIKey is the decrypted provider API key; empty when the provider
	// needs none.
	APIKey string
	// PriceFreshness is the maximum age of a cached price before refetch.
	PriceFreshness time.Duration
	// RateFreshness is the maximum age of a cached FX rate before refetch.
	RateFreshness time.Duration
	// RefreshSchedule is the cron spec for the background price refresher.
	RefreshSchedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	priceFreshness, err := getDurationEnv("PRICE_FRESHNESS", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	rateFreshness, err := getDurationEnv("RATE_FRESHNESS", time.Hour)
	if err != nil {
		return nil, err
	}

	apiKey, err := loadProviderAPIKey()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Ledger: LedgerConfig{
			OversellPolicy: getEnv("OVERSELL_POLICY", "close"),
		},
		Quotes: QuotesConfig{
			APIKey:          apiKey,
			PriceFreshness:  priceFreshness,
			RateFreshness:   rateFreshness,
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 5m"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// loadProviderAPIKey decrypts PROVIDER_API_KEY with SECRET_KEY. The key is
// stored as a fernet token so .env files never hold plaintext credentials.
// Both variables absent means the provider needs no key.
func loadProviderAPIKey() (string, error) {
	token := os.Getenv("PROVIDER_API_KEY")
	if token == "" {
		return "", nil
	}

	secretKey := os.Getenv("SECRET_KEY")
	if secretKey == "" {
		return "", fmt.Errorf("PROVIDER_API_KEY is set but SECRET_KEY is missing")
	}

	apiKey, err := secrets.Decrypt(secretKey, token)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt PROVIDER_API_KEY: %w", err)
	}

	return apiKey, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}
