package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	// DBConnStr is the full postgres connection string; when empty it is
	// assembled from the individual DB_* variables
	DBConnStr string

	// APIToken guards mutating API endpoints
	APIToken string

	// Upstream provider settings
	BinanceURL     string
	CoinAPIURL     string
	CoinAPIKey     string
	FrankfurterURL string

	// WarmerEnabled toggles the background rate warmer job
	WarmerEnabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnvAsInt("PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		DBConnStr:      getEnv("DB_CONN_STR", ""),
		APIToken:       getEnv("API_TOKEN", "dev-token"),
		BinanceURL:     getEnv("BINANCE_URL", ""),
		CoinAPIURL:     getEnv("COINAPI_URL", ""),
		CoinAPIKey:     getEnv("COINAPI_KEY", ""),
		FrankfurterURL: getEnv("FRANKFURTER_URL", ""),
		WarmerEnabled:  getEnvAsBool("WARMER_ENABLED", true),
	}

	if cfg.DBConnStr == "" {
		// Build the connection string from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "hindsight"),
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.CoinAPIKey == "" {
		return fmt.Errorf("COINAPI_KEY is required")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
