package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// DefaultCurrency is the currency applied to accounts created without one.
	DefaultCurrency string

	// AutoMatchDateToleranceDays bounds how far apart in days a bank
	// transaction and a candidate ledger posting may be for automatic matching.
	AutoMatchDateToleranceDays int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DEFAULT_CURRENCY", "USD")
	viper.SetDefault("AUTO_MATCH_DATE_TOLERANCE_DAYS", 3)

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")
	cfg.AutoMatchDateToleranceDays = viper.GetInt("AUTO_MATCH_DATE_TOLERANCE_DAYS")
	if cfg.AutoMatchDateToleranceDays <= 0 {
		log.Println("Warning: AUTO_MATCH_DATE_TOLERANCE_DAYS must be positive, falling back to 3.")
		cfg.AutoMatchDateToleranceDays = 3
	}

	return cfg, nil
}
