package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// ProfitRunInterval is how often the background runner sweeps investors
	// for quarterly profit accrual and sends due reminders.
	ProfitRunInterval time.Duration

	// ReminderDays is how many days ahead of the due date borrowers are
	// reminded.
	ReminderDays int

	// RateLimit is the request rate per client IP, in ulule/limiter format
	// (e.g. "100-M" for 100 requests per minute).
	RateLimit string

	// CORSAllowedOrigins lists the origins allowed to call the API.
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("PROFIT_RUN_INTERVAL", "24h")
	viper.SetDefault("REMINDER_DAYS", 7)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	intervalStr := viper.GetString("PROFIT_RUN_INTERVAL")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		interval = 24 * time.Hour
		if intervalStr != "" {
			log.Printf("Warning: Invalid value for PROFIT_RUN_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, interval.String())
		}
	}
	cfg.ProfitRunInterval = interval

	cfg.ReminderDays = viper.GetInt("REMINDER_DAYS")
	if cfg.ReminderDays < 0 {
		log.Printf("Warning: Negative REMINDER_DAYS (%d). Defaulting to 7.\n", cfg.ReminderDays)
		cfg.ReminderDays = 7
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")

	return cfg, nil
}
