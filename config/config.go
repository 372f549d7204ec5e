package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB    int    `mapstructure:"REDIS_SESSION_DB"`
	RedisCompletionDB int    `mapstructure:"REDIS_COMPLETION_DB"`

	// Booking wizard knobs.
	PlatformFeePct    float64 `mapstructure:"PLATFORM_FEE_PCT"`
	MinBookingHours   float64 `mapstructure:"MIN_BOOKING_HOURS"`
	MaxBookingHours   float64 `mapstructure:"MAX_BOOKING_HOURS"`
	ServiceStep       int     `mapstructure:"SERVICE_STEP"` // 1 or 2, see wizard.Rules
	SessionTTLMinutes int     `mapstructure:"SESSION_TTL_MINUTES"`

	// Booking times are wall-clock in this IANA timezone; the completion
	// worker interprets "date end" in it.
	Timezone string `mapstructure:"TIMEZONE"`

	// Stripe secret key for deposit payment intents.
	StripeKey string `mapstructure:"STRIPE_KEY"`
	Currency  string `mapstructure:"CURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_COMPLETION_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("PLATFORM_FEE_PCT", 0.10)
	viper.SetDefault("MIN_BOOKING_HOURS", 1.0)
	viper.SetDefault("MAX_BOOKING_HOURS", 8.0)
	viper.SetDefault("SERVICE_STEP", 2)
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("CURRENCY", "usd")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
