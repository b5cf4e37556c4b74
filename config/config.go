package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Stripe secret key for the payment collaborator.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Cron expression for the subscription due-service sweep.
	DueSweepSchedule string `mapstructure:"DUE_SWEEP_SCHEDULE"`

	// Pricing and cancellation policy knobs. These feed the immutable
	// rules value injected into the pricing and booking engines.
	TaxRate              float64 `mapstructure:"TAX_RATE"`
	PeakMultiplier       float64 `mapstructure:"PEAK_MULTIPLIER"`
	OffPeakMultiplier    float64 `mapstructure:"OFF_PEAK_MULTIPLIER"`
	FullRefundHours      float64 `mapstructure:"FULL_REFUND_HOURS"`
	HalfRefundHours      float64 `mapstructure:"HALF_REFUND_HOURS"`
	TimeZone             string  `mapstructure:"TIME_ZONE"`
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
	viper.SetDefault("ADMIN_TOKEN", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "autoshine")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("DUE_SWEEP_SCHEDULE", "0 * * * *")
	viper.SetDefault("TAX_RATE", 0.08)
	viper.SetDefault("PEAK_MULTIPLIER", 1.10)
	viper.SetDefault("OFF_PEAK_MULTIPLIER", 0.90)
	viper.SetDefault("FULL_REFUND_HOURS", 24.0)
	viper.SetDefault("HALF_REFUND_HOURS", 12.0)
	viper.SetDefault("TIME_ZONE", "UTC")

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
