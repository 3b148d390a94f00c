package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Persistence
	StoreBackend    string `mapstructure:"STORE_BACKEND"` // file | redis
	DataDir         string `mapstructure:"DATA_DIR"`
	RedisURL        string `mapstructure:"REDIS_URL"`
	AutosaveSeconds int    `mapstructure:"AUTOSAVE_SECONDS"`

	// Auth
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	SessionHours int    `mapstructure:"SESSION_HOURS"`

	// Workers
	WorkerPoolSize int `mapstructure:"WORKER_POOL_SIZE"`

	// SMTP (receipt emails)
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// Receipts
	PDFStoragePath string `mapstructure:"PDF_STORAGE_PATH"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("STORE_BACKEND", "file")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("AUTOSAVE_SECONDS", 30)
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("SESSION_HOURS", 8)
	viper.SetDefault("WORKER_POOL_SIZE", 3)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("PDF_STORAGE_PATH", "/tmp/tillpoint/receipts")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
