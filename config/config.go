package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port         string
	Environment  string
	LogLevel     string
	DatabaseURL  string
	DatabaseLog  bool
	Redis        RedisConfig
	QuoteService QuoteServiceConfig
}

// RedisConfig enables the PC-builder component cache. An empty Addr
// disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// QuoteServiceConfig points at the external sales system quotes are
// forwarded to. An empty BaseURL keeps quotes local.
type QuoteServiceConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Load reads configuration from the environment, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	// A missing .env is fine, env vars can be set by other means.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_LOG", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("QUOTE_SERVICE_TIMEOUT", "15s")
	v.AutomaticEnv()

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    strings.ToLower(v.GetString("LOG_LEVEL")),
		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		DatabaseLog: v.GetBool("DATABASE_LOG"),
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
		QuoteService: QuoteServiceConfig{
			BaseURL: strings.TrimSpace(v.GetString("QUOTE_SERVICE_URL")),
			APIKey:  strings.TrimSpace(v.GetString("QUOTE_SERVICE_KEY")),
			Timeout: v.GetDuration("QUOTE_SERVICE_TIMEOUT"),
		},
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = dsnFromParts()
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL (or POSTGRES_HOST/POSTGRES_USER/POSTGRES_DB) is required")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	return cfg, nil
}

// dsnFromParts builds a DSN from the POSTGRES_* variables used by the
// docker-compose setup.
func dsnFromParts() string {
	host := os.Getenv("POSTGRES_HOST")
	user := os.Getenv("POSTGRES_USER")
	db := os.Getenv("POSTGRES_DB")
	if host == "" || user == "" || db == "" {
		return ""
	}
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	sslmode := os.Getenv("POSTGRES_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, os.Getenv("POSTGRES_PASSWORD"), db, sslmode)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds a JSON logger in production and a console logger
// otherwise, at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if c.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
