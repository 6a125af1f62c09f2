package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Logging   LoggingConfig
	Drip      DripConfig
	Tokens    TokenConfig
	Admin     AdminConfig
	Cache     CacheConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration.
// Path ":memory:" keeps the catalog in memory for the lifetime of the process.
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig selects the zap logger level and encoder.
type LoggingConfig struct {
	Level       string
	Development bool
}

// DripConfig holds the recommended-share buffer applied by the calculator.
type DripConfig struct {
	BufferPercent float64
	BufferShares  int64
}

// TokenConfig holds token ledger settings.
// CheckoutKey is a base64 fernet key used to seal checkout tokens.
type TokenConfig struct {
	SignupGrant int64
	RefreshCost int64
	CheckoutKey string
	CheckoutTTL time.Duration
}

// AdminConfig holds the shared key protecting admin routes.
type AdminConfig struct {
	APIKey string
}

// CacheConfig selects the featured-stock cache backend.
// An empty RedisAddr selects the in-memory cache.
type CacheConfig struct {
	RedisAddr   string
	FeaturedTTL time.Duration
}

// SchedulerConfig holds cron specs for background jobs.
type SchedulerConfig struct {
	FeaturedRotation string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", ":memory:"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173,http://localhost")),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tokens: TokenConfig{
			CheckoutKey: os.Getenv("CHECKOUT_KEY"),
		},
		Admin: AdminConfig{
			APIKey: os.Getenv("INTERNAL_API_KEY"),
		},
		Cache: CacheConfig{
			RedisAddr: os.Getenv("REDIS_ADDR"),
		},
		Scheduler: SchedulerConfig{
			FeaturedRotation: getEnv("FEATURED_ROTATION_SCHEDULE", "0 6 * * 1"),
		},
	}

	var err error
	if config.Logging.Development, err = getBool("LOG_DEVELOPMENT", false); err != nil {
		return nil, err
	}
	if config.Drip.BufferPercent, err = getFloat("DRIP_BUFFER_PERCENT", 10); err != nil {
		return nil, err
	}
	if config.Drip.BufferShares, err = getInt("DRIP_BUFFER_SHARES", 0); err != nil {
		return nil, err
	}
	if config.Tokens.SignupGrant, err = getInt("TOKENS_SIGNUP_GRANT", 10); err != nil {
		return nil, err
	}
	if config.Tokens.RefreshCost, err = getInt("TOKENS_REFRESH_COST", 1); err != nil {
		return nil, err
	}
	if config.Tokens.CheckoutTTL, err = getDuration("CHECKOUT_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if config.Cache.FeaturedTTL, err = getDuration("FEATURED_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}

	if config.Drip.BufferPercent < 0 || config.Drip.BufferShares < 0 {
		return nil, fmt.Errorf("drip buffer must not be negative")
	}
	if config.Tokens.SignupGrant < 0 || config.Tokens.RefreshCost < 0 {
		return nil, fmt.Errorf("token amounts must not be negative")
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
