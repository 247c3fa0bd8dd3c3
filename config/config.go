package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Gemini configuration. GeminiAPIKey may be empty: the recommend
	// endpoint reports a configuration error per request instead of
	// refusing to start.
	GeminiAPIKey string
	GeminiAPIURL string
	GeminiModel  string

	// Paystack configuration
	PaystackSecretKey  string
	PaystackAPIURL     string
	PaymentCallbackURL string

	// Geolocation configuration
	GeoAPIURL string

	// Timeout applied to all outbound HTTP calls except geolocation,
	// which uses its own shorter deadline.
	HTTPTimeout time.Duration
}

// LoadConfig creates a new Config instance from environment variables.
// A .env file is honored when present but never required.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "3001"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "newhouseit"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		PaystackSecretKey:  os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackAPIURL:     getEnv("PAYSTACK_API_URL", "https://api.paystack.co"),
		PaymentCallbackURL: getEnv("PAYMENT_CALLBACK_URL", "myapp://payment/callback"),

		GeoAPIURL: getEnv("GEO_API_URL", "http://ip-api.com/json"),
	}

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		redisDB = db
	}
	cfg.RedisDB = redisDB

	timeout := 30 * time.Second
	if t := os.Getenv("HTTP_TIMEOUT_SECONDS"); t != "" {
		secs, err := strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS value %q: %w", t, err)
		}
		timeout = time.Duration(secs) * time.Second
	}
	cfg.HTTPTimeout = timeout

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
