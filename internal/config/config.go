package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port              string        `validate:"required,numeric"`
	LogLevel          string        `validate:"required"`
	Environment       string        `validate:"required"`
	DashboardPassword string        `validate:"required"`
	SessionSecret     string        `validate:"required,min=8"`
	SessionTTL        time.Duration `validate:"gt=0"`
	NocoDBURL         string        `validate:"omitempty,url"`
	NocoDBToken       string
	HTTPTimeout       time.Duration `validate:"gt=0"`
	RetryAttempts     int           `validate:"min=1,max=10"`
	RetryBackoff      time.Duration `validate:"gte=0"`
	FetchLimit        int           `validate:"min=1,max=10000"`
	CacheTTL          time.Duration `validate:"gt=0"`
	RedisURL          string        `validate:"omitempty,url"`
	Timezone          string        `validate:"required,timezone"`
	StaticDir         string
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	return &Config{
		Port:              getEnv("PORT", "3000"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Environment:       getEnv("APP_ENV", getEnv("NODE_ENV", "development")),
		DashboardPassword: getEnv("DASHBOARD_PASSWORD", "admin"),
		SessionSecret:     getEnv("SESSION_SECRET", getEnv("JWT_SECRET", "default-secret-change-in-production")),
		SessionTTL:        getDuration("SESSION_TTL", 24*time.Hour),
		NocoDBURL:         getEnv("NOCODB_API_URL", ""),
		NocoDBToken:       getEnv("NOCODB_API_TOKEN", ""),
		HTTPTimeout:       getDuration("HTTP_TIMEOUT", 30*time.Second),
		RetryAttempts:     getInt("RETRY_ATTEMPTS", 3),
		RetryBackoff:      getDuration("RETRY_BACKOFF", time.Second),
		FetchLimit:        getInt("FETCH_LIMIT", 1000),
		CacheTTL:          getDuration("CACHE_TTL", time.Hour),
		RedisURL:          getEnv("REDIS_URL", ""),
		Timezone:          getEnv("TIMEZONE", "America/Lima"),
		StaticDir:         getEnv("STATIC_DIR", "dist"),
	}
}

// Validate checks the loaded values against the struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			return fmt.Errorf("invalid configuration: %s fails %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction enables secure cookies and SPA serving.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NocoDBConfigured reports whether both the API URL and token are set.
func (c *Config) NocoDBConfigured() bool {
	return c.NocoDBURL != "" && c.NocoDBToken != ""
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logrus.WithError(err).WithField("timezone", c.Timezone).Warn("Unknown timezone, using local time")
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}
