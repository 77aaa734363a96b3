package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Environment string
	HTTPAddr    string
	LogLevel    string

	Store string
	DBDSN string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTExpiry   time.Duration

	EnableMetrics bool

	ProcurementPath   string
	ImportMappingPath string
	AlertInterval     time.Duration
	SlackWebhookURL   string
}

func Load() *Config {
	config := &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Store:             strings.ToLower(getEnv("STORE", StorePostgres)),
		DBDSN:             os.Getenv("DB_DSN"),
		JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
		JWTIssuer:         getEnv("JWT_ISS", "hotel-inventory-api"),
		JWTAudience:       getEnv("JWT_AUD", "hotel-inventory-api"),
		JWTExpiry:         24 * time.Hour,
		EnableMetrics:     os.Getenv("ENABLE_METRICS") == "true",
		ProcurementPath:   os.Getenv("PROCUREMENT_CONFIG"),
		ImportMappingPath: os.Getenv("IMPORT_MAPPING"),
		AlertInterval:     5 * time.Minute,
		SlackWebhookURL:   os.Getenv("SLACK_WEBHOOK_URL"),
	}

	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			config.JWTExpiry = expiry
		}
	}
	if intervalStr := os.Getenv("ALERT_INTERVAL"); intervalStr != "" {
		if interval, err := time.ParseDuration(intervalStr); err == nil {
			config.AlertInterval = interval
		}
	}

	return config
}

// Validate checks the JWT settings. Store settings are checked by ValidateStore
// so that tools which never touch the database can reuse the JWT rules.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.Environment == "production" && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be changed in production")
	}
	if c.JWTIssuer == "" {
		return errors.New("JWT_ISS must not be empty")
	}
	if c.JWTAudience == "" {
		return errors.New("JWT_AUD must not be empty")
	}
	if c.JWTExpiry < time.Minute {
		return fmt.Errorf("JWT_EXPIRY must be at least 1m, got %s", c.JWTExpiry)
	}
	if c.JWTExpiry > 30*24*time.Hour {
		return fmt.Errorf("JWT_EXPIRY must be at most 720h, got %s", c.JWTExpiry)
	}
	return nil
}

func (c *Config) ValidateStore() error {
	switch c.Store {
	case StorePostgres:
		if c.DBDSN == "" {
			return errors.New("DB_DSN is required when STORE=postgres")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	if c.AlertInterval <= 0 {
		return errors.New("ALERT_INTERVAL must be positive")
	}
	return nil
}

func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateStore(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
