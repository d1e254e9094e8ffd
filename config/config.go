package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Storage drivers selectable via STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverFile     = "file"
)

// Config holds all application configuration, built once at startup and
// passed by reference to the components that need it.
type Config struct {
	Port        string
	JWTSecret   string
	TokenTTL    time.Duration
	Driver      string
	DatabaseURL string
	DataDir     string
	LogLevel    string
	CORSOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// When STORAGE_DRIVER is unset the driver follows DATABASE_URL: set means
// postgres, empty means the embedded file store (development fallback).
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		JWTSecret:   getEnv("JWT_SECRET", "dev_secret"),
		TokenTTL:    getEnvAsDuration("TOKEN_TTL", "168h"),
		Driver:      strings.TrimSpace(os.Getenv("STORAGE_DRIVER")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DataDir:     getEnv("DATA_DIR", "data"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
	}

	if cfg.Driver == "" {
		if cfg.DatabaseURL != "" {
			cfg.Driver = DriverPostgres
		} else {
			cfg.Driver = DriverFile
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret cannot be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	switch c.Driver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("postgres driver requires DATABASE_URL")
		}
	case DriverFile:
		if c.DataDir == "" {
			return fmt.Errorf("file driver requires DATA_DIR")
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Driver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		d, _ = time.ParseDuration(defaultValue)
	}
	return d
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
