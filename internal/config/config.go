package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string
	CORSOrigins []string

	DBMaxConns       int32
	DBIdleTimeout    time.Duration
	DBConnectTimeout time.Duration

	MaxBodyBytes int64
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "8080"),
		Env:         fallback(os.Getenv("ENV"), "development"),
		LogLevel:    fallback(os.Getenv("LOG_LEVEL"), "info"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),

		DBMaxConns:       int32(intEnv("DB_MAX_CONNS", 20)),
		DBIdleTimeout:    time.Duration(intEnv("DB_IDLE_TIMEOUT_SEC", 30)) * time.Second,
		DBConnectTimeout: time.Duration(intEnv("DB_CONNECT_TIMEOUT_SEC", 2)) * time.Second,

		MaxBodyBytes: int64(intEnv("MAX_BODY_BYTES", 10<<20)),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

// Production reports whether the service runs in production mode.
func (c Config) Production() bool {
	return c.Env == "production"
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func intEnv(key string, def int) int {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
