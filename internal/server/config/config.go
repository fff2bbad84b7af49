// Package config handles configuration for the server component. Values come
// from the environment (with an optional .env overlay for local development)
// and are collected into an explicit Config that is constructed once at
// startup and injected into collaborators.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the task server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - SecretKey: HMAC secret for signing JWTs (HS256).
//   - TokenValidityDuration: lifetime of issued bearer tokens.
//   - CORSAllowedOrigins: origins allowed to call the API from a browser.
//   - GinMode: gin run mode (debug, release, test).
type Config struct {
	Addr                  string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	CORSAllowedOrigins    []string
	GinMode               string
}

// Load builds a Config from the environment. A .env file in the working
// directory, if present, is loaded first without overriding variables that
// are already set. Returns an error when a required value is missing.
func Load() (*Config, error) {
	// Missing .env is fine; the environment itself is authoritative.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:                  ":" + getEnv("PORT", "4000"),
		DatabaseDSN:           getEnv("DATABASE_DSN", ""),
		SecretKey:             getEnv("JWT_SECRET", ""),
		TokenValidityDuration: getEnvAsDuration("TOKEN_TTL", 7*24*time.Hour),
		CORSAllowedOrigins:    splitOrigins(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		GinMode:               getEnv("GIN_MODE", "debug"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that settings without safe defaults are present. The
// process must refuse to start without a signing secret or a database DSN.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.TokenValidityDuration <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// getEnv returns the value of an environment variable or a default when the
// variable is unset or empty.
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses an environment variable with time.ParseDuration,
// falling back to the default on absence or a parse error.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
