package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// insecureDefaultSecret keeps the server bootable without JWT_SECRET set.
// Tokens signed with it are forgeable; main logs a loud warning when in use.
const insecureDefaultSecret = "change-me-insecure-dev-secret"

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	InsecureSecret bool
	TokenTTL       time.Duration
	UserCacheTTL   time.Duration
	CORSOrigins    []string
	MetricsEnabled bool
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:           fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:       durationEnv("JWT_TTL_HOURS", time.Hour, 24),
		UserCacheTTL:   durationEnv("USER_CACHE_TTL_MINUTES", time.Minute, 5),
		CORSOrigins:    parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		MetricsEnabled: boolEnv("METRICS_ENABLED", true),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = insecureDefaultSecret
		cfg.InsecureSecret = true
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func durationEnv(key string, unit time.Duration, def int) time.Duration {
	if n, err := strconv.Atoi(fallback(os.Getenv(key), strconv.Itoa(def))); err == nil && n > 0 {
		return time.Duration(n) * unit
	}
	return time.Duration(def) * unit
}

func boolEnv(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
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
