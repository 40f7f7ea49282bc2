package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port        int
	Environment string

	// DatabaseURL may be empty. The store then runs in degraded mode
	// instead of refusing to start.
	DatabaseURL string

	JWTSecret string

	GoogleClientID     string
	GoogleClientSecret string

	// AdminEmails is the exact-match allow-list for the admin API.
	AdminEmails []string

	AppURL string
}

// Load reads configuration from environment variables and validates required fields.
// A .env file in the working directory is merged in first, if present.
func Load() (Config, error) {
	_ = godotenv.Load()

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return Config{}, fmt.Errorf("parse PORT: %w", err)
	}

	cfg := Config{
		Port:               port,
		Environment:        getEnv("APP_ENV", "development"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		AdminEmails:        splitList(os.Getenv("ADMIN_EMAILS")),
		AppURL:             getEnv("APP_URL", "http://localhost:3000"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// splitList parses a comma-separated value, trimming surrounding
// whitespace and dropping empty entries. The entries themselves are
// kept byte-for-byte; admin matching is case-sensitive.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(v)
}
