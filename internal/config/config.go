package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	JWTSecret     string
	SessionTTL    time.Duration
	AdminPassword string
}

// Load reads configuration from the environment, with a local .env file as
// fallback. Environment variables always win over .env values.
func Load() (Config, error) {
	// Missing .env is fine; env vars may carry everything.
	_ = godotenv.Load()

	cfg := Config{
		Port:       8080,
		SessionTTL: 24 * time.Hour,
	}

	if portRaw := strings.TrimSpace(os.Getenv("PORT")); portRaw != "" {
		port, err := strconv.Atoi(portRaw)
		if err != nil || port <= 0 {
			return Config{}, fmt.Errorf("invalid PORT: %q", portRaw)
		}
		cfg.Port = port
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required (environment variable or .env)")
	}

	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required (environment variable or .env)")
	}

	if ttlRaw := strings.TrimSpace(os.Getenv("SESSION_TTL_MINUTES")); ttlRaw != "" {
		minutes, err := strconv.Atoi(ttlRaw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("invalid SESSION_TTL_MINUTES: %q", ttlRaw)
		}
		cfg.SessionTTL = time.Duration(minutes) * time.Minute
	}

	cfg.AdminPassword = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))

	return cfg, nil
}
