package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	JWTSecret    string

	// Access codes gate self-registration. Matching the admin code grants
	// the admin role, the member code grants the plain user role.
	AdminAccessCode  string
	MemberAccessCode string

	// Optional shoutrrr URL for closing-period reminders. Empty disables
	// external delivery.
	NotifyURL string

	// Cron expression for the monthly closing reminder.
	ClosingReminderSchedule string
}

// Load reads env vars and falls back to defaults so the server can boot with
// zero configuration. A .env file in the working directory is honored when
// present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:             getEnv("CAISSE_ENV", "development"),
		HTTPPort:                getEnv("CAISSE_HTTP_PORT", "8080"),
		DatabasePath:            getEnv("CAISSE_DB_PATH", filepath.Join("data", "caisse.db")),
		JWTSecret:               getEnv("CAISSE_JWT_SECRET", ""),
		AdminAccessCode:         getEnv("CAISSE_ADMIN_CODE", "1806"),
		MemberAccessCode:        getEnv("CAISSE_MEMBER_CODE", "2024"),
		NotifyURL:               getEnv("CAISSE_NOTIFY_URL", ""),
		ClosingReminderSchedule: getEnv("CAISSE_CLOSING_REMINDER_CRON", "0 8 1 * *"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("CAISSE_JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret-do-not-use-in-production"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
