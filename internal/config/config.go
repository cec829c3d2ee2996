// Package config loads and validates all environment variables at startup.
// Every other package receives typed values — nothing reads os.Getenv directly.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port    string // default "8080"
	Env     string // "development" | "production"
	BaseURL string // externally reachable base URL, used inside generated links

	// ── EmailJS ───────────────────────────────────────────────────────────────
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string
	EmailJSPrivateKey string

	// ── Schedule ──────────────────────────────────────────────────────────────
	ScheduleCron string // standard 5-field cron expression, default "0 20 * * *"
	ScheduleTZ   string // IANA zone name, default "Asia/Kolkata"

	// ── CORS ──────────────────────────────────────────────────────────────────
	AllowedOrigin string // default "*"
}

// Load reads all environment variables and returns a validated Config.
// It automatically loads a .env file from the working directory when present,
// so plain `go run ./cmd/api` works in development without any wrapper.
// Real environment variables always take precedence over .env values
// (godotenv.Load never overrides keys that are already set).
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		EmailJSServiceID:  os.Getenv("EMAILJS_SERVICE_ID"),
		EmailJSTemplateID: os.Getenv("EMAILJS_TEMPLATE_ID"),
		EmailJSPublicKey:  os.Getenv("EMAILJS_PUBLIC_KEY"),
		EmailJSPrivateKey: os.Getenv("EMAILJS_PRIVATE_KEY"),
		ScheduleCron:      getEnv("SCHEDULE_CRON", "0 20 * * *"),
		ScheduleTZ:        getEnv("SCHEDULE_TZ", "Asia/Kolkata"),
		AllowedOrigin:     getEnv("CORS_ALLOWED_ORIGIN", "*"),
	}
	c.BaseURL = resolveBaseURL(c.Port)

	return c, c.validate()
}

func (c *Config) validate() error {
	var errs []error

	required := map[string]string{
		"EMAILJS_SERVICE_ID":  c.EmailJSServiceID,
		"EMAILJS_TEMPLATE_ID": c.EmailJSTemplateID,
		"EMAILJS_PUBLIC_KEY":  c.EmailJSPublicKey,
		"EMAILJS_PRIVATE_KEY": c.EmailJSPrivateKey,
	}

	for name, val := range required {
		if val == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", name))
		}
	}

	return errors.Join(errs...)
}

// ─── BASE URL ────────────────────────────────────────────────────────────────

// resolveBaseURL decides, once, which base URL generated links should carry.
// Precedence: explicit BASE_URL, then the hosting platform's slug/owner pair,
// then a localhost fallback on the configured port. Business logic never
// re-derives this — the resolved value is injected wherever links are built.
func resolveBaseURL(port string) string {
	if explicit := os.Getenv("BASE_URL"); explicit != "" {
		return explicit
	}
	slug, owner := os.Getenv("REPL_SLUG"), os.Getenv("REPL_OWNER")
	if slug != "" && owner != "" {
		return fmt.Sprintf("https://%s.%s.repl.co", slug, owner)
	}
	return "http://localhost:" + port
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
