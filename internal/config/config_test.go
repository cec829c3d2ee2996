package config_test

import (
	"strings"
	"testing"

	"github.com/nyashahama/attendance-reminder-backend/internal/config"
)

// clearEnv blanks every variable Load reads so tests are hermetic regardless
// of the host environment. t.Setenv restores the originals afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "ENV", "BASE_URL", "REPL_SLUG", "REPL_OWNER",
		"EMAILJS_SERVICE_ID", "EMAILJS_TEMPLATE_ID", "EMAILJS_PUBLIC_KEY", "EMAILJS_PRIVATE_KEY",
		"SCHEDULE_CRON", "SCHEDULE_TZ", "CORS_ALLOWED_ORIGIN",
	} {
		t.Setenv(k, "")
	}
}

func setEmailJS(t *testing.T) {
	t.Helper()
	t.Setenv("EMAILJS_SERVICE_ID", "service_abc")
	t.Setenv("EMAILJS_TEMPLATE_ID", "template_xyz")
	t.Setenv("EMAILJS_PUBLIC_KEY", "pub_key")
	t.Setenv("EMAILJS_PRIVATE_KEY", "priv_key")
}

// ─── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	setEmailJS(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("env: got %q", cfg.Env)
	}
	if cfg.ScheduleCron != "0 20 * * *" {
		t.Errorf("schedule cron: got %q", cfg.ScheduleCron)
	}
	if cfg.ScheduleTZ != "Asia/Kolkata" {
		t.Errorf("schedule tz: got %q", cfg.ScheduleTZ)
	}
	if cfg.AllowedOrigin != "*" {
		t.Errorf("allowed origin: got %q", cfg.AllowedOrigin)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("base url: got %q", cfg.BaseURL)
	}
}

func TestLoad_MissingEmailJSVarsListsEachOne(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range []string{"EMAILJS_SERVICE_ID", "EMAILJS_TEMPLATE_ID", "EMAILJS_PUBLIC_KEY", "EMAILJS_PRIVATE_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should name %s, got: %v", name, err)
		}
	}
}

func TestLoad_ReadsOverrides(t *testing.T) {
	clearEnv(t)
	setEmailJS(t)
	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("SCHEDULE_CRON", "30 7 * * *")
	t.Setenv("SCHEDULE_TZ", "Europe/Berlin")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://app.example.com")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "3000" || cfg.Env != "production" {
		t.Errorf("server config: %+v", cfg)
	}
	if cfg.ScheduleCron != "30 7 * * *" || cfg.ScheduleTZ != "Europe/Berlin" {
		t.Errorf("schedule config: %+v", cfg)
	}
	if cfg.AllowedOrigin != "https://app.example.com" {
		t.Errorf("allowed origin: got %q", cfg.AllowedOrigin)
	}
}

// ─── Base URL resolution ──────────────────────────────────────────────────────

func TestLoad_BaseURLPrecedence(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			"explicit BASE_URL wins over platform vars",
			map[string]string{
				"BASE_URL":   "https://reminders.example.com",
				"REPL_SLUG":  "attendance",
				"REPL_OWNER": "teamlead",
			},
			"https://reminders.example.com",
		},
		{
			"slug and owner build the platform URL",
			map[string]string{"REPL_SLUG": "attendance", "REPL_OWNER": "teamlead"},
			"https://attendance.teamlead.repl.co",
		},
		{
			"slug without owner falls back to localhost",
			map[string]string{"REPL_SLUG": "attendance"},
			"http://localhost:8080",
		},
		{
			"fallback uses the configured port",
			map[string]string{"PORT": "9999"},
			"http://localhost:9999",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setEmailJS(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.BaseURL != tt.want {
				t.Errorf("base url: got %q, want %q", cfg.BaseURL, tt.want)
			}
		})
	}
}
