package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"TELEGRAM_API_TOKEN", "DATABASE_URL", "APP_ENV", "ENV", "HTTP_ADDR", "TIMEZONE"} {
		t.Setenv(name, "")
	}

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Env != "local" || cfg.IsProduction() {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.Timezone != "Asia/Seoul" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.Session.TTL != 2*time.Hour || cfg.Session.SweepSchedule == "" {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.DB.AppendTimeout != 3*time.Second {
		t.Errorf("AppendTimeout = %v", cfg.DB.AppendTimeout)
	}
	if cfg.DB.Enabled() {
		t.Error("database enabled without DATABASE_URL")
	}
	if _, err := cfg.DB.DSN(); !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Errorf("DSN error = %v", err)
	}
	if err := cfg.RequireTelegram(); !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Errorf("RequireTelegram error = %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
env: production
timezone: "+9"
http:
  addr: ":9090"
session:
  ttl: 30m
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TELEGRAM_API_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://quiz@localhost/quiz")
	t.Setenv("HTTP_ADDR", ":7070")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.IsProduction() || cfg.Timezone != "+9" || cfg.Session.TTL != 30*time.Minute {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Errorf("HTTP.Addr = %q, want env override", cfg.HTTP.Addr)
	}
	if err := cfg.RequireTelegram(); err != nil {
		t.Errorf("RequireTelegram: %v", err)
	}
	if dsn, err := cfg.DB.DSN(); err != nil || dsn != "postgres://quiz@localhost/quiz" {
		t.Errorf("DSN = %q, %v", dsn, err)
	}
}

func TestLoadPrefersCallerDirectory(t *testing.T) {
	t.Setenv("TIMEZONE", "")

	root := t.TempDir()
	t.Chdir(root)

	write := func(dir, tz string) {
		t.Helper()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		data := []byte("timezone: " + tz + "\n")
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(root, "config"), "Europe/Berlin")
	custom := filepath.Join(root, "custom")
	write(custom, "America/Chicago")

	cfg, err := Load(custom)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timezone != "America/Chicago" {
		t.Fatalf("Timezone = %q, want the value from the directory passed to Load", cfg.Timezone)
	}

	cfg, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Fatalf("Timezone = %q, want ./config fallback", cfg.Timezone)
	}
}
