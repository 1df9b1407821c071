package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"RIOT_API_KEY", "RIOT-DEV-KEY", "RIOT_REGION", "DATABASE_URL", "ARCHIVE_PATH",
		"DISCORD_WEBHOOK_URL", "PORT", "ICON_VERSION", "FETCH_CONCURRENCY"} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIOT_API_KEY", "RGAPI-test")
	t.Setenv("RIOT_REGION", "EUW1")
	t.Setenv("FETCH_CONCURRENCY", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RiotAPIKey != "RGAPI-test" || cfg.Region != "EUW1" || cfg.Concurrency != 4 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port, got %s", cfg.Port)
	}
}

func TestLoad_FallbackKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIOT-DEV-KEY", "RGAPI-old")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RiotAPIKey != "RGAPI-old" {
		t.Errorf("expected fallback key, got %q", cfg.RiotAPIKey)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}

	t.Setenv("RIOT_API_KEY", "RGAPI-test")
	t.Setenv("FETCH_CONCURRENCY", "many")
	if _, err := Load(); err == nil {
		t.Error("expected error for bad concurrency")
	}
}

func TestLoadEnv(t *testing.T) {
	const key = "PIPER_LOADENV_MARKER"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte(key+"=KR\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := LoadEnv(filepath.Join(dir, "missing.env"), path); got != path {
		t.Errorf("expected %s to load, got %q", path, got)
	}
	if os.Getenv(key) != "KR" {
		t.Errorf("expected %s from file, got %q", key, os.Getenv(key))
	}
}
