package config

import (
	"log/slog"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("port: got %d want 9090", cfg.Port)
	}
	if cfg.StoreDriver != "memory" {
		t.Fatalf("store driver: got %q", cfg.StoreDriver)
	}
	if cfg.CourtTemplate != "court" {
		t.Fatalf("court template: got %q", cfg.CourtTemplate)
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestOrigins(t *testing.T) {
	cfg := Config{AllowedOrigins: "http://localhost:5173, https://coach.example.com ,,"}
	want := []string{"localhost:5173", "coach.example.com"}
	if got := cfg.Origins(); !reflect.DeepEqual(got, want) {
		t.Fatalf("origins: got %v want %v", got, want)
	}
}

func TestLevelAndDSN(t *testing.T) {
	cfg := Config{LogLevel: "debug", StoreDriver: "postgres", DatabaseURL: "postgres://x", SQLitePath: "a.db"}
	lvl, err := cfg.Level()
	if err != nil || lvl != slog.LevelDebug {
		t.Fatalf("level: got %v, %v", lvl, err)
	}
	if cfg.StoreDSN() != "postgres://x" {
		t.Fatalf("dsn: got %q", cfg.StoreDSN())
	}
	cfg.StoreDriver = "sqlite"
	if cfg.StoreDSN() != "a.db" {
		t.Fatalf("dsn: got %q", cfg.StoreDSN())
	}
}
