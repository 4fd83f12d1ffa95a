package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("expected release mode, got %q", cfg.GinMode)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected info log level, got %q", cfg.LogLevel)
	}
	if cfg.DBPath != "mes.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("expected default base path, got %q", cfg.APIBasePath)
	}
	if cfg.RateBurst < 1 {
		t.Fatalf("expected positive burst, got %d", cfg.RateBurst)
	}
	if cfg.OTEL.Enabled {
		t.Fatalf("otel should default to disabled")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "warning") // normalized to warn
	t.Setenv("GIN_MODE", "bogus")    // normalized to release
	t.Setenv("READ_TIMEOUT", "5s")
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected warn, got %q", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("expected release, got %q", cfg.GinMode)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Fatalf("expected 5s read timeout, got %v", cfg.ReadTimeout)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("expected normalized base path, got %q", cfg.APIBasePath)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for bad log level")
	}
	t.Setenv("LOG_LEVEL", "info")

	t.Setenv("RATE_BURST", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero burst")
	}
	t.Setenv("RATE_BURST", "10")

	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "2")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for sampler ratio above 1")
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"/api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
