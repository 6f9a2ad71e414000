package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"CONTENT_DIR", "STATIC_DIR", "SITE_FILE", "OUTPUT_DIR", "BASE_PATH", "DB_PATH",
		"SERVER_PORT", "LOG_LEVEL", "SENTRY_DSN", "ENV",
		"RATE_LIMIT_BURST", "RATE_LIMIT_RPS", "RATE_LIMIT_CLIENT_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ContentDir != defaultContentDir {
		t.Errorf("expected default content dir %q, got %q", defaultContentDir, cfg.ContentDir)
	}

	if cfg.OutputDir != defaultOutputDir {
		t.Errorf("expected default output dir %q, got %q", defaultOutputDir, cfg.OutputDir)
	}

	if cfg.SiteFile != defaultSiteFile {
		t.Errorf("expected default site file %q, got %q", defaultSiteFile, cfg.SiteFile)
	}

	if cfg.ServerPort != defaultServerPort {
		t.Errorf("expected default server port %d, got %d", defaultServerPort, cfg.ServerPort)
	}

	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}

	if cfg.Environment != defaultEnvironment {
		t.Errorf("expected default environment %q, got %q", defaultEnvironment, cfg.Environment)
	}

	if cfg.ShutdownGrace != defaultShutdownGrace {
		t.Errorf("expected shutdown grace %s, got %s", defaultShutdownGrace, cfg.ShutdownGrace)
	}

	if cfg.BasePath != "" {
		t.Errorf("expected empty base path, got %q", cfg.BasePath)
	}

	if cfg.DBPath != "" {
		t.Errorf("expected empty DB path for in-memory catalog, got %q", cfg.DBPath)
	}

	if cfg.RateLimit.Burst != defaultRateLimitBurst {
		t.Errorf("expected rate limit burst %d, got %d", defaultRateLimitBurst, cfg.RateLimit.Burst)
	}

	if cfg.RateLimit.ClientTTL != defaultRateLimitTTL {
		t.Errorf("expected rate limit ttl %s, got %s", defaultRateLimitTTL, cfg.RateLimit.ClientTTL)
	}
}

func TestLoadWithExplicitValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTENT_DIR", "/srv/content")
	t.Setenv("OUTPUT_DIR", "/srv/out")
	t.Setenv("BASE_PATH", "a1pha.github.io/")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SENTRY_DSN", "dsn")
	t.Setenv("ENV", "production")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_CLIENT_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ContentDir != "/srv/content" {
		t.Errorf("expected content dir %q, got %q", "/srv/content", cfg.ContentDir)
	}

	if cfg.OutputDir != "/srv/out" {
		t.Errorf("expected output dir %q, got %q", "/srv/out", cfg.OutputDir)
	}

	if cfg.BasePath != "/a1pha.github.io" {
		t.Errorf("expected normalised base path, got %q", cfg.BasePath)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.ServerPort)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}

	if cfg.SentryDSN != "dsn" {
		t.Errorf("expected Sentry DSN dsn, got %q", cfg.SentryDSN)
	}

	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got %q", cfg.Environment)
	}

	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("expected 2.5 requests per second, got %v", cfg.RateLimit.RequestsPerSecond)
	}

	if cfg.RateLimit.ClientTTL != 30*time.Second {
		t.Errorf("expected 30s client ttl, got %s", cfg.RateLimit.ClientTTL)
	}
}

func TestLoadFileEnvironmentTakesPrecedence(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "blog.yaml")
	contents := "content_dir: posts-from-file\noutput_dir: out-from-file\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("OUTPUT_DIR", "out-from-env")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if cfg.ContentDir != "posts-from-file" {
		t.Errorf("expected content dir from file, got %q", cfg.ContentDir)
	}

	if cfg.OutputDir != "out-from-env" {
		t.Errorf("expected output dir from env, got %q", cfg.OutputDir)
	}
}

func TestLoadFileMissing(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing config file, got nil")
	}

	if !strings.Contains(err.Error(), "reading config file") {
		t.Fatalf("expected error to mention reading config file, got %v", err)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "invalid")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for invalid port, got nil")
	}

	if !strings.Contains(err.Error(), "invalid SERVER_PORT value") {
		t.Fatalf("expected error to mention invalid SERVER_PORT value, got %v", err)
	}
}

func TestLoadInvalidRateLimitTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_CLIENT_TTL", "forever")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for invalid ttl, got nil")
	}

	if !strings.Contains(err.Error(), "invalid RATE_LIMIT_CLIENT_TTL value") {
		t.Fatalf("expected error to mention RATE_LIMIT_CLIENT_TTL, got %v", err)
	}
}
