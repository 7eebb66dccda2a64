package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Registry.BaseURL == "" {
		t.Error("registry base URL default missing")
	}
	if cfg.Catalog.Dir != "data/packages" {
		t.Errorf("catalog dir = %q", cfg.Catalog.Dir)
	}

	re, err := cfg.BuiltinPattern()
	if err != nil {
		t.Fatalf("BuiltinPattern: %v", err)
	}
	if !re.MatchString("com.unity.modules.physics") {
		t.Error("default pattern must match editor modules")
	}
	if re.MatchString("com.unity.textmeshpro") {
		t.Error("default pattern must not match regular unity packages")
	}

	ttl, err := cfg.CacheTTL()
	if err != nil {
		t.Fatalf("CacheTTL: %v", err)
	}
	if ttl != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h", ttl)
	}
}

func TestLoadFile(t *testing.T) {
	body := `
[registry]
base_url = "https://registry.example.com"

[redis]
addr = "redis.example.com:6380"
db = 2

[cache]
ttl = "1h"
`
	path := filepath.Join(t.TempDir(), "upmeta.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Registry.BaseURL != "https://registry.example.com" {
		t.Errorf("registry base = %q", cfg.Registry.BaseURL)
	}
	if cfg.Redis.Addr != "redis.example.com:6380" || cfg.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	// Untouched sections keep their defaults.
	if cfg.Mongo.Database != "upmeta" {
		t.Errorf("mongo database = %q, want default", cfg.Mongo.Database)
	}
	if ttl, _ := cfg.CacheTTL(); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("REDIS_ADDR", "env-redis:6379")
	t.Setenv("MONGO_URI", "mongodb://env:27017")
	t.Setenv("HEALTHCHECK_ID", "env-job")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GitHub.Token != "env-token" {
		t.Errorf("token = %q", cfg.GitHub.Token)
	}
	if cfg.Redis.Addr != "env-redis:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.Mongo.URI != "mongodb://env:27017" {
		t.Errorf("mongo uri = %q", cfg.Mongo.URI)
	}
	if cfg.Healthcheck.JobID != "env-job" {
		t.Errorf("healthcheck job = %q", cfg.Healthcheck.JobID)
	}
}

func TestLoadRejectsBadPattern(t *testing.T) {
	body := "[scopes]\nbuiltin_pattern = \"([\"\n"
	path := filepath.Join(t.TempDir(), "upmeta.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted an invalid pattern")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("Load accepted a missing file")
	}
}
