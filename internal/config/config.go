// Package config loads the daemon-side settings: service endpoints,
// store connections and refresh behavior. Values come from an optional
// TOML file with environment variables taking precedence for secrets
// and deploy-time wiring.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full runtime configuration.
type Config struct {
	Registry    Registry    `toml:"registry"`
	GitHub      GitHub      `toml:"github"`
	Images      Images      `toml:"images"`
	Redis       Redis       `toml:"redis"`
	Mongo       Mongo       `toml:"mongo"`
	Catalog     Catalog     `toml:"catalog"`
	Scopes      Scopes      `toml:"scopes"`
	Healthcheck Healthcheck `toml:"healthcheck"`
	Cache       Cache       `toml:"cache"`
}

// Registry points at the UPM registry and its downloads API.
type Registry struct {
	BaseURL      string `toml:"base_url"`
	DownloadsURL string `toml:"downloads_url"`
}

// GitHub holds the API token. Anonymous access works but rate-limits
// hard.
type GitHub struct {
	Token string `toml:"token"`
}

// Images points at the image cache service. Empty disables the image
// steps.
type Images struct {
	BaseURL string `toml:"base_url"`
}

// Redis connection settings for the metadata store.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Mongo connection settings for the readme store.
type Mongo struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Catalog locates the curated package records.
type Catalog struct {
	Dir string `toml:"dir"`
}

// Scopes tunes the dependency resolver.
type Scopes struct {
	// BuiltinPattern matches module names excluded from scope lists.
	BuiltinPattern string `toml:"builtin_pattern"`
}

// Healthcheck identifies the dead-man's-switch job pinged after a run.
type Healthcheck struct {
	BaseURL string `toml:"base_url"`
	JobID   string `toml:"job_id"`
}

// Cache controls the HTTP response cache.
type Cache struct {
	// TTL is a duration string, for example "24h".
	TTL string `toml:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Registry: Registry{
			BaseURL:      "https://packages.upmeta.org",
			DownloadsURL: "https://api.upmeta.org",
		},
		Redis:   Redis{Addr: "localhost:6379"},
		Mongo:   Mongo{URI: "mongodb://localhost:27017", Database: "upmeta"},
		Catalog: Catalog{Dir: "data/packages"},
		Scopes:  Scopes{BuiltinPattern: `^com\.unity\.modules\.`},
		Healthcheck: Healthcheck{
			BaseURL: "https://hc-ping.com",
		},
		Cache: Cache{TTL: "24h"},
	}
}

// Load reads the configuration from path, layered over the defaults and
// under the environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment overrides carry secrets and per-deploy wiring, so they
// beat the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("HEALTHCHECK_ID"); v != "" {
		c.Healthcheck.JobID = v
	}
}

func (c *Config) validate() error {
	if _, err := c.BuiltinPattern(); err != nil {
		return err
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// BuiltinPattern compiles the configured builtin-module pattern.
func (c *Config) BuiltinPattern() (*regexp.Regexp, error) {
	re, err := regexp.Compile(c.Scopes.BuiltinPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid builtin_pattern: %w", err)
	}
	return re, nil
}

// CacheTTL parses the configured HTTP cache lifetime.
func (c *Config) CacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl: %w", err)
	}
	return d, nil
}
