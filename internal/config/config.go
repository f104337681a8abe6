// Package config loads runtime settings from a YAML file and RUNCLUB_*
// environment overrides.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPaths are tried in order when no config file is given.
var DefaultPaths = []string{"runclub.yaml", "etc/runclub.yaml", "/etc/runclub/config.yaml"}

// ErrMissingCSRFKey is returned in production when no CSRF key is configured.
var ErrMissingCSRFKey = errors.New("csrf key is required in production")

// Config is the full runtime configuration.
type Config struct {
	Env       string          `yaml:"env"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Email     EmailConfig     `yaml:"email"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	StaticDir       string `yaml:"static_dir"`
	CSRFKey         string `yaml:"csrf_key"` // 64 hex characters
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_sec"`
	SlowRequestMS   int    `yaml:"slow_request_ms"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	MaxConns    int    `yaml:"max_conns"`
	SlowQueryMS int    `yaml:"slow_query_ms"`
	PerfRing    int    `yaml:"perf_ring"`
}

// LogConfig controls the slog handler and file rotation.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// RateLimitConfig is the per-client token bucket.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// EmailConfig configures digest delivery.
type EmailConfig struct {
	ResendKey  string   `yaml:"resend_key"`
	From       string   `yaml:"from"`
	ReplyTo    string   `yaml:"reply_to"`
	Recipients []string `yaml:"digest_recipients"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Addr: ":8080", StaticDir: "static",
			ReadTimeoutSec: 15, WriteTimeoutSec: 30, ShutdownSec: 10, SlowRequestMS: 200,
		},
		Database:  DatabaseConfig{Path: "runclub.db", MaxConns: 25, SlowQueryMS: 50, PerfRing: 1000},
		Log:       LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		RateLimit: RateLimitConfig{PerSecond: 10, Burst: 20},
		Email:     EmailConfig{From: "Run Club <noreply@runclub.local>"},
	}
}

// Load reads configFile (or the first readable default path) over the
// defaults, then applies environment overrides.
// PRE: none
// POST: Returns a config or an error when the named file is unreadable or any YAML is malformed
func Load(configFile string) (*Config, error) {
	c := Default()

	paths := DefaultPaths
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if configFile != "" {
				return nil, fmt.Errorf("read config: %w", err)
			}
			continue
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		break
	}

	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	envOverride(&c.Env, "RUNCLUB_ENV")
	envOverride(&c.Server.Addr, "RUNCLUB_ADDR")
	envOverride(&c.Server.StaticDir, "RUNCLUB_STATIC_DIR")
	envOverride(&c.Server.CSRFKey, "RUNCLUB_CSRF_KEY")
	envOverride(&c.Database.Path, "RUNCLUB_DB")
	envOverrideInt(&c.Server.SlowRequestMS, "RUNCLUB_SLOW_REQUEST_MS")
	envOverrideInt(&c.Database.SlowQueryMS, "RUNCLUB_SLOW_QUERY_MS")
	envOverride(&c.Log.Level, "RUNCLUB_LOG_LEVEL")
	envOverride(&c.Log.File, "RUNCLUB_LOG_FILE")
	envOverrideFloat(&c.RateLimit.PerSecond, "RUNCLUB_RATE_LIMIT")
	envOverride(&c.Email.ResendKey, "RUNCLUB_RESEND_KEY")
	envOverride(&c.Email.From, "RUNCLUB_RESEND_FROM")
	envOverride(&c.Email.ReplyTo, "RUNCLUB_REPLY_TO")
	if v := os.Getenv("RUNCLUB_DIGEST_TO"); v != "" {
		c.Email.Recipients = splitList(v)
	}
}

// IsProduction reports whether the app runs with production safeguards.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CSRFKey decodes the configured key. It returns nil, nil when no key is
// set outside production so the caller can generate a per-process one.
func (c *Config) CSRFKey() ([]byte, error) {
	if c.Server.CSRFKey == "" {
		if c.IsProduction() {
			return nil, ErrMissingCSRFKey
		}
		return nil, nil
	}
	key, err := hex.DecodeString(c.Server.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, errors.New("csrf key must be 64 hex characters (32 bytes)")
	}
	return key, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
