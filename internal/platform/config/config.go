// Package config loads runtime settings from defaults, an optional YAML
// file and PRACTICEPLAN_* environment variables, in that order.
package config

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvProduction is the Env value that enables production checks.
const EnvProduction = "production"

// Config holds runtime settings for the server and CLI.
type Config struct {
	Env                string        `yaml:"env"`
	Addr               string        `yaml:"addr"`
	DBPath             string        `yaml:"db_path"`
	LogLevel           string        `yaml:"log_level"`
	SlowQueryMs        int           `yaml:"slow_query_ms"`
	SlowRequestMs      int           `yaml:"slow_request_ms"`
	RateLimitPerSecond int           `yaml:"rate_limit_per_second"`
	CSRFKey            string        `yaml:"csrf_key"` // 64 hex chars
	SecureCookies      bool          `yaml:"secure_cookies"`
	TrustedOrigins     []string      `yaml:"trusted_origins"`
	TickInterval       time.Duration `yaml:"tick_interval"`
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Env:                "development",
		Addr:               ":8080",
		DBPath:             "practiceplan.db",
		LogLevel:           "info",
		SlowQueryMs:        50,
		SlowRequestMs:      200,
		RateLimitPerSecond: 10,
		TickInterval:       time.Second,
	}
}

// Load builds a Config. path may be empty; a missing file is an error only
// when path was given explicitly.
// POST: returned config has passed Validate
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode overlays YAML settings onto cfg. Unknown keys are rejected.
func (c *Config) decode(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	envOrDefault := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}
	intOrDefault := func(key string, fallback int) (int, error) {
		v := getenv(key)
		if v == "" {
			return fallback, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	}

	c.Env = envOrDefault("PRACTICEPLAN_ENV", c.Env)
	c.Addr = envOrDefault("PRACTICEPLAN_ADDR", c.Addr)
	c.DBPath = envOrDefault("PRACTICEPLAN_DB", c.DBPath)
	c.LogLevel = envOrDefault("PRACTICEPLAN_LOG_LEVEL", c.LogLevel)
	c.CSRFKey = envOrDefault("PRACTICEPLAN_CSRF_KEY", c.CSRFKey)
	if v := getenv("PRACTICEPLAN_TRUSTED_ORIGINS"); v != "" {
		c.TrustedOrigins = strings.Split(v, ",")
	}
	if v := getenv("PRACTICEPLAN_SECURE_COOKIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PRACTICEPLAN_SECURE_COOKIES: %w", err)
		}
		c.SecureCookies = b
	}
	if v := getenv("PRACTICEPLAN_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PRACTICEPLAN_TICK_INTERVAL: %w", err)
		}
		c.TickInterval = d
	}

	var err error
	if c.SlowQueryMs, err = intOrDefault("PRACTICEPLAN_SLOW_QUERY_MS", c.SlowQueryMs); err != nil {
		return err
	}
	if c.SlowRequestMs, err = intOrDefault("PRACTICEPLAN_SLOW_REQUEST_MS", c.SlowRequestMs); err != nil {
		return err
	}
	if c.RateLimitPerSecond, err = intOrDefault("PRACTICEPLAN_RATE_LIMIT", c.RateLimitPerSecond); err != nil {
		return err
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.SlowQueryMs < 0 || c.SlowRequestMs < 0 {
		errs = append(errs, errors.New("slow thresholds must not be negative"))
	}
	if c.RateLimitPerSecond <= 0 {
		errs = append(errs, errors.New("rate_limit_per_second must be positive"))
	}
	if c.TickInterval < 100*time.Millisecond {
		errs = append(errs, errors.New("tick_interval must be at least 100ms"))
	}
	if c.CSRFKey != "" {
		if b, err := hex.DecodeString(c.CSRFKey); err != nil || len(b) != 32 {
			errs = append(errs, errors.New("csrf_key must be 64 hex characters"))
		}
	} else if c.IsProduction() {
		errs = append(errs, errors.New("csrf_key is required in production"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether production checks apply.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DSN returns the modernc SQLite DSN for DBPath with WAL mode, foreign keys
// and a busy timeout.
func (c Config) DSN() string {
	return c.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
}

// CSRFKeyBytes returns the decoded CSRF key, or nil when none is configured.
func (c Config) CSRFKeyBytes() []byte {
	if c.CSRFKey == "" {
		return nil
	}
	b, err := hex.DecodeString(c.CSRFKey)
	if err != nil {
		return nil
	}
	return b
}

// NewLogger returns a JSON logger in production and a text logger otherwise.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, err)
	}
	return level, nil
}
