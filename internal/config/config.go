// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/csg33k/hrdoc-generator/internal/layout"
)

type Config struct {
	Port         string
	DBPath       string
	StorageDir   string
	LayoutPath   string
	Layout       layout.Config
	LogLevel     slog.Level
	LogFormat    string // "text" or "json"
	FetchTimeout time.Duration
	MaxImagePx   int
}

// Load reads .env (a missing file is only logged) and then the process
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no .env file")
		} else {
			slog.Warn("error loading .env file", "err", err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Unset values take their defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	c := &Config{
		Port:       get("PORT", "8080"),
		DBPath:     get("DB_PATH", "hrdocs.db"),
		StorageDir: get("STORAGE_DIR", "storage"),
		LayoutPath: get("LAYOUT_CONFIG", ""),
		LogFormat:  strings.ToLower(get("LOG_FORMAT", "text")),
		Layout:     layout.DefaultConfig(),
	}

	var errs []error
	if c.LayoutPath != "" {
		lc, err := layout.LoadConfig(c.LayoutPath)
		if err != nil {
			errs = append(errs, fmt.Errorf("LAYOUT_CONFIG: %w", err))
		} else {
			c.Layout = lc
		}
	}
	if v := get("OVERFLOW_POLICY", ""); v != "" {
		o, err := layout.ParseOverflow(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("OVERFLOW_POLICY: %w", err))
		}
		c.Layout.Overflow = o
	}
	if err := c.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: want text or json, got %q", c.LogFormat))
	}
	timeout, err := time.ParseDuration(get("FETCH_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT: invalid duration %q", getenv("FETCH_TIMEOUT")))
	}
	c.FetchTimeout = timeout
	px, err := strconv.Atoi(get("MAX_IMAGE_PX", "1200"))
	if err != nil || px <= 0 {
		errs = append(errs, fmt.Errorf("MAX_IMAGE_PX: invalid value %q", getenv("MAX_IMAGE_PX")))
	}
	c.MaxImagePx = px

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Logger builds the process logger.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
