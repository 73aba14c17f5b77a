// Package config loads kitzur.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/roach88/kitzur/internal/corpus"
	"github.com/roach88/kitzur/internal/cycle"
	"github.com/roach88/kitzur/internal/errs"
	"github.com/roach88/kitzur/internal/match"
)

// Config is the on-disk configuration. Zero fields take their defaults.
type Config struct {
	Corpus         string  `yaml:"corpus"`
	DB             string  `yaml:"db"`
	Prefix         string  `yaml:"prefix"`
	Anchor         string  `yaml:"anchor"`
	Timezone       string  `yaml:"timezone"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
	CacheSize      int     `yaml:"cache_size"`
	WatchSpec      string  `yaml:"watch_spec"`
	LogLevel       string  `yaml:"log_level"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		Corpus:         "corpus",
		DB:             "kitzur.db",
		Prefix:         corpus.DefaultPrefix,
		Anchor:         cycle.DefaultAnchor.Format(time.DateOnly),
		Timezone:       "UTC",
		FuzzyThreshold: match.DefaultThreshold,
		CacheSize:      64,
		WatchSpec:      "0 0 * * *",
		LogLevel:       "info",
	}
}

// Load reads path over Defaults and validates the result.
// Unknown keys are rejected; an empty file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, errs.Validation("%s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field that has a constrained form.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Prefix) == "" {
		return errs.Validation("prefix must not be empty").WithDetail("field", "prefix")
	}
	if _, err := c.AnchorDate(); err != nil {
		return errs.Validation("anchor: %v", err).WithDetail("field", "anchor")
	}
	if _, err := c.Location(); err != nil {
		return errs.Validation("timezone: %v", err).WithDetail("field", "timezone")
	}
	if err := match.CheckThreshold(c.FuzzyThreshold); err != nil {
		return errs.Validation("fuzzy_threshold: %v", err).WithDetail("field", "fuzzy_threshold")
	}
	if c.CacheSize < 1 {
		return errs.Validation("cache_size must be positive, got %d", c.CacheSize).WithDetail("field", "cache_size")
	}
	if _, err := cron.ParseStandard(c.WatchSpec); err != nil {
		return errs.Validation("watch_spec: %v", err).WithDetail("field", "watch_spec")
	}
	if _, err := c.Level(); err != nil {
		return errs.Validation("log_level: %v", err).WithDetail("field", "log_level")
	}
	return nil
}

// AnchorDate parses Anchor as a YYYY-MM-DD date.
func (c Config) AnchorDate() (time.Time, error) {
	return cycle.ParseDate(c.Anchor)
}

// Location loads Timezone. An empty timezone is UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Level parses LogLevel (debug, info, warn, error).
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}
