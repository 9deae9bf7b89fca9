// ABOUTME: Configuration loaded from an optional YAML file with QUIRE_* environment overrides.
// ABOUTME: Converts to history options and editor store settings; rejects negative limits.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/2389-research/quire/history"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidMaxHistory  = errors.New("max_history must not be negative")
	ErrInvalidDebounce    = errors.New("debounce_ms must not be negative")
	ErrInvalidMaxSessions = errors.New("max_sessions must not be negative")
	ErrInvalidSessionTTL  = errors.New("session_ttl must not be negative")
)

// HistoryConfig controls the undo/redo engine.
type HistoryConfig struct {
	MaxHistory int `yaml:"max_history"` // QUIRE_MAX_HISTORY, default 50
	DebounceMs int `yaml:"debounce_ms"` // QUIRE_DEBOUNCE_MS, default 500
}

// EditorConfig controls the session store.
type EditorConfig struct {
	MaxSessions int           `yaml:"max_sessions"` // QUIRE_MAX_SESSIONS, default 100
	SessionTTL  time.Duration `yaml:"session_ttl"`  // QUIRE_SESSION_TTL, default 1h
}

// VersionsConfig locates version documents for the CLI.
type VersionsConfig struct {
	Dir string `yaml:"dir"` // QUIRE_VERSIONS_DIR, default ./versions
}

// Config is the full quire configuration.
type Config struct {
	History         HistoryConfig  `yaml:"history"`
	Editor          EditorConfig   `yaml:"editor"`
	Versions        VersionsConfig `yaml:"versions"`
	DefaultLanguage string         `yaml:"default_language"` // QUIRE_DEFAULT_LANGUAGE, default en
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{
			MaxHistory: history.DefaultMaxHistory,
			DebounceMs: int(history.DefaultDebounce / time.Millisecond),
		},
		Editor: EditorConfig{
			MaxSessions: 100,
			SessionTTL:  time.Hour,
		},
		Versions:        VersionsConfig{Dir: "versions"},
		DefaultLanguage: "en",
	}
}

// Load starts from Default, applies the YAML file at path when path is
// non-empty, then applies QUIRE_* environment variables, and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if err := envInt("QUIRE_MAX_HISTORY", &c.History.MaxHistory); err != nil {
		return err
	}
	if err := envInt("QUIRE_DEBOUNCE_MS", &c.History.DebounceMs); err != nil {
		return err
	}
	if err := envInt("QUIRE_MAX_SESSIONS", &c.Editor.MaxSessions); err != nil {
		return err
	}
	if v := os.Getenv("QUIRE_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QUIRE_SESSION_TTL=%q: %w", v, err)
		}
		c.Editor.SessionTTL = d
	}
	c.Versions.Dir = envOrDefault("QUIRE_VERSIONS_DIR", c.Versions.Dir)
	c.DefaultLanguage = envOrDefault("QUIRE_DEFAULT_LANGUAGE", c.DefaultLanguage)
	return nil
}

// Validate rejects negative limits. Zero values fall back to defaults where
// they are consumed.
func (c *Config) Validate() error {
	if c.History.MaxHistory < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxHistory, c.History.MaxHistory)
	}
	if c.History.DebounceMs < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDebounce, c.History.DebounceMs)
	}
	if c.Editor.MaxSessions < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSessions, c.Editor.MaxSessions)
	}
	if c.Editor.SessionTTL < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSessionTTL, c.Editor.SessionTTL)
	}
	return nil
}

// HistoryOptions converts the history section into manager options.
func (c *Config) HistoryOptions() []history.Option {
	return []history.Option{
		history.WithMaxHistory(c.History.MaxHistory),
		history.WithDebounce(time.Duration(c.History.DebounceMs) * time.Millisecond),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}
