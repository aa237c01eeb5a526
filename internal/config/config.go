package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// Config holds the client settings.
type Config struct {
	Path            string
	APIURL          string
	RequestTimeout  time.Duration
	RetryMax        int
	MaxVisiblePages int
	LogFile         string
	LogLevel        zerolog.Level
}

const (
	defaultConfigPath      = "~/.config/stoq/config.toml"
	defaultAPIURL          = "http://127.0.0.1:8000"
	defaultRequestTimeout  = 5 * time.Second
	defaultMaxVisiblePages = 5
	defaultLogFile         = "~/.local/state/stoq/stoq.log"
	defaultLogLevel        = zerolog.InfoLevel

	EnvAPIURL   = "STOQ_API_URL"
	EnvLogLevel = "STOQ_LOG_LEVEL"
	EnvLogFile  = "STOQ_LOG_FILE"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Path:            mustExpand(defaultConfigPath),
		APIURL:          defaultAPIURL,
		RequestTimeout:  defaultRequestTimeout,
		MaxVisiblePages: defaultMaxVisiblePages,
		LogFile:         mustExpand(defaultLogFile),
		LogLevel:        defaultLogLevel,
	}
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are given) into the process environment. Missing files are ignored and
// variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load parses the TOML file at path (the default location when empty),
// falls back to defaults for a missing file or blank values, and applies
// environment overrides last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.Path = resolved

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, applyEnv(&cfg, os.LookupEnv)
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL                string `toml:"api_url"`
		RequestTimeoutSeconds *int   `toml:"request_timeout_seconds"`
		RetryMax              *int   `toml:"retry_max"`
		MaxVisiblePages       *int   `toml:"max_visible_pages"`
		LogFile               string `toml:"log_file"`
		LogLevel              string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.RequestTimeoutSeconds != nil {
		if *raw.RequestTimeoutSeconds < 1 {
			return Config{}, fmt.Errorf("parse config: request_timeout_seconds must be at least 1")
		}
		cfg.RequestTimeout = time.Duration(*raw.RequestTimeoutSeconds) * time.Second
	}
	if raw.RetryMax != nil {
		if *raw.RetryMax < 0 {
			return Config{}, fmt.Errorf("parse config: retry_max must not be negative")
		}
		cfg.RetryMax = *raw.RetryMax
	}
	if raw.MaxVisiblePages != nil {
		if *raw.MaxVisiblePages < 1 {
			return Config{}, fmt.Errorf("parse config: max_visible_pages must be at least 1")
		}
		cfg.MaxVisiblePages = *raw.MaxVisiblePages
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.LogLevel = level
	}

	return cfg, applyEnv(&cfg, os.LookupEnv)
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(value string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", value)
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIURL); ok && strings.TrimSpace(v) != "" {
		cfg.APIURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogFile); ok && strings.TrimSpace(v) != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	return nil
}

// Summary lists the effective settings for display.
func (c Config) Summary() []string {
	return []string{
		"config: " + c.Path,
		"api_url: " + c.APIURL,
		"request_timeout_seconds: " + strconv.Itoa(int(c.RequestTimeout/time.Second)),
		"retry_max: " + strconv.Itoa(c.RetryMax),
		"max_visible_pages: " + strconv.Itoa(c.MaxVisiblePages),
		"log_file: " + c.LogFile,
		"log_level: " + c.LogLevel.String(),
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ to the home directory and returns an
// absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
