// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	APIKey       string        `env:"MOVIE_EXPLORE_API_KEY"`
	BaseURL      string        `env:"MOVIE_EXPLORE_BASE_URL" envDefault:"https://api.themoviedb.org/3"`
	ImageBaseURL string        `env:"MOVIE_EXPLORE_IMAGE_BASE_URL" envDefault:"https://image.tmdb.org/t/p/w500"`
	Title        string        `env:"MOVIE_EXPLORE_TITLE" envDefault:"Movie Explore"`
	Pages        int           `env:"MOVIE_EXPLORE_PAGES" envDefault:"3"`
	Columns      int           `env:"MOVIE_EXPLORE_COLUMNS" envDefault:"4"`
	FetchTimeout time.Duration `env:"MOVIE_EXPLORE_FETCH_TIMEOUT" envDefault:"30s"`
	NoCache      bool          `env:"MOVIE_EXPLORE_NO_CACHE"`
	LogFile      string        `env:"MOVIE_EXPLORE_LOG_FILE"`
	LogLevel     string        `env:"MOVIE_EXPLORE_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Pages < 1 || c.Pages > 20 {
		return fmt.Errorf("MOVIE_EXPLORE_PAGES must be between 1 and 20, got %d", c.Pages)
	}
	if c.Columns < 1 || c.Columns > 12 {
		return fmt.Errorf("MOVIE_EXPLORE_COLUMNS must be between 1 and 12, got %d", c.Columns)
	}
	for name, raw := range map[string]string{
		"MOVIE_EXPLORE_BASE_URL":       c.BaseURL,
		"MOVIE_EXPLORE_IMAGE_BASE_URL": c.ImageBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute url, got %q", name, raw)
		}
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("MOVIE_EXPLORE_FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Logger builds the process logger. The TUI owns the terminal, so
// without a log file everything is discarded. The returned closer must
// be called on exit.
func (c Config) Logger() (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(c.LogFile) == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

var errUnknownLevel = errors.New("unknown log level")

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("MOVIE_EXPLORE_LOG_LEVEL %q: %w", raw, errUnknownLevel)
	}
	return level, nil
}
