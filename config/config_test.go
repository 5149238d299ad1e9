package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MOVIE_EXPLORE_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.BaseURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500", cfg.ImageBaseURL)
	assert.Equal(t, "Movie Explore", cfg.Title)
	assert.Equal(t, 3, cfg.Pages)
	assert.Equal(t, 4, cfg.Columns)
	assert.False(t, cfg.NoCache)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MOVIE_EXPLORE_API_KEY", "key123")
	t.Setenv("MOVIE_EXPLORE_PAGES", "1")
	t.Setenv("MOVIE_EXPLORE_COLUMNS", "6")
	t.Setenv("MOVIE_EXPLORE_NO_CACHE", "true")
	t.Setenv("MOVIE_EXPLORE_TITLE", "Tonight")
	t.Setenv("MOVIE_EXPLORE_FETCH_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "key123", cfg.APIKey)
	assert.Equal(t, 1, cfg.Pages)
	assert.Equal(t, 6, cfg.Columns)
	assert.True(t, cfg.NoCache)
	assert.Equal(t, "Tonight", cfg.Title)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"MOVIE_EXPLORE_PAGES":         "0",
		"MOVIE_EXPLORE_COLUMNS":       "99",
		"MOVIE_EXPLORE_BASE_URL":      "not a url",
		"MOVIE_EXPLORE_LOG_LEVEL":     "loud",
		"MOVIE_EXPLORE_FETCH_TIMEOUT": "0s",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie-explore.log")
	cfg := Config{LogFile: path, LogLevel: "debug"}

	logger, closer, err := cfg.Logger()
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	assert.FileExists(t, path)
}

func TestLogger_DiscardsWithoutFile(t *testing.T) {
	logger, closer, err := Config{LogLevel: "info"}.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
