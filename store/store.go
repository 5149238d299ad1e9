// Package store caches provider responses on disk. It never holds
// application state; the Model lives only for the process lifetime.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"movie-explore/model"
)

const (
	appDir         = "movie-explore"
	genreCacheTTL  = 7 * 24 * time.Hour
	moviesCacheTTL = 10 * time.Minute
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

// Cache keeps TMDB responses under the user cache directory, partitioned
// by a digest of the API key so no key is written to disk.
type Cache struct {
	dir string
	now func() time.Time
}

// NewCache returns a cache rooted in the user cache directory.
func NewCache() (*Cache, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	return &Cache{dir: filepath.Join(dir, appDir), now: time.Now}, nil
}

// NewCacheAt returns a cache rooted at dir.
func NewCacheAt(dir string) *Cache {
	return &Cache{dir: dir, now: time.Now}
}

func (c *Cache) LoadGenres(apiKey string) (map[int]string, bool, error) {
	cache, err := loadCache[map[int]string](c.path(apiKey, "genres.json"))
	if err != nil {
		return nil, false, err
	}
	return cache.Data, c.fresh(cache.UpdatedAt, genreCacheTTL), nil
}

func (c *Cache) SaveGenres(apiKey string, genres map[int]string) error {
	return saveCache(c.path(apiKey, "genres.json"), genres, c.now())
}

func (c *Cache) LoadPage(apiKey string, page int) ([]model.TMDBMovie, bool, error) {
	cache, err := loadCache[[]model.TMDBMovie](c.path(apiKey, pageFile(page)))
	if err != nil {
		return nil, false, err
	}
	return cache.Data, c.fresh(cache.UpdatedAt, moviesCacheTTL), nil
}

func (c *Cache) SavePage(apiKey string, page int, movies []model.TMDBMovie) error {
	return saveCache(c.path(apiKey, pageFile(page)), movies, c.now())
}

// Clear drops everything cached for apiKey.
func (c *Cache) Clear(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return errors.New("api key is required")
	}
	return os.RemoveAll(filepath.Join(c.dir, keyDigest(apiKey)))
}

func (c *Cache) fresh(updatedAt time.Time, ttl time.Duration) bool {
	if updatedAt.IsZero() {
		return false
	}
	return c.now().Sub(updatedAt) <= ttl
}

func (c *Cache) path(apiKey string, name string) string {
	return filepath.Join(c.dir, keyDigest(apiKey), name)
}

func pageFile(page int) string {
	return "popular_" + strconv.Itoa(page) + ".json"
}

func keyDigest(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:8])
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: now,
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
