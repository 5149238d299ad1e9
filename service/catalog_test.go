package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-explore/model"
)

type memoryCache struct {
	mu     sync.Mutex
	genres map[int]string
	pages  map[int][]model.TMDBMovie
}

func (c *memoryCache) LoadGenres(string) (map[int]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.genres, c.genres != nil, nil
}

func (c *memoryCache) SaveGenres(_ string, genres map[int]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.genres = genres
	return nil
}

func (c *memoryCache) LoadPage(_ string, page int) ([]model.TMDBMovie, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	movies, ok := c.pages[page]
	return movies, ok, nil
}

func (c *memoryCache) SavePage(_ string, page int, movies []model.TMDBMovie) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pages == nil {
		c.pages = map[int][]model.TMDBMovie{}
	}
	c.pages[page] = movies
	return nil
}

func catalogServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/genre/movie/list":
			_, _ = w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"},{"id":35,"name":"Comedy"}]}`))
		case "/movie/popular":
			switch r.URL.Query().Get("page") {
			case "1":
				_, _ = w.Write([]byte(`{"page":1,"results":[
{"id":1,"title":"Dune: Part Two","poster_path":"/dune.jpg","vote_average":8.16,"genre_ids":[18,99]},
{"id":2,"title":"Barbie","poster_path":"","vote_average":7.04,"genre_ids":[35]}]}`))
			case "2":
				_, _ = w.Write([]byte(`{"page":2,"results":[
{"id":2,"title":"Barbie","vote_average":7.04,"genre_ids":[35]},
{"id":3,"title":"Oppenheimer","poster_path":"/opp.jpg","vote_average":8.1,"genre_ids":[18]}]}`))
			default:
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found.","success":false}`))
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestFetchCatalog_MapsAndOrders(t *testing.T) {
	var hits int32
	server := catalogServer(t, &hits)
	defer server.Close()

	client := NewClient(server.Client(), WithBaseURL(server.URL), WithImageBaseURL("https://img.test/w500"))
	movies, err := client.FetchCatalog(context.Background(), "key", 2, nil)
	require.NoError(t, err)

	want := []model.Movie{
		{Title: "Dune", Genres: []string{"Drama"}, Poster: "https://img.test/w500/dune.jpg", Rating: 8.2},
		{Title: "Barbie", Genres: []string{"Comedy"}, Poster: "", Rating: 7},
		{Title: "Oppenheimer", Genres: []string{"Drama"}, Poster: "https://img.test/w500/opp.jpg", Rating: 8.1},
	}
	assert.Equal(t, want, movies)
}

func TestFetchCatalog_SkipsPagesPastTheEnd(t *testing.T) {
	var hits int32
	server := catalogServer(t, &hits)
	defer server.Close()

	movies, err := NewClient(server.Client(), WithBaseURL(server.URL)).FetchCatalog(context.Background(), "key", 3, nil)
	require.NoError(t, err)
	assert.Len(t, movies, 3)
}

func TestFetchCatalog_UsesFreshCache(t *testing.T) {
	var hits int32
	server := catalogServer(t, &hits)
	defer server.Close()

	cache := &memoryCache{}
	client := NewClient(server.Client(), WithBaseURL(server.URL))

	first, err := client.FetchCatalog(context.Background(), "key", 1, cache)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))

	second, err := client.FetchCatalog(context.Background(), "key", 1, cache)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits), "second fetch is served from the cache")
	assert.Equal(t, first, second)
}

func TestFetchCatalog_InvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key","success":false}`))
	}))
	defer server.Close()

	_, err := NewClient(server.Client(), WithBaseURL(server.URL)).FetchCatalog(context.Background(), "bad", 1, nil)
	assert.True(t, IsInvalidKey(err), "got %v", err)
}

func TestShortTitle(t *testing.T) {
	cases := map[string]string{
		"Dune: Part Two":      "Dune",
		"Mission: Impossible": "Mission",
		"Barbie":              "Barbie",
		"  Spaced  ":          "Spaced",
		"A: B: C":             "A",
	}
	for in, want := range cases {
		assert.Equal(t, want, ShortTitle(in), "ShortTitle(%q)", in)
	}
}

func TestRoundRating(t *testing.T) {
	cases := map[float64]float64{7.04: 7, 8.16: 8.2, -1: 0, 11: 10, 5: 5}
	for in, want := range cases {
		assert.Equal(t, want, RoundRating(in), "RoundRating(%v)", in)
	}
}
