package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"movie-explore/model"
)

// Cache stores provider responses between runs. Implementations report
// whether a hit is still fresh; stale hits are refetched.
type Cache interface {
	LoadGenres(apiKey string) (map[int]string, bool, error)
	SaveGenres(apiKey string, genres map[int]string) error
	LoadPage(apiKey string, page int) ([]model.TMDBMovie, bool, error)
	SavePage(apiKey string, page int, movies []model.TMDBMovie) error
}

type pageResult struct {
	page   int
	movies []model.TMDBMovie
	err    error
}

// FetchCatalog loads the genre table and the first pages of popular
// movies concurrently and maps them into catalog entries in fetch order.
// cache may be nil.
func (c *Client) FetchCatalog(ctx context.Context, apiKey string, pages int, cache Cache) ([]model.Movie, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("api key is required")
	}
	if pages < 1 {
		pages = 1
	}

	var (
		wg        sync.WaitGroup
		genres    map[int]string
		genresErr error
	)
	out := make(chan pageResult, pages)
	sem := make(chan struct{}, 4)

	wg.Add(1)
	go func() {
		defer wg.Done()
		genres, genresErr = c.loadGenres(ctx, apiKey, cache)
	}()

	for page := 1; page <= pages; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			sem <- struct{}{}
			movies, err := c.loadPage(ctx, apiKey, page, cache)
			<-sem
			out <- pageResult{page: page, movies: movies, err: err}
		}(page)
	}

	wg.Wait()
	close(out)

	if genresErr != nil {
		return nil, fmt.Errorf("fetch genres: %w", genresErr)
	}

	results := make([]pageResult, 0, pages)
	for res := range out {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].page < results[j].page })

	var records []model.TMDBMovie
	for _, res := range results {
		if res.err != nil {
			// The first page decides; later pages are a bonus.
			if res.page == 1 {
				return nil, fmt.Errorf("fetch movies: %w", res.err)
			}
			if IsNotFound(res.err) {
				c.logger.Debug("catalog page past the end", "page", res.page)
				continue
			}
			c.logger.Warn("skipping catalog page", "page", res.page, "err", res.err)
			continue
		}
		records = append(records, res.movies...)
	}

	movies := MapMovies(records, genres, c.imageBaseURL)
	c.logger.Info("catalog fetched", "movies", len(movies), "genres", len(genres), "pages", pages)
	return movies, nil
}

func (c *Client) loadGenres(ctx context.Context, apiKey string, cache Cache) (map[int]string, error) {
	if cache != nil {
		if cached, fresh, err := cache.LoadGenres(apiKey); err == nil && fresh && len(cached) > 0 {
			return cached, nil
		}
	}
	genres, err := c.GetGenres(ctx, apiKey)
	if err == nil && cache != nil && len(genres) > 0 {
		if saveErr := cache.SaveGenres(apiKey, genres); saveErr != nil {
			c.logger.Warn("cache genres", "err", saveErr)
		}
	}
	return genres, err
}

func (c *Client) loadPage(ctx context.Context, apiKey string, page int, cache Cache) ([]model.TMDBMovie, error) {
	if cache != nil {
		if cached, fresh, err := cache.LoadPage(apiKey, page); err == nil && fresh && len(cached) > 0 {
			return cached, nil
		}
	}
	res, err := c.GetPopularMovies(ctx, apiKey, page)
	if err != nil {
		return nil, err
	}
	if cache != nil && len(res.Results) > 0 {
		if saveErr := cache.SavePage(apiKey, page, res.Results); saveErr != nil {
			c.logger.Warn("cache page", "page", page, "err", saveErr)
		}
	}
	return res.Results, nil
}

// MapMovies converts provider records into catalog movies. Records that
// repeat an id are kept once; unknown genre ids are dropped.
func MapMovies(records []model.TMDBMovie, genres map[int]string, imageBaseURL string) []model.Movie {
	seen := make(map[int]bool, len(records))
	movies := make([]model.Movie, 0, len(records))
	for _, rec := range records {
		if rec.ID != 0 {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
		}
		names := make([]string, 0, len(rec.GenreIDs))
		for _, id := range rec.GenreIDs {
			if name, ok := genres[id]; ok && name != "" {
				names = append(names, name)
			}
		}
		movies = append(movies, model.Movie{
			Title:  ShortTitle(rec.Title),
			Genres: names,
			Poster: model.NewPosterURL(imageBaseURL, rec.PosterPath),
			Rating: RoundRating(rec.VoteAverage),
		})
	}
	return movies
}

// ShortTitle drops everything from the first colon on, so subtitles do
// not crowd the grid.
func ShortTitle(title string) string {
	if i := strings.Index(title, ":"); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}

// RoundRating keeps one decimal and clamps to the [0,10] scale.
func RoundRating(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return math.Round(v*10) / 10
}
