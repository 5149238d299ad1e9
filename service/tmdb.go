package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"movie-explore/model"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

	defaultUserAgent   = "movie-explore/1.0"
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond

	// tmdbInvalidKey is the status_code TMDB reports for a rejected api_key.
	tmdbInvalidKey = 7
)

// Client wraps HTTP access to the TMDB v3 API. The API key is passed to
// each call; the client holds no credential.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	imageBaseURL string
	userAgent    string
	maxAttempts  int
	retryBase    time.Duration
	retryCap     time.Duration
	logger       *slog.Logger
}

// APIError is returned when TMDB responds with a non-2xx status.
type APIError struct {
	StatusCode   int
	Status       string
	Endpoint     string
	Body         string
	ProviderCode int
}

func (e *APIError) Error() string {
	if e == nil {
		return "tmdb api error"
	}
	return fmt.Sprintf("tmdb api error: %s: %s", e.Status, e.Body)
}

// IsInvalidKey reports whether the error is TMDB rejecting the API key.
func IsInvalidKey(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.ProviderCode == tmdbInvalidKey
	}
	return false
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsConnectivity reports whether the request never reached the provider.
func IsConnectivity(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

func WithImageBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.imageBaseURL = base
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new API client. If httpClient is nil, a default client is used.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	c := &Client{
		httpClient:   httpClient,
		baseURL:      DefaultBaseURL,
		imageBaseURL: DefaultImageBaseURL,
		userAgent:    defaultUserAgent,
		maxAttempts:  defaultMaxAttempts,
		retryBase:    defaultRetryBase,
		retryCap:     defaultRetryCap,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetGenres fetches the movie genre id to name table.
func (c *Client) GetGenres(ctx context.Context, apiKey string) (map[int]string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("api key is required")
	}
	endpoint := c.endpoint("/genre/movie/list", apiKey, nil)

	var res model.TMDBGenreResponse
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return nil, err
	}
	genres := make(map[int]string, len(res.Genres))
	for _, g := range res.Genres {
		genres[g.ID] = g.Name
	}
	return genres, nil
}

// GetPopularMovies fetches one page of popular movies. Pages start at 1.
func (c *Client) GetPopularMovies(ctx context.Context, apiKey string, page int) (model.TMDBMovieResponse, error) {
	if strings.TrimSpace(apiKey) == "" {
		return model.TMDBMovieResponse{}, errors.New("api key is required")
	}
	if page < 1 {
		page = 1
	}
	endpoint := c.endpoint("/movie/popular", apiKey, url.Values{"page": {strconv.Itoa(page)}})

	var res model.TMDBMovieResponse
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return model.TMDBMovieResponse{}, err
	}
	return res, nil
}

func (c *Client) endpoint(path string, apiKey string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", apiKey)
	return c.baseURL + path + "?" + query.Encode()
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				c.logger.Debug("retrying request", "path", redact(endpoint), "attempt", attempt, "err", err)
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   redact(endpoint),
				Body:       strings.TrimSpace(string(snippet)),
			}
			var status model.TMDBStatus
			if json.Unmarshal(snippet, &status) == nil {
				apiErr.ProviderCode = status.StatusCode
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				c.logger.Debug("retrying request", "path", apiErr.Endpoint, "attempt", attempt, "status", res.StatusCode)
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", redact(endpoint), err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}

// redact strips the api_key query parameter so endpoints can be logged.
func redact(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
