package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"movie-explore/model"
	"movie-explore/service"
	"movie-explore/state"
)

type fetchFunc func(ctx context.Context, apiKey string) ([]model.Movie, error)

type moviesOptions struct {
	apiKey  string
	genres  []string
	ratings []float64
	primary string
	options bool
	refresh bool
	timeout time.Duration
}

func newMoviesCommand(a *app) *cobra.Command {
	opts := &moviesOptions{}
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "Print the catalog, optionally filtered by genre and rating",
		Example: `  movie-explore movies --genre Drama
  movie-explore movies --rating 7.5 --genre Comedy --primary rating`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.apiKey == "" {
				opts.apiKey = a.cfg.APIKey
			}
			if opts.refresh && opts.apiKey != "" {
				if err := a.dropCache(opts.apiKey); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
			}
			if opts.timeout <= 0 {
				opts.timeout = a.cfg.FetchTimeout
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runMovies(ctx, a.fetch, a.cfg.Title, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "MovieDB API key (defaults to MOVIE_EXPLORE_API_KEY)")
	cmd.Flags().StringSliceVar(&opts.genres, "genre", nil, "keep movies with this genre (repeatable)")
	cmd.Flags().Float64SliceVar(&opts.ratings, "rating", nil, "keep movies with exactly this rating (repeatable)")
	cmd.Flags().StringVar(&opts.primary, "primary", "", "filter applied first: genre or rating")
	cmd.Flags().BoolVar(&opts.options, "options", false, "also print the available genre and rating options")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached responses for this key")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "fetch timeout (defaults to MOVIE_EXPLORE_FETCH_TIMEOUT)")
	return cmd
}

func runMovies(ctx context.Context, fetch fetchFunc, title string, opts *moviesOptions, out io.Writer) error {
	apiKey := strings.TrimSpace(opts.apiKey)
	if apiKey == "" {
		return errMissingKey
	}
	primary, err := parsePrimary(opts.primary, opts.genres, opts.ratings)
	if err != nil {
		return err
	}

	m := state.Reduce(state.InitialWithTitle(title), state.UpdateCredentials{Credentials: apiKey})
	m = state.Reduce(m, state.UpdateControl{Control: service.Loading(m.Control)})

	movies, fetchErr := fetch(ctx, apiKey)
	for _, action := range service.ReportActions(m.Control, movies, fetchErr) {
		m = state.Fold(m, action)
	}
	switch {
	case !m.Control.CredentialAreValid:
		return errors.New("invalid API key")
	case !m.Control.HasConnection:
		return fmt.Errorf("check internet connection: %w", fetchErr)
	case fetchErr != nil:
		return fmt.Errorf("fetch catalog: %w", fetchErr)
	}

	view := applyFilters(m, opts.genres, opts.ratings, primary)
	renderMovies(out, m.Title, view, len(m.Movies))
	if opts.options {
		renderOptions(out, view)
	}
	return nil
}

// applyFilters folds the requested selections into m the way the
// interactive dropdowns do and derives the view, settling any correction.
func applyFilters(m state.Model, genres []string, ratings []float64, primary state.Filter) state.View {
	var actions []state.Action
	for _, g := range genres {
		actions = append(actions, state.AddFilteredGenre{Genre: g})
	}
	for _, r := range ratings {
		actions = append(actions, state.AddFilteredRating{Rating: service.RoundRating(r)})
	}
	actions = append(actions, state.UpdatePrimaryFilter{Filter: primary})
	m = state.ReduceAll(m, actions...)

	view := state.Derive(m)
	for view.Correction != nil {
		m = state.Reduce(m, view.Correction)
		view = state.Derive(m)
	}
	return view
}

func parsePrimary(raw string, genres []string, ratings []float64) (state.Filter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "genre":
		return state.FilterGenre, nil
	case "rating":
		return state.FilterRating, nil
	case "":
		if len(genres) > 0 {
			return state.FilterGenre, nil
		}
		if len(ratings) > 0 {
			return state.FilterRating, nil
		}
		return state.FilterNone, nil
	default:
		return state.FilterNone, fmt.Errorf("invalid --primary %q: must be genre or rating", raw)
	}
}

func renderMovies(out io.Writer, title string, view state.View, total int) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "Title", "Rating", "Genres"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 40},
		{Number: 4, WidthMax: 40},
	})
	for i, movie := range view.Movies {
		t.AppendRow(table.Row{
			i + 1,
			movie.Title,
			strconv.FormatFloat(movie.Rating, 'f', 1, 64),
			strings.Join(movie.Genres, ", "),
		})
	}
	t.AppendFooter(table.Row{"", "", "Showing", fmt.Sprintf("%d of %d", len(view.Movies), total)})
	t.Render()
}

func renderOptions(out io.Writer, view state.View) {
	ratings := make([]string, 0, len(view.RatingOptions))
	for _, r := range view.RatingOptions {
		ratings = append(ratings, strconv.FormatFloat(r, 'f', 1, 64))
	}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Filter", "Options"})
	t.AppendRow(table.Row{"Genres", strings.Join(view.GenreOptions, ", ")})
	t.AppendRow(table.Row{"Ratings", strings.Join(ratings, ", ")})
	t.Render()
}
