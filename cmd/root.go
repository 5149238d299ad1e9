package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"movie-explore/config"
	"movie-explore/model"
	"movie-explore/service"
	"movie-explore/store"
	"movie-explore/tui"
)

const appName = "movie-explore"

// BuildInfo is stamped by the linker.
type BuildInfo struct {
	Version string
	Commit  string
}

type app struct {
	cfg    config.Config
	logger *slog.Logger
	client *service.Client
	cache  *store.Cache
}

// NewRootCommand creates the movie-explore command tree. Without a
// subcommand it starts the interactive browser.
func NewRootCommand(build BuildInfo) *cobra.Command {
	a := &app{}
	var closer io.Closer

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Browse popular movies and filter them by genre and rating",
		Long:          "Find what to watch this night. Needs a MovieDB (TMDB) API key.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			closer, err = a.setup()
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closer != nil {
				return closer.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}

	cmd.AddCommand(newMoviesCommand(a))
	cmd.AddCommand(newVersionCommand(build))
	return cmd
}

func (a *app) setup() (io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, closer, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	a.logger = logger
	a.client = service.NewClient(nil,
		service.WithBaseURL(cfg.BaseURL),
		service.WithImageBaseURL(cfg.ImageBaseURL),
		service.WithLogger(logger),
	)
	if !cfg.NoCache {
		cache, err := store.NewCache()
		if err != nil {
			logger.Warn("cache disabled", "err", err)
		} else {
			a.cache = cache
		}
	}
	return closer, nil
}

func (a *app) fetch(ctx context.Context, apiKey string) ([]model.Movie, error) {
	if a.cache == nil {
		return a.client.FetchCatalog(ctx, apiKey, a.cfg.Pages, nil)
	}
	return a.client.FetchCatalog(ctx, apiKey, a.cfg.Pages, a.cache)
}

// dropCache forgets cached responses for apiKey so the next fetch goes to
// the provider.
func (a *app) dropCache(apiKey string) error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Clear(apiKey)
}

func (a *app) runTUI() error {
	program := tea.NewProgram(tui.New(tui.Options{
		Fetch:        a.fetch,
		Logger:       a.logger,
		Title:        a.cfg.Title,
		APIKey:       a.cfg.APIKey,
		Columns:      a.cfg.Columns,
		FetchTimeout: a.cfg.FetchTimeout,
	}), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func newVersionCommand(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, build.Version)
			if build.Commit != "none" && build.Commit != "" {
				fmt.Fprintf(out, " (%s)", build.Commit)
			}
			fmt.Fprintln(out)
		},
	}
}

var errMissingKey = errors.New("an API key is required: pass --api-key or set MOVIE_EXPLORE_API_KEY")
