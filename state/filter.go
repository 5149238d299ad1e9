package state

import (
	"slices"

	"movie-explore/model"
)

// View is the derived, never-stored projection of a Model.
type View struct {
	// Movies is the visible subset in catalog order.
	Movies []model.Movie
	// GenreOptions and RatingOptions feed the dropdowns, deduplicated
	// and sorted ascending.
	GenreOptions  []string
	RatingOptions []float64
	// Correction is non-nil when the caller must dispatch it to bring
	// the Model back in line, e.g. a primary filter with nothing selected.
	Correction Action
}

// Derive computes the visible movies and dropdown options from m. It has
// no side effects; a needed correction is returned, not dispatched.
func Derive(m Model) View {
	view := View{
		GenreOptions:  genreOptions(m),
		RatingOptions: ratingOptions(m),
	}

	if !m.HasFilters() {
		if m.PrimaryFilter != FilterNone {
			view.Correction = UpdatePrimaryFilter{Filter: FilterNone}
		}
		view.Movies = slices.Clone(m.Movies)
		return view
	}

	switch m.PrimaryFilter {
	case FilterGenre:
		movies := byGenres(m.Movies, m.FilteredGenres)
		view.Movies = byRatings(movies, m.FilteredRatings)
	default:
		movies := byRatings(m.Movies, m.FilteredRatings)
		view.Movies = byGenres(movies, m.FilteredGenres)
	}
	return view
}

// Visible is shorthand for Derive(m).Movies.
func Visible(m Model) []model.Movie {
	return Derive(m).Movies
}

// genreOptions narrows the offered genres by the rating selection when
// rating owns the primary filter; the owning dropdown always offers the
// full catalog so the user can widen the selection.
func genreOptions(m Model) []string {
	source := m.Movies
	if m.PrimaryFilter == FilterRating {
		source = byRatings(m.Movies, m.FilteredRatings)
	}
	var genres Set[string]
	for _, movie := range source {
		for _, g := range movie.Genres {
			genres = genres.With(g)
		}
	}
	return genres.Values()
}

func ratingOptions(m Model) []float64 {
	source := m.Movies
	if m.PrimaryFilter == FilterGenre {
		source = byGenres(m.Movies, m.FilteredGenres)
	}
	seen := make(map[float64]struct{}, len(source))
	out := make([]float64, 0, len(source))
	for _, movie := range source {
		if _, ok := seen[movie.Rating]; ok {
			continue
		}
		seen[movie.Rating] = struct{}{}
		out = append(out, movie.Rating)
	}
	slices.Sort(out)
	return out
}

// byGenres keeps movies carrying at least one selected genre. An empty
// selection keeps everything.
func byGenres(movies []model.Movie, genres Set[string]) []model.Movie {
	if genres.Len() == 0 {
		return slices.Clone(movies)
	}
	selected := genres.Values()
	out := make([]model.Movie, 0, len(movies))
	for _, movie := range movies {
		if slices.ContainsFunc(selected, movie.HasGenre) {
			out = append(out, movie)
		}
	}
	return out
}

// byRatings keeps movies whose rating equals one of the selected values.
// An empty selection keeps everything.
func byRatings(movies []model.Movie, ratings Set[float64]) []model.Movie {
	if ratings.Len() == 0 {
		return slices.Clone(movies)
	}
	out := make([]model.Movie, 0, len(movies))
	for _, movie := range movies {
		if ratings.Has(movie.Rating) {
			out = append(out, movie)
		}
	}
	return out
}
