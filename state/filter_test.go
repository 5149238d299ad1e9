package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-explore/model"
)

var (
	movieA = model.Movie{Title: "A", Genres: []string{"Drama"}, Rating: 7}
	movieB = model.Movie{Title: "B", Genres: []string{"Comedy"}, Rating: 5}
	movieC = model.Movie{Title: "C", Genres: []string{"Comedy", "Drama"}, Rating: 7}
	movieD = model.Movie{Title: "D", Genres: []string{"Horror"}, Rating: 5}
)

func titles(movies []model.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}

func TestDerive_NoFiltersShowsCatalog(t *testing.T) {
	m := readyModel(movieA, movieB)

	view := Derive(m)

	assert.Equal(t, []string{"A", "B"}, titles(view.Movies))
	assert.Nil(t, view.Correction)
	assert.Equal(t, []string{"Comedy", "Drama"}, view.GenreOptions)
	assert.Equal(t, []float64{5, 7}, view.RatingOptions)
}

func TestDerive_GenrePrimary(t *testing.T) {
	m := ReduceAll(readyModel(movieA, movieB),
		AddFilteredGenre{Genre: "Drama"},
		UpdatePrimaryFilter{Filter: FilterGenre},
	)

	assert.Equal(t, []string{"A"}, titles(Visible(m)))
}

func TestDerive_GenrePrimaryNarrowedByRating(t *testing.T) {
	m := ReduceAll(readyModel(movieA, movieB),
		AddFilteredGenre{Genre: "Drama"},
		UpdatePrimaryFilter{Filter: FilterGenre},
		AddFilteredRating{Rating: 5},
	)

	view := Derive(m)

	assert.Empty(t, view.Movies)
	assert.Nil(t, view.Correction)
}

func TestDerive_RatingPrimaryNarrowedByGenre(t *testing.T) {
	m := ReduceAll(readyModel(movieA, movieB, movieC, movieD),
		AddFilteredRating{Rating: 7},
		UpdatePrimaryFilter{Filter: FilterRating},
		AddFilteredGenre{Genre: "Comedy"},
	)

	assert.Equal(t, []string{"C"}, titles(Visible(m)))
}

func TestDerive_MultipleValuesWithinCategory(t *testing.T) {
	m := ReduceAll(readyModel(movieA, movieB, movieC, movieD),
		AddFilteredGenre{Genre: "Drama"},
		AddFilteredGenre{Genre: "Horror"},
		UpdatePrimaryFilter{Filter: FilterGenre},
	)
	assert.Equal(t, []string{"A", "C", "D"}, titles(Visible(m)))

	m = ReduceAll(m, AddFilteredRating{Rating: 5}, AddFilteredRating{Rating: 7})
	assert.Equal(t, []string{"A", "C", "D"}, titles(Visible(m)))
}

func TestDerive_NoPrimaryWithFiltersUsesRatingOrder(t *testing.T) {
	m := ReduceAll(readyModel(movieA, movieB, movieC),
		AddFilteredGenre{Genre: "Comedy"},
	)
	require.Equal(t, FilterNone, m.PrimaryFilter)
	assert.Equal(t, []string{"B", "C"}, titles(Visible(m)))

	m = Reduce(m, AddFilteredRating{Rating: 5})
	assert.Equal(t, []string{"B"}, titles(Visible(m)))
}

func TestDerive_EmptySelectionClearsPrimary(t *testing.T) {
	m := ReduceAll(readyModel(movieA, movieB),
		AddFilteredGenre{Genre: "Drama"},
		UpdatePrimaryFilter{Filter: FilterGenre},
		AddFilteredRating{Rating: 7},
		RemoveFilteredGenre{Genre: "Drama"},
		RemoveFilteredRating{Rating: 7},
	)
	require.Equal(t, FilterGenre, m.PrimaryFilter)

	view := Derive(m)

	assert.Equal(t, []string{"A", "B"}, titles(view.Movies))
	require.NotNil(t, view.Correction)
	assert.Equal(t, UpdatePrimaryFilter{Filter: FilterNone}, view.Correction)

	m = Reduce(m, view.Correction)
	assert.Equal(t, FilterNone, m.PrimaryFilter)
	assert.Nil(t, Derive(m).Correction)
}

func TestDerive_DoesNotTouchModel(t *testing.T) {
	m := ReduceAll(readyModel(movieA, movieB),
		AddFilteredGenre{Genre: "Drama"},
		UpdatePrimaryFilter{Filter: FilterGenre},
	)

	view := Derive(m)
	view.Movies[0].Title = "changed"

	assert.Equal(t, "A", m.Movies[0].Title)
}

func TestDerive_OptionsFollowOtherPrimary(t *testing.T) {
	catalog := readyModel(movieA, movieB, movieC, movieD)

	byGenre := ReduceAll(catalog,
		AddFilteredGenre{Genre: "Horror"},
		UpdatePrimaryFilter{Filter: FilterGenre},
	)
	view := Derive(byGenre)
	assert.Equal(t, []float64{5}, view.RatingOptions)
	assert.Equal(t, []string{"Comedy", "Drama", "Horror"}, view.GenreOptions)

	byRating := ReduceAll(catalog,
		AddFilteredRating{Rating: 7},
		UpdatePrimaryFilter{Filter: FilterRating},
	)
	view = Derive(byRating)
	assert.Equal(t, []string{"Comedy", "Drama"}, view.GenreOptions)
	assert.Equal(t, []float64{5, 7}, view.RatingOptions)
}

func TestDerive_GenreMatchIsCaseSensitive(t *testing.T) {
	m := ReduceAll(readyModel(movieA),
		AddFilteredGenre{Genre: "drama"},
		UpdatePrimaryFilter{Filter: FilterGenre},
	)

	assert.Empty(t, Visible(m))
}

func TestDerive_RatingMatchIsExact(t *testing.T) {
	m := ReduceAll(readyModel(model.Movie{Title: "A", Rating: 7.1}),
		AddFilteredRating{Rating: 7},
		UpdatePrimaryFilter{Filter: FilterRating},
	)

	assert.Empty(t, Visible(m))
}
