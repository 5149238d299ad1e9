package state

import (
	"slices"

	"movie-explore/model"
)

// Reduce admits action against the state's control and folds the result.
// A zero Model bootstraps to Initial regardless of the action.
func Reduce(state Model, action Action) Model {
	if state.IsZero() {
		return Initial()
	}
	return Fold(state, Admit(&state.Control, action))
}

// Fold applies action without consulting the guard. It is used for
// reports coming back from the fetch collaborator, which must land even
// while a load is in flight.
func Fold(state Model, action Action) Model {
	if state.IsZero() {
		return Initial()
	}
	return Match[Model](action, reducer{state: state})
}

// ReduceAll folds actions in order through Reduce.
func ReduceAll(state Model, actions ...Action) Model {
	for _, a := range actions {
		state = Reduce(state, a)
	}
	return state
}

type reducer struct {
	state Model
}

func (r reducer) OnUpdateTitle(a UpdateTitle) Model {
	next := r.state
	next.Title = a.Title
	return next
}

func (r reducer) OnDoNothing(DoNothing) Model {
	return r.state
}

// Validity is set provisionally; the fetch collaborator reports a bad key
// through UpdateControl once the provider has answered.
func (r reducer) OnUpdateCredentials(a UpdateCredentials) Model {
	next := r.state
	next.Credentials = a.Credentials
	next.Control.HasCredential = true
	next.Control.CredentialAreValid = true
	return next
}

func (r reducer) OnUpdateControl(a UpdateControl) Model {
	next := r.state
	next.Control = a.Control
	return next
}

func (r reducer) OnUpdateImages(UpdateImages) Model {
	return r.state
}

func (r reducer) OnUpdateMovies(a UpdateMovies) Model {
	next := r.state
	next.Movies = cloneMovies(a.Movies)
	return next
}

func (r reducer) OnSetActiveDrop(a SetActiveDrop) Model {
	next := r.state
	next.ActiveDrop = a.Target
	return next
}

func (r reducer) OnAddFilteredGenre(a AddFilteredGenre) Model {
	next := r.state
	next.FilteredGenres = next.FilteredGenres.With(a.Genre)
	return next
}

func (r reducer) OnRemoveFilteredGenre(a RemoveFilteredGenre) Model {
	next := r.state
	next.FilteredGenres = next.FilteredGenres.Without(a.Genre)
	return next
}

func (r reducer) OnAddFilteredRating(a AddFilteredRating) Model {
	next := r.state
	next.FilteredRatings = next.FilteredRatings.With(a.Rating)
	return next
}

func (r reducer) OnRemoveFilteredRating(a RemoveFilteredRating) Model {
	next := r.state
	next.FilteredRatings = next.FilteredRatings.Without(a.Rating)
	return next
}

// The primary filter has a single owner until it is cleared back to none.
func (r reducer) OnUpdatePrimaryFilter(a UpdatePrimaryFilter) Model {
	current := r.state.PrimaryFilter
	if current != FilterNone && a.Filter != FilterNone && current != a.Filter {
		return r.state
	}
	next := r.state
	next.PrimaryFilter = a.Filter
	return next
}

func cloneMovies(movies []model.Movie) []model.Movie {
	out := make([]model.Movie, len(movies))
	for i, m := range movies {
		m.Genres = slices.Clone(m.Genres)
		out[i] = m
	}
	return out
}
