// Package state holds the application state core: the action vocabulary,
// the readiness guard, the reducer and the filter engine. Everything here
// is pure; side effects live in the tui and service packages.
package state

import (
	"cmp"
	"slices"

	"movie-explore/model"
)

const DefaultTitle = "Movie Explore"

// Drop identifies which filter dropdown is open.
type Drop int

const (
	DropNone Drop = iota
	DropGenre
	DropRating
)

func (d Drop) String() string {
	switch d {
	case DropGenre:
		return "genre"
	case DropRating:
		return "rating"
	default:
		return "none"
	}
}

// Filter identifies the filter category that owns arbitration order.
type Filter int

const (
	FilterNone Filter = iota
	FilterGenre
	FilterRating
)

func (f Filter) String() string {
	switch f {
	case FilterGenre:
		return "Genre"
	case FilterRating:
		return "Rating"
	default:
		return "none"
	}
}

// ControlState is the sole input of the readiness guard.
type ControlState struct {
	HasCredential      bool
	CredentialAreValid bool
	IsLoadingMovieList bool
	IsLoadingGenres    bool
	HasConnection      bool
}

// IsLoading reports whether any fetch is in flight.
func (c ControlState) IsLoading() bool {
	return c.IsLoadingMovieList || c.IsLoadingGenres
}

// IsReady reports whether general actions are admitted.
func (c ControlState) IsReady() bool {
	return c.HasCredential && c.CredentialAreValid && !c.IsLoading()
}

// Model is an immutable snapshot of the application state. Transitions
// return a new Model; the receiver is never modified.
type Model struct {
	Title           string
	Movies          []model.Movie
	Credentials     string
	Control         ControlState
	ActiveDrop      Drop
	FilteredGenres  Set[string]
	FilteredRatings Set[float64]
	PrimaryFilter   Filter

	initialized bool
}

// Initial returns the snapshot the program starts from.
func Initial() Model {
	return InitialWithTitle(DefaultTitle)
}

func InitialWithTitle(title string) Model {
	return Model{
		Title:  title,
		Movies: []model.Movie{},
		Control: ControlState{
			HasCredential:      false,
			CredentialAreValid: true,
			IsLoadingMovieList: false,
			IsLoadingGenres:    false,
			HasConnection:      true,
		},
		ActiveDrop:    DropNone,
		PrimaryFilter: FilterNone,
		initialized:   true,
	}
}

// IsZero reports whether m was never produced by Initial or a transition.
func (m Model) IsZero() bool {
	return !m.initialized
}

// HasFilters reports whether any genre or rating filter is selected.
func (m Model) HasFilters() bool {
	return m.FilteredGenres.Len() > 0 || m.FilteredRatings.Len() > 0
}

// Set is an immutable set. The zero value is an empty set. With and
// Without return a new set and leave the receiver untouched.
type Set[T cmp.Ordered] struct {
	items map[T]struct{}
}

func (s Set[T]) Len() int {
	return len(s.items)
}

func (s Set[T]) Has(v T) bool {
	_, ok := s.items[v]
	return ok
}

// With returns s plus v. When v is already present s is returned as is.
func (s Set[T]) With(v T) Set[T] {
	if s.Has(v) {
		return s
	}
	next := make(map[T]struct{}, len(s.items)+1)
	for k := range s.items {
		next[k] = struct{}{}
	}
	next[v] = struct{}{}
	return Set[T]{items: next}
}

// Without returns s minus v. When v is absent s is returned as is.
func (s Set[T]) Without(v T) Set[T] {
	if !s.Has(v) {
		return s
	}
	next := make(map[T]struct{}, len(s.items))
	for k := range s.items {
		if k != v {
			next[k] = struct{}{}
		}
	}
	return Set[T]{items: next}
}

// Values returns the members in ascending order.
func (s Set[T]) Values() []T {
	out := make([]T, 0, len(s.items))
	for k := range s.items {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
