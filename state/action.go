package state

import (
	"fmt"

	"movie-explore/model"
)

// Action is a closed set of event descriptors. Only this package can
// declare new variants; see Handler for exhaustive matching.
type Action interface {
	Kind() string
	isAction()
}

type UpdateTitle struct {
	Title string
}

type DoNothing struct{}

type UpdateCredentials struct {
	Credentials string
}

type UpdateControl struct {
	Control ControlState
}

// UpdateImages is reserved for image prefetch bookkeeping and has no effect.
type UpdateImages struct{}

type UpdateMovies struct {
	Movies []model.Movie
}

type SetActiveDrop struct {
	Target Drop
}

type AddFilteredGenre struct {
	Genre string
}

type RemoveFilteredGenre struct {
	Genre string
}

type AddFilteredRating struct {
	Rating float64
}

type RemoveFilteredRating struct {
	Rating float64
}

type UpdatePrimaryFilter struct {
	Filter Filter
}

func (UpdateTitle) Kind() string          { return "ActionUpdateTitle" }
func (DoNothing) Kind() string            { return "ActionDoNothing" }
func (UpdateCredentials) Kind() string    { return "ActionUpdateCredentials" }
func (UpdateControl) Kind() string        { return "ActionUpdateControl" }
func (UpdateImages) Kind() string         { return "ActionUpdateImages" }
func (UpdateMovies) Kind() string         { return "ActionUpdateMovies" }
func (SetActiveDrop) Kind() string        { return "ActionSetActiveDrop" }
func (AddFilteredGenre) Kind() string     { return "ActionAddFilteredGenre" }
func (RemoveFilteredGenre) Kind() string  { return "ActionRemoveFilteredGenre" }
func (AddFilteredRating) Kind() string    { return "ActionAddFilteredRating" }
func (RemoveFilteredRating) Kind() string { return "ActionRemoveFilteredRating" }
func (UpdatePrimaryFilter) Kind() string  { return "ActionUpdatePrimaryFilter" }

func (UpdateTitle) isAction()          {}
func (DoNothing) isAction()            {}
func (UpdateCredentials) isAction()    {}
func (UpdateControl) isAction()        {}
func (UpdateImages) isAction()         {}
func (UpdateMovies) isAction()         {}
func (SetActiveDrop) isAction()        {}
func (AddFilteredGenre) isAction()     {}
func (RemoveFilteredGenre) isAction()  {}
func (AddFilteredRating) isAction()    {}
func (RemoveFilteredRating) isAction() {}
func (UpdatePrimaryFilter) isAction()  {}

// Handler consumes every action variant. Adding a variant adds a method
// here, so each consumer stops compiling until it handles the new kind.
type Handler[R any] interface {
	OnUpdateTitle(UpdateTitle) R
	OnDoNothing(DoNothing) R
	OnUpdateCredentials(UpdateCredentials) R
	OnUpdateControl(UpdateControl) R
	OnUpdateImages(UpdateImages) R
	OnUpdateMovies(UpdateMovies) R
	OnSetActiveDrop(SetActiveDrop) R
	OnAddFilteredGenre(AddFilteredGenre) R
	OnRemoveFilteredGenre(RemoveFilteredGenre) R
	OnAddFilteredRating(AddFilteredRating) R
	OnRemoveFilteredRating(RemoveFilteredRating) R
	OnUpdatePrimaryFilter(UpdatePrimaryFilter) R
}

// Match dispatches a to the handler method for its variant. A nil action
// is treated as DoNothing.
func Match[R any](a Action, h Handler[R]) R {
	switch a := a.(type) {
	case nil:
		return h.OnDoNothing(DoNothing{})
	case UpdateTitle:
		return h.OnUpdateTitle(a)
	case DoNothing:
		return h.OnDoNothing(a)
	case UpdateCredentials:
		return h.OnUpdateCredentials(a)
	case UpdateControl:
		return h.OnUpdateControl(a)
	case UpdateImages:
		return h.OnUpdateImages(a)
	case UpdateMovies:
		return h.OnUpdateMovies(a)
	case SetActiveDrop:
		return h.OnSetActiveDrop(a)
	case AddFilteredGenre:
		return h.OnAddFilteredGenre(a)
	case RemoveFilteredGenre:
		return h.OnRemoveFilteredGenre(a)
	case AddFilteredRating:
		return h.OnAddFilteredRating(a)
	case RemoveFilteredRating:
		return h.OnRemoveFilteredRating(a)
	case UpdatePrimaryFilter:
		return h.OnUpdatePrimaryFilter(a)
	}
	// Unreachable: isAction is unexported, so no other type satisfies Action.
	panic(fmt.Sprintf("state: unmatched action %T", a))
}
