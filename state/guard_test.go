package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"movie-explore/model"
)

func allActions() []Action {
	return []Action{
		UpdateTitle{Title: "t"},
		DoNothing{},
		UpdateCredentials{Credentials: "key"},
		UpdateControl{Control: ControlState{HasCredential: true}},
		UpdateImages{},
		UpdateMovies{Movies: []model.Movie{{Title: "A"}}},
		SetActiveDrop{Target: DropGenre},
		AddFilteredGenre{Genre: "Drama"},
		RemoveFilteredGenre{Genre: "Drama"},
		AddFilteredRating{Rating: 7},
		RemoveFilteredRating{Rating: 7},
		UpdatePrimaryFilter{Filter: FilterGenre},
	}
}

// allControls enumerates every combination of the five control flags.
func allControls() []ControlState {
	var out []ControlState
	for bits := 0; bits < 32; bits++ {
		out = append(out, ControlState{
			HasCredential:      bits&1 != 0,
			CredentialAreValid: bits&2 != 0,
			IsLoadingMovieList: bits&4 != 0,
			IsLoadingGenres:    bits&8 != 0,
			HasConnection:      bits&16 != 0,
		})
	}
	return out
}

func TestAdmit_NilControl(t *testing.T) {
	for _, a := range allActions() {
		assert.Equal(t, DoNothing{}, Admit(nil, a), a.Kind())
	}
}

func TestAdmit_WithoutCredentialOnlyCredentialsPass(t *testing.T) {
	for _, cs := range allControls() {
		if cs.HasCredential {
			continue
		}
		for _, a := range allActions() {
			got := Admit(&cs, a)
			if _, ok := a.(UpdateCredentials); ok {
				assert.Equal(t, a, got, "%+v", cs)
				continue
			}
			assert.Equal(t, DoNothing{}, got, "%s with %+v", a.Kind(), cs)
		}
	}
}

func TestAdmit_InvalidCredentialOnlyCredentialsPass(t *testing.T) {
	cs := ControlState{HasCredential: true, CredentialAreValid: false, IsLoadingMovieList: true, HasConnection: true}
	for _, a := range allActions() {
		got := Admit(&cs, a)
		if _, ok := a.(UpdateCredentials); ok {
			assert.Equal(t, a, got)
			continue
		}
		assert.Equal(t, DoNothing{}, got, a.Kind())
	}
}

func TestAdmit_LoadingRejectsEverything(t *testing.T) {
	for _, cs := range allControls() {
		if !cs.HasCredential || !cs.CredentialAreValid || !cs.IsLoading() {
			continue
		}
		for _, a := range allActions() {
			assert.Equal(t, DoNothing{}, Admit(&cs, a), "%s with %+v", a.Kind(), cs)
		}
	}
}

// Rules 2 and 3 come first, so a credential update still passes while a
// load is flagged on a state that lacks a valid credential.
func TestAdmit_CredentialRulesPrecedeLoading(t *testing.T) {
	noKey := ControlState{IsLoadingMovieList: true, CredentialAreValid: true}
	badKey := ControlState{HasCredential: true, IsLoadingGenres: true}
	update := UpdateCredentials{Credentials: "k"}

	assert.Equal(t, Action(update), Admit(&noKey, update))
	assert.Equal(t, Action(update), Admit(&badKey, update))
}

func TestAdmit_ReadyPassesEverything(t *testing.T) {
	for _, hasConnection := range []bool{true, false} {
		cs := ControlState{HasCredential: true, CredentialAreValid: true, HasConnection: hasConnection}
		for _, a := range allActions() {
			assert.Equal(t, a, Admit(&cs, a), a.Kind())
		}
	}
}

func TestAdmit_NilActionWhenReady(t *testing.T) {
	cs := ControlState{HasCredential: true, CredentialAreValid: true}
	assert.Equal(t, DoNothing{}, Admit(&cs, nil))
}
