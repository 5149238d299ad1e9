package service

import (
	"movie-explore/model"
	"movie-explore/state"
)

// Loading returns control with both fetch flags raised.
func Loading(control state.ControlState) state.ControlState {
	control.IsLoadingMovieList = true
	control.IsLoadingGenres = true
	return control
}

// ReportActions translates the outcome of a catalog fetch into the actions
// the state core folds back in. control is the state at completion time.
func ReportActions(control state.ControlState, movies []model.Movie, err error) []state.Action {
	done := control
	done.IsLoadingMovieList = false
	done.IsLoadingGenres = false

	switch {
	case err == nil:
		done.HasConnection = true
		return []state.Action{
			state.UpdateMovies{Movies: movies},
			state.UpdateControl{Control: done},
		}
	case IsInvalidKey(err):
		done.CredentialAreValid = false
		done.HasConnection = true
	case IsConnectivity(err):
		// Dropping the credential brings the login form back so the
		// user can resubmit once the connection returns.
		done.HasConnection = false
		done.HasCredential = false
	}
	return []state.Action{state.UpdateControl{Control: done}}
}
