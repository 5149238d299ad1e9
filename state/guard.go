package state

// Admit gates an action on the readiness pipeline: obtain a credential,
// validate it, wait out in-flight loads, then accept everything. Rejected
// actions come back as DoNothing. A nil control admits nothing.
func Admit(control *ControlState, action Action) Action {
	if control == nil {
		return DoNothing{}
	}
	if !control.HasCredential {
		return credentialsOnly(action)
	}
	if control.HasCredential && !control.CredentialAreValid {
		return credentialsOnly(action)
	}
	if control.IsLoadingMovieList || control.IsLoadingGenres {
		return DoNothing{}
	}
	if !control.IsLoadingMovieList &&
		!control.IsLoadingGenres &&
		control.HasCredential &&
		control.CredentialAreValid {
		if action == nil {
			return DoNothing{}
		}
		return action
	}
	return DoNothing{}
}

func credentialsOnly(action Action) Action {
	if a, ok := action.(UpdateCredentials); ok {
		return a
	}
	return DoNothing{}
}
