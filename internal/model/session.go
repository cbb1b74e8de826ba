package model

// Session is the authenticated-or-not state of the running client.
//
// User is non-nil only when Token is set and was accepted by the backend.
type Session struct {
	Token        string
	User         *UserIdentity
	Initializing bool
}

// IsAuthenticated reports whether a validated user is present.
func (s Session) IsAuthenticated() bool {
	return s.User != nil
}

// HasRole reports whether the session belongs to a user with the given role.
func (s Session) HasRole(role Role) bool {
	return s.User != nil && s.User.Role == role
}

// IsTechnician reports whether the session user is a technician.
func (s Session) IsTechnician() bool {
	return s.HasRole(RoleTechnician)
}

// IsDentist reports whether the session user is a dentist.
func (s Session) IsDentist() bool {
	return s.HasRole(RoleDentist)
}

// SessionState is the lifecycle state of a session store.
type SessionState int

const (
	// StateUnbootstrapped is the state before Bootstrap runs.
	StateUnbootstrapped SessionState = iota
	// StateBootstrapping is the state while the persisted token is being checked.
	StateBootstrapping
	// StateAnonymous means no user is signed in.
	StateAnonymous
	// StateAuthenticated means a validated user is signed in.
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateUnbootstrapped:
		return "unbootstrapped"
	case StateBootstrapping:
		return "bootstrapping"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// LoginResult is returned by a login attempt.
type LoginResult struct {
	Success bool
	Message string
}

// LoginResponse is the backend payload of a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserIdentity `json:"user"`
}
