package auth

import "github.com/dmitrijs2005/laundrydesk/internal/client/models"

// FlowKind is the position in the login flow.
type FlowKind int

const (
	FlowIdle FlowKind = iota
	FlowAwaitingOTP
	FlowAuthenticated
)

func (k FlowKind) String() string {
	switch k {
	case FlowIdle:
		return "idle"
	case FlowAwaitingOTP:
		return "awaiting-otp"
	case FlowAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Flow is Idle, AwaitingOTP (Challenge set) or Authenticated.
type Flow struct {
	Kind      FlowKind
	Challenge *models.PendingChallenge
}

// State is an immutable snapshot of the auth state.
type State struct {
	Session     models.Session
	Flow        Flow
	ClientID    int64
	HasClientID bool
}

// Authenticated is a shorthand for s.Session.Authenticated.
func (s State) Authenticated() bool {
	return s.Session.Authenticated
}

// IsAdmin reports whether the session user is an admin.
func (s State) IsAdmin() bool {
	return s.Session.User.IsAdmin()
}

// Role returns the session user's role, or "" when logged out.
func (s State) Role() models.Role {
	if s.Session.User == nil {
		return ""
	}
	return s.Session.User.Role
}
