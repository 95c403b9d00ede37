package models

// Session is the in-memory authentication status. Both fields always change
// together.
type Session struct {
	Authenticated bool
	User          *User
}

// Credential is what gets persisted on login. AccessToken and User are
// written and cleared together.
type Credential struct {
	AccessToken string
	RememberMe  bool
	User        User
}

// PendingChallenge is the state between the identify and verify steps of the
// phone login.
type PendingChallenge struct {
	TempToken string
	Phone     string
	Client    Client
}
