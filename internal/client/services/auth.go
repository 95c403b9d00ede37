// Package services contains the login flows of the console client.
//
// StaffFlow is the email and password exchange. CustomerFlow is the two step
// phone login: identify by phone number, then verify the one-time code. Both
// validate input locally before any network call and hand the result to the
// auth manager.
package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dmitrijs2005/laundrydesk/internal/client/models"
	"github.com/dmitrijs2005/laundrydesk/internal/logging"
)

// ErrSubmitInProgress is returned when a submit starts while another one on
// the same flow is still waiting for the server.
var ErrSubmitInProgress = errors.New("request already in progress")

// ErrNoChallenge is returned by Verify and Resend without a pending phone
// login.
var ErrNoChallenge = errors.New("no phone login in progress")

// ErrEmptyToken means the server accepted a login but sent no access token.
var ErrEmptyToken = errors.New("server returned no access token")

// ErrMissingClientID means a verified code came back without the customer's
// client id.
var ErrMissingClientID = errors.New("server returned no client id")

// Session is the part of the auth manager the flows drive.
type Session interface {
	Login(ctx context.Context, token string, user models.User, rememberMe bool)
	BeginChallenge(ctx context.Context, p models.PendingChallenge) error
	CompleteChallenge(ctx context.Context, token string, clientID int64) error
	PendingChallenge() (models.PendingChallenge, bool)
}

type Option func(*options)

type options struct {
	logger             logging.Logger
	defaultCallingCode string
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDefaultCallingCode sets the calling code preselected in the phone form.
func WithDefaultCallingCode(code string) Option {
	return func(o *options) { o.defaultCallingCode = code }
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.NopLogger{}, defaultCallingCode: DefaultCallingCode}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// submitGuard lets one submit through at a time.
type submitGuard struct {
	busy atomic.Bool
}

func (g *submitGuard) acquire() (release func(), err error) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, ErrSubmitInProgress
	}
	return func() { g.busy.Store(false) }, nil
}
