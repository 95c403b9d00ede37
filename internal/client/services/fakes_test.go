package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/laundrydesk/internal/client/client"
	"github.com/dmitrijs2005/laundrydesk/internal/client/models"
)

// fakeClient implements client.Client; unset funcs panic so unexpected
// network calls fail loudly.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	LoginFn       func(ctx context.Context, email, password string) (*client.LoginResult, error)
	ClientLoginFn func(ctx context.Context, phone string) (*client.ChallengeResult, error)
	VerifyFn      func(ctx context.Context, phone, otp, tempToken string) (*client.VerifyResult, error)
	ResendFn      func(ctx context.Context, phone string) error
	CountriesFn   func(ctx context.Context) ([]models.Country, error)
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) SetToken(string) {}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.LoginResult, error) {
	f.record("login")
	return f.LoginFn(ctx, email, password)
}

func (f *fakeClient) ClientLogin(ctx context.Context, phone string) (*client.ChallengeResult, error) {
	f.record("client-login")
	return f.ClientLoginFn(ctx, phone)
}

func (f *fakeClient) VerifyOTP(ctx context.Context, phone, otp, tempToken string) (*client.VerifyResult, error) {
	f.record("verify-otp")
	return f.VerifyFn(ctx, phone, otp, tempToken)
}

func (f *fakeClient) ResendOTP(ctx context.Context, phone string) error {
	f.record("resend-otp")
	return f.ResendFn(ctx, phone)
}

func (f *fakeClient) CurrentUser(context.Context) (*models.User, error) {
	panic("unexpected CurrentUser call")
}

func (f *fakeClient) Countries(ctx context.Context) ([]models.Country, error) {
	f.record("countries")
	return f.CountriesFn(ctx)
}

func (f *fakeClient) Subscriber(context.Context, int64) (*models.Subscriber, error) {
	panic("unexpected Subscriber call")
}

func (f *fakeClient) Close() error { return nil }

type loginCall struct {
	Token      string
	User       models.User
	RememberMe bool
}

type fakeSession struct {
	mu       sync.Mutex
	logins   []loginCall
	pending  *models.PendingChallenge
	complete []int64

	BeginErr error
}

func (s *fakeSession) Login(_ context.Context, token string, user models.User, rememberMe bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logins = append(s.logins, loginCall{token, user, rememberMe})
}

func (s *fakeSession) BeginChallenge(_ context.Context, p models.PendingChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.BeginErr != nil {
		return s.BeginErr
	}
	s.pending = &p
	return nil
}

func (s *fakeSession) CompleteChallenge(_ context.Context, token string, clientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.complete = append(s.complete, clientID)
	s.logins = append(s.logins, loginCall{Token: token})
	return nil
}

func (s *fakeSession) PendingChallenge() (models.PendingChallenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return models.PendingChallenge{}, false
	}
	return *s.pending, true
}
