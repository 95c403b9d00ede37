package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/laundrydesk/internal/client/credentials"
	"github.com/dmitrijs2005/laundrydesk/internal/client/models"
	"github.com/dmitrijs2005/laundrydesk/internal/client/repositories/metadata"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	ch chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// tickers records every ticker a monitor asked for.
type tickers struct {
	mu  sync.Mutex
	all []*fakeTicker
}

func (f *tickers) New(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	f.all = append(f.all, t)
	return t
}

func (f *tickers) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.all)
}

func (f *tickers) Last() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.all) == 0 {
		return nil
	}
	return f.all[len(f.all)-1]
}

func (f *tickers) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.all {
		if !t.Stopped() {
			n++
		}
	}
	return n
}

// tick delivers one tick, failing the test if no loop receives it.
func tick(t *testing.T, ft *fakeTicker) {
	t.Helper()
	select {
	case ft.ch <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatal("monitor loop did not receive tick")
	}
}

type fakeAPI struct {
	mu    sync.Mutex
	token string
	user  *models.User
	err   error
	calls int

	// entered and release, when set, hold CurrentUser until the test lets go.
	entered chan struct{}
	release chan struct{}
}

func (a *fakeAPI) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

func (a *fakeAPI) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

func (a *fakeAPI) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func (a *fakeAPI) respond(user *models.User, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user, a.err = user, err
}

func (a *fakeAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	a.mu.Lock()
	a.calls++
	entered, release := a.entered, a.release
	a.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	if a.user == nil {
		return nil, nil
	}
	u := *a.user
	return &u, nil
}

// failingStore fails every write.
type failingStore struct {
	*credentials.Store
}

var errDiskFull = errors.New("disk full")

func (failingStore) SaveCredential(context.Context, models.Credential) error { return errDiskFull }
func (failingStore) Clear(context.Context, ...string) error                 { return errDiskFull }

func newStore() *credentials.Store {
	return credentials.NewStore(metadata.NewMemoryRepository())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}
