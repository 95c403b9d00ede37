// Package auth holds the client-side session state machine.
//
// A Manager is LoggedOut or LoggedIn. Login and Logout are local transitions
// that persist through the credential store; CheckSession re-validates the
// token against the API and forces a logout when it is no longer accepted.
// While LoggedIn without remember-me, a Monitor re-runs that check on a fixed
// interval.
//
// The customer phone login adds an explicit flow value on top of the session:
// Idle -> AwaitingOTP (BeginChallenge) -> Authenticated (CompleteChallenge).
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/laundrydesk/internal/client/client"
	"github.com/dmitrijs2005/laundrydesk/internal/client/credentials"
	"github.com/dmitrijs2005/laundrydesk/internal/client/models"
	"github.com/dmitrijs2005/laundrydesk/internal/common"
	"github.com/dmitrijs2005/laundrydesk/internal/logging"
)

var (
	// ErrSessionExpired is returned by CheckSession after it forced a logout.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoChallenge means CompleteChallenge ran without a pending challenge.
	ErrNoChallenge = errors.New("no pending otp challenge")
)

const (
	DefaultCheckInterval = 5 * time.Minute
	DefaultProbeTimeout  = 15 * time.Second
)

// API is the slice of the remote API the manager needs.
type API interface {
	SetToken(token string)
	CurrentUser(ctx context.Context) (*models.User, error)
}

// CredentialStore is the persistence the manager needs; *credentials.Store
// implements it.
type CredentialStore interface {
	SaveCredential(ctx context.Context, c models.Credential) error
	LoadCredential(ctx context.Context) (models.Credential, bool, error)
	SavePending(ctx context.Context, p models.PendingChallenge) error
	LoadPending(ctx context.Context) (models.PendingChallenge, bool, error)
	ClearPending(ctx context.Context) error
	SaveClientID(ctx context.Context, id int64) error
	LoadClientID(ctx context.Context) (int64, bool, error)
	Clear(ctx context.Context, keys ...string) error
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) { m.checkInterval = d }
}

func WithProbeTimeout(d time.Duration) Option {
	return func(m *Manager) { m.probeTimeout = d }
}

func WithTickerFactory(f TickerFactory) Option {
	return func(m *Manager) { m.newTicker = f }
}

// WithOnExpired registers the callback run after a forced logout, typically
// navigation to the login route.
func WithOnExpired(fn func()) Option {
	return func(m *Manager) { m.onExpired = fn }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

type Manager struct {
	store  CredentialStore
	api    API
	logger logging.Logger

	checkInterval time.Duration
	probeTimeout  time.Duration
	newTicker     TickerFactory
	onExpired     func()
	now           func() time.Time

	monitor *Monitor

	// lifecycle serialises Init, Login, Logout, Teardown and the challenge
	// transitions. The monitor loop never takes it.
	lifecycle sync.Mutex

	mu          sync.Mutex
	generation  uint64
	token       string
	rememberMe  bool
	session     models.Session
	pending     *models.PendingChallenge
	clientID    int64
	hasClientID bool
}

func NewManager(store CredentialStore, api API, opts ...Option) *Manager {
	m := &Manager{
		store:         store,
		api:           api,
		logger:        logging.NopLogger{},
		checkInterval: DefaultCheckInterval,
		probeTimeout:  DefaultProbeTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "auth")
	m.monitor = NewMonitor(m.checkInterval, m.newTicker, m.monitorCheck)
	return m
}

// Init restores state from the credential store without any network call.
func (m *Manager) Init(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	cred, ok, err := m.store.LoadCredential(ctx)
	if err != nil {
		return err
	}
	pending, hasPending, err := m.store.LoadPending(ctx)
	if err != nil {
		return err
	}
	clientID, hasClientID, err := m.store.LoadClientID(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.generation++
	if hasPending {
		m.pending = &pending
	}
	m.clientID, m.hasClientID = clientID, hasClientID
	if ok {
		m.setSessionLocked(cred.AccessToken, cred.User, cred.RememberMe)
	}
	m.mu.Unlock()

	if ok && !cred.RememberMe {
		m.monitor.Start(ctx)
	}

	m.logger.Info(ctx, "auth state restored",
		"authenticated", ok, "remember_me", cred.RememberMe, "pending_otp", hasPending)
	return nil
}

// Login moves to LoggedIn. It never fails: storage errors are logged and the
// in-memory session is updated regardless.
func (m *Manager) Login(ctx context.Context, token string, user models.User, rememberMe bool) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	m.loginLocked(ctx, token, user, rememberMe)
}

func (m *Manager) loginLocked(ctx context.Context, token string, user models.User, rememberMe bool) {
	m.monitor.Stop()

	cred := models.Credential{AccessToken: token, User: user, RememberMe: rememberMe}
	if err := m.store.SaveCredential(ctx, cred); err != nil {
		m.logger.Warn(ctx, "persist credential failed", "error", err)
	}

	m.mu.Lock()
	m.generation++
	m.setSessionLocked(token, user, rememberMe)
	m.mu.Unlock()

	if !rememberMe {
		m.monitor.Start(ctx)
	}

	m.logger.Info(ctx, "logged in", "user_id", user.ID, "role", user.Role, "remember_me", rememberMe)
}

func (m *Manager) setSessionLocked(token string, user models.User, rememberMe bool) {
	m.token = token
	m.rememberMe = rememberMe
	m.session = models.Session{Authenticated: true, User: &user}
	m.api.SetToken(token)
}

// Logout moves to LoggedOut. It is idempotent and always succeeds.
func (m *Manager) Logout(ctx context.Context) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.monitor.Stop()

	m.mu.Lock()
	m.clearLocked(ctx)
	m.mu.Unlock()

	m.logger.Info(ctx, "logged out")
}

// clearLocked wipes persisted and in-memory auth state, pending challenge and
// client id included.
func (m *Manager) clearLocked(ctx context.Context) {
	keys := append(append([]string{}, credentials.CredentialKeys...), credentials.PendingKeys...)
	keys = append(keys, credentials.KeyClientID)
	if err := m.store.Clear(ctx, keys...); err != nil {
		m.logger.Warn(ctx, "clear credentials failed", "error", err)
	}

	m.generation++
	m.token = ""
	m.rememberMe = false
	m.session = models.Session{}
	m.pending = nil
	m.clientID, m.hasClientID = 0, false
	m.api.SetToken("")
}

// Teardown releases the monitor. Persisted credentials are kept.
func (m *Manager) Teardown() {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	m.monitor.Stop()
}

// CheckSession validates the stored token. A missing or expired token, a
// transport error or any non-2xx answer forces a logout, runs the expiry
// callback and returns ErrSessionExpired. Cancellation of ctx is returned
// as is and changes nothing.
func (m *Manager) CheckSession(ctx context.Context) error {
	gen, err := m.validate(ctx)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	m.lifecycle.Lock()
	expired := false
	if m.isGeneration(gen) {
		m.monitor.Stop()
		expired = m.expire(ctx, gen, err)
	}
	m.lifecycle.Unlock()

	if !expired {
		return nil
	}
	m.notifyExpired()
	return ErrSessionExpired
}

// monitorCheck is the Monitor callback. It returns false once the session is
// gone so the loop ends itself.
func (m *Manager) monitorCheck(ctx context.Context) bool {
	gen, err := m.validate(ctx)
	if err == nil {
		return true
	}
	if ctx.Err() != nil {
		return false
	}
	if m.expire(ctx, gen, err) {
		// The callback may log in again, which stops this loop.
		go m.notifyExpired()
	}
	return false
}

// validate probes the session and refreshes the user on success. It returns
// the generation the verdict applies to.
func (m *Manager) validate(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	gen, token := m.generation, m.token
	m.mu.Unlock()

	if token == "" {
		return gen, common.ErrInvalidToken
	}
	if tokenExpired(token, m.now()) {
		return gen, common.ErrInvalidToken
	}

	probeCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	user, err := m.api.CurrentUser(probeCtx)
	if err != nil {
		return gen, err
	}

	if !usable(user) {
		m.logger.Debug(ctx, "session probe returned no usable user, keeping current one")
		return gen, nil
	}

	m.mu.Lock()
	if m.generation == gen && m.session.Authenticated {
		u := *user
		m.session = models.Session{Authenticated: true, User: &u}
		cred := models.Credential{AccessToken: m.token, User: u, RememberMe: m.rememberMe}
		m.mu.Unlock()
		if err := m.store.SaveCredential(ctx, cred); err != nil {
			m.logger.Warn(ctx, "persist refreshed user failed", "error", err)
		}
		return gen, nil
	}
	m.mu.Unlock()
	return gen, nil
}

// usable reports whether a probed user can replace the session user.
func usable(u *models.User) bool {
	return u != nil && u.ID != 0 && u.Role != ""
}

func (m *Manager) isGeneration(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation == gen
}

// Profile validates the session like CheckSession and returns the current
// user.
func (m *Manager) Profile(ctx context.Context) (models.User, error) {
	if err := m.CheckSession(ctx); err != nil {
		return models.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.session.Authenticated || m.session.User == nil {
		return models.User{}, ErrSessionExpired
	}
	return *m.session.User, nil
}

// expire clears state if nothing changed since generation gen.
func (m *Manager) expire(ctx context.Context, gen uint64, cause error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != gen {
		return false
	}
	wasAuthenticated := m.session.Authenticated
	m.clearLocked(ctx)
	m.logger.Info(ctx, "session invalid, logged out",
		"cause", cause,
		"rejected_by_server", errors.Is(cause, client.ErrUnauthorized),
		"was_authenticated", wasAuthenticated,
	)
	return true
}

func (m *Manager) notifyExpired() {
	if m.onExpired != nil {
		m.onExpired()
	}
}

// BeginChallenge persists a pending OTP challenge: Idle -> AwaitingOTP.
func (m *Manager) BeginChallenge(ctx context.Context, p models.PendingChallenge) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if err := m.store.SavePending(ctx, p); err != nil {
		return err
	}

	m.mu.Lock()
	m.pending = &p
	m.mu.Unlock()

	m.logger.Info(ctx, "otp challenge started", "phone", p.Phone)
	return nil
}

// CompleteChallenge finishes the phone login: it stores the client id,
// drops the challenge and logs in as the challenged client without
// remember-me.
func (m *Manager) CompleteChallenge(ctx context.Context, token string, clientID int64) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	pending := m.pending
	m.mu.Unlock()
	if pending == nil {
		return ErrNoChallenge
	}

	if err := m.store.SaveClientID(ctx, clientID); err != nil {
		m.logger.Warn(ctx, "persist client id failed", "error", err)
	}
	if err := m.store.ClearPending(ctx); err != nil {
		m.logger.Warn(ctx, "clear otp challenge failed", "error", err)
	}

	m.mu.Lock()
	m.pending = nil
	m.clientID, m.hasClientID = clientID, true
	m.mu.Unlock()

	user := pending.Client.AsUser()
	if user.ID == 0 {
		user.ID = clientID
	}
	if user.Phone == "" {
		user.Phone = pending.Phone
	}
	m.loginLocked(ctx, token, user, false)
	return nil
}

// AbandonChallenge drops a pending challenge: AwaitingOTP -> Idle.
func (m *Manager) AbandonChallenge(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if err := m.store.ClearPending(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()
	return nil
}

// PendingChallenge returns the current challenge, if any.
func (m *Manager) PendingChallenge() (models.PendingChallenge, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return models.PendingChallenge{}, false
	}
	return *m.pending, true
}

// State returns a snapshot safe to keep.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{ClientID: m.clientID, HasClientID: m.hasClientID}
	s.Session.Authenticated = m.session.Authenticated
	if m.session.User != nil {
		u := *m.session.User
		s.Session.User = &u
	}

	switch {
	case m.pending != nil:
		p := *m.pending
		s.Flow = Flow{Kind: FlowAwaitingOTP, Challenge: &p}
	case m.session.Authenticated:
		s.Flow = Flow{Kind: FlowAuthenticated}
	default:
		s.Flow = Flow{Kind: FlowIdle}
	}
	return s
}

// MonitorRunning reports whether the session monitor loop is active.
func (m *Manager) MonitorRunning() bool {
	return m.monitor.Running()
}
