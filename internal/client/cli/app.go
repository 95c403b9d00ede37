package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/laundrydesk/internal/client/auth"
	"github.com/dmitrijs2005/laundrydesk/internal/client/client"
	"github.com/dmitrijs2005/laundrydesk/internal/client/config"
	"github.com/dmitrijs2005/laundrydesk/internal/client/credentials"
	"github.com/dmitrijs2005/laundrydesk/internal/client/otp"
	"github.com/dmitrijs2005/laundrydesk/internal/client/router"
	"github.com/dmitrijs2005/laundrydesk/internal/client/services"
	"github.com/dmitrijs2005/laundrydesk/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db       *sql.DB
	store    *credentials.Store
	api      client.Client
	manager  *auth.Manager
	nav      *router.Navigator
	staff    services.StaffFlow
	customer services.CustomerFlow
	code     *otp.Input

	reader *bufio.Reader

	outMu sync.Mutex
	out   io.Writer
}

// NewApp opens the credential database and wires the services. The auth
// state is restored later, by Root.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.APIBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger.With("component", "api")),
	)

	a := &App{
		config: c,
		logger: logger,
		db:     db,
		store:  credentials.NewSQLiteStore(db),
		api:    api,
		code:   otp.NewInput(),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	a.manager = auth.NewManager(a.store, api,
		auth.WithLogger(logger),
		auth.WithCheckInterval(c.SessionCheckInterval),
		auth.WithProbeTimeout(c.RequestTimeout),
		auth.WithOnExpired(a.sessionExpired),
	)
	a.nav = router.NewNavigator(router.NewGuard(a.manager), logger)
	a.staff = services.NewStaffFlow(api, a.manager, services.WithLogger(logger))
	a.customer = services.NewCustomerFlow(api, a.manager,
		services.WithLogger(logger),
		services.WithDefaultCallingCode(c.DefaultCallingCode),
	)

	return a, nil
}

// Run restores the auth state, runs the REPL and releases resources on exit.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()
	return a.Root(ctx)
}

// Close stops the session monitor and closes the API client and database.
// Persisted credentials are kept for the next start.
func (a *App) Close() {
	a.manager.Teardown()
	if err := a.api.Close(); err != nil {
		a.logger.Warn(context.Background(), "close api client", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn(context.Background(), "close database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.manager.State().Authenticated()
}

// sessionExpired runs on the monitor goroutine after a forced logout.
func (a *App) sessionExpired() {
	ctx := context.Background()
	a.nav.Go(ctx, router.PathLogin)
	a.printf("\nYour session has expired. Please log in again.\n")
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

// writer serialises writes to out for helpers that take an io.Writer.
type writer struct{ a *App }

func (w writer) Write(p []byte) (int, error) {
	w.a.outMu.Lock()
	defer w.a.outMu.Unlock()
	return w.a.out.Write(p)
}
