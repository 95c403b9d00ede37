package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/laundrydesk/internal/client/auth"
	"github.com/dmitrijs2005/laundrydesk/internal/client/router"
)

// getStatus renders the prompt prefix: who is signed in and where.
func (a *App) getStatus() string {
	st := a.manager.State()
	where := a.nav.Current().Path

	switch {
	case st.Flow.Kind == auth.FlowAwaitingOTP:
		return fmt.Sprintf("(otp %s) %s", st.Flow.Challenge.Phone, where)
	case st.Authenticated():
		who := st.Session.User.Email
		if who == "" {
			who = st.Session.User.Phone
		}
		if who == "" {
			who = st.Session.User.Name
		}
		return fmt.Sprintf("(%s %s) %s", who, st.Role(), where)
	default:
		return where
	}
}

// Root restores the persisted auth state, shows the start view and runs the
// REPL until the user exits.
func (a *App) Root(ctx context.Context) error {
	if err := a.manager.Init(ctx); err != nil {
		return fmt.Errorf("restore auth state: %w", err)
	}

	a.println("Welcome to the laundrydesk console (type 'help' for commands)")
	a.show(ctx, a.nav.Go(ctx, router.PathHome))

	runREPL(ctx, a, a.getStatus, a.reader, writer{a})
	return nil
}
