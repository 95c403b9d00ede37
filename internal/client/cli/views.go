package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/laundrydesk/internal/client/auth"
	"github.com/dmitrijs2005/laundrydesk/internal/client/router"
)

// Navigate moves to path and shows the view the guard settles on.
func (a *App) Navigate(ctx context.Context, path string) error {
	a.show(ctx, a.nav.Go(ctx, path))
	return nil
}

// show prints the view for d.
func (a *App) show(ctx context.Context, d router.Decision) {
	if d.Redirected {
		a.printf("-> %s (%s)\n", d.Path, d.Reason)
	}

	st := a.manager.State()

	switch d.Pattern {
	case router.PathLogin:
		a.println("Staff sign in. Type 'login', or 'phone' to sign in as a customer.")

	case router.PathClientLogin:
		a.println("Customer sign in. Type 'phone' to receive a code.")

	case router.PathOTP:
		if st.Flow.Challenge != nil {
			a.printf("A code was sent to %s. Type 'otp' to enter it, 'resend' or 'cancel'.\n", st.Flow.Challenge.Phone)
		}

	case router.PathHome:
		if st.IsAdmin() {
			a.println("Admin dashboard: /clients, /plans, /statistics, /profile")
			return
		}
		if st.HasClientID {
			a.printf("Welcome. Your subscriptions: %s\n", router.SubscriberPath(st.ClientID))
			return
		}
		a.println("Welcome.")

	case router.PathProfile:
		a.showProfile(ctx)

	case router.PathSubscriber:
		id, _ := strconv.ParseInt(d.Params["id"], 10, 64)
		a.showSubscriber(ctx, id)

	case router.PathClients, router.PathClient, router.PathPlans, router.PathStatistics:
		a.printf("%s is available in the web dashboard only.\n", d.Path)
	}
}

func (a *App) showProfile(ctx context.Context) {
	u, err := a.manager.Profile(ctx)
	if errors.Is(err, auth.ErrSessionExpired) {
		// the expiry callback already moved to the login view
		return
	}
	if err != nil {
		_ = a.report(err)
		return
	}

	tw := tabwriter.NewWriter(writer{a}, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", u.Phone)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	if u.Bio != "" {
		fmt.Fprintf(tw, "Bio:\t%s\n", u.Bio)
	}
	_ = tw.Flush()
}

func (a *App) showSubscriber(ctx context.Context, id int64) {
	s, err := a.api.Subscriber(ctx, id)
	if err != nil {
		_ = a.report(err)
		return
	}

	a.printf("%s (%s)\n", s.Name, s.Phone)
	if len(s.Subscriptions) == 0 {
		a.println("No subscriptions.")
		return
	}

	tw := tabwriter.NewWriter(writer{a}, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAN\tSTATUS\tFROM\tTO\tPICKUPS LEFT")
	for _, sub := range s.Subscriptions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", sub.Plan, sub.Status, sub.StartDate, sub.EndDate, sub.Remaining)
	}
	_ = tw.Flush()
}

// Status prints the auth state and where the console is.
func (a *App) Status(ctx context.Context) error {
	st := a.manager.State()
	keys, err := a.store.Keys(ctx)
	if err != nil {
		a.logger.Warn(ctx, "error listing stored keys", "error", err)
	}

	tw := tabwriter.NewWriter(writer{a}, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "API:\t%s\n", a.config.APIBaseURL)
	fmt.Fprintf(tw, "Location:\t%s\n", a.nav.Current().Path)
	fmt.Fprintf(tw, "Flow:\t%s\n", st.Flow.Kind)
	if st.Authenticated() {
		fmt.Fprintf(tw, "User:\t%d %s\n", st.Session.User.ID, st.Session.User.Name)
		fmt.Fprintf(tw, "Role:\t%s\n", st.Role())
	}
	if st.HasClientID {
		fmt.Fprintf(tw, "Client ID:\t%d\n", st.ClientID)
	}
	fmt.Fprintf(tw, "Session monitor:\t%t\n", a.manager.MonitorRunning())
	if len(keys) > 0 {
		fmt.Fprintf(tw, "Stored:\t%s\n", strings.Join(keys, ", "))
	}
	return tw.Flush()
}
