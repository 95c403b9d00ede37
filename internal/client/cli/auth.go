package cli

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dmitrijs2005/laundrydesk/internal/client/auth"
	"github.com/dmitrijs2005/laundrydesk/internal/client/router"
	"github.com/dmitrijs2005/laundrydesk/internal/client/services"
)

// errReported marks errors already shown to the user.
var errReported = errors.New("reported")

// getSimpleText, getPassword and getYesNo are indirections used to facilitate
// testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

// enter navigates to path and reports whether the guard kept it there. On a
// redirect the resulting view is shown instead.
func (a *App) enter(ctx context.Context, path string) bool {
	d := a.nav.Go(ctx, path)
	if d.Redirected {
		a.show(ctx, d)
		return false
	}
	return true
}

// StaffLogin prompts for email, password and remember-me and signs in.
func (a *App) StaffLogin(ctx context.Context) error {
	if !a.enter(ctx, router.PathLogin) {
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", writer{a})
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, writer{a})
	if err != nil {
		return err
	}
	remember, err := getYesNo(a.reader, "Remember me?", writer{a})
	if err != nil {
		return err
	}

	next, err := a.staff.Submit(ctx, services.StaffLoginForm{
		Email:      email,
		Password:   password,
		RememberMe: remember,
	})
	if err != nil {
		return a.report(err)
	}

	a.println("Login successful")
	a.show(ctx, a.nav.Go(ctx, next))
	return nil
}

// Logout signs out and returns to the login view.
func (a *App) Logout(ctx context.Context) error {
	a.manager.Logout(ctx)
	a.code.Reset()
	a.println("Logged out")
	a.show(ctx, a.nav.Go(ctx, router.PathLogin))
	return nil
}

// CheckSession re-validates the session on demand.
func (a *App) CheckSession(ctx context.Context) error {
	err := a.manager.CheckSession(ctx)
	switch {
	case err == nil:
		a.println("Session is valid")
		return nil
	case errors.Is(err, auth.ErrSessionExpired):
		// the expiry callback already moved to the login view
		return nil
	default:
		return err
	}
}

// report prints feedback for a failed submit and returns errReported.
func (a *App) report(err error) error {
	fb := services.Explain(err)
	if fb.Message != "" {
		a.println(fb.Message)
	}

	fields := make([]string, 0, len(fb.Fields))
	for f := range fb.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		a.printf("  %s: %s\n", f, strings.Join(fb.Fields[f], " "))
	}

	a.logger.Debug(context.Background(), "submit failed", "error", err)
	return errReported
}
