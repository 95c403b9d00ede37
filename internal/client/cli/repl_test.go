package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	paths []string
	err   error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) call(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) StaffLogin(context.Context) error {
	f.loggedIn = true
	return f.call("login")
}
func (f *fakeExec) PhoneLogin(context.Context) error { return f.call("phone") }
func (f *fakeExec) EnterOTP(context.Context) error   { return f.call("otp") }
func (f *fakeExec) ResendOTP(context.Context) error  { return f.call("resend") }
func (f *fakeExec) CancelOTP(context.Context) error  { return f.call("cancel") }
func (f *fakeExec) Countries(context.Context) error  { return f.call("countries") }
func (f *fakeExec) Navigate(_ context.Context, path string) error {
	f.paths = append(f.paths, path)
	return f.call("go")
}
func (f *fakeExec) CheckSession(context.Context) error { return f.call("check") }
func (f *fakeExec) Status(context.Context) error       { return f.call("status") }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.call("logout")
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	script := strings.Join([]string{
		"help",
		"phone", "otp", "resend", "cancel", "countries",
		"login",
		"help",
		"go /subscribers/42", "profile", "home", "go",
		"check", "status",
		"bogus",
		"logout",
		"exit",
		"status",
	}, "\n") + "\n"

	f := &fakeExec{}
	var out bytes.Buffer

	runREPL(context.Background(), f, func() string { return "/" }, rdr(script), &out)

	assert.Equal(t, []string{
		"phone", "otp", "resend", "cancel", "countries",
		"login",
		"go", "go", "go",
		"check", "status",
		"logout",
	}, f.calls)
	assert.Equal(t, []string{"/subscribers/42", "/profile", "/"}, f.paths)

	text := out.String()
	assert.Contains(t, text, guestHelp)
	assert.Contains(t, text, authHelp)
	assert.Contains(t, text, "Usage: go <path>")
	assert.Contains(t, text, "Unknown command: bogus")
	assert.Contains(t, text, "Bye!")
	assert.Contains(t, text, "desk /> ")
}

func TestRunREPL_ReportsErrors(t *testing.T) {
	f := &fakeExec{err: errors.New("disk full")}
	var out bytes.Buffer

	runREPL(context.Background(), f, func() string { return "" }, rdr("status\n"), &out)

	assert.Contains(t, out.String(), "Error: disk full")
}

func TestRunREPL_SilentOnReportedErrors(t *testing.T) {
	f := &fakeExec{err: errReported}
	var out bytes.Buffer

	runREPL(context.Background(), f, func() string { return "" }, rdr("status\n"), &out)

	require.Equal(t, []string{"status"}, f.calls)
	assert.NotContains(t, out.String(), "Error:")
}
