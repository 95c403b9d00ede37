package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/laundrydesk/internal/logging"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	StaffLogin(ctx context.Context) error
	PhoneLogin(ctx context.Context) error
	EnterOTP(ctx context.Context) error
	ResendOTP(ctx context.Context) error
	CancelOTP(ctx context.Context) error
	Countries(ctx context.Context) error
	Navigate(ctx context.Context, path string) error
	CheckSession(ctx context.Context) error
	Status(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	guestHelp = "Available commands: login, phone, otp, resend, cancel, countries, go <path>, status, exit"
	authHelp  = "Available commands: go <path>, profile, check, status, logout, exit"
)

// runREPL reads commands line by line from in and dispatches them to a.
//
//	Not logged in:
//	  - login          staff sign in with email and password
//	  - phone          customer sign in, step one
//	  - otp            customer sign in, step two
//	  - resend         send the code again
//	  - cancel         abandon the phone sign in
//	  - countries      list calling codes
//
//	Logged in:
//	  - go <path>      navigate, e.g. "go /subscribers/42"
//	  - profile        same as "go /profile"
//	  - check          re-validate the session now
//	  - logout
//
//	Always: help, status, exit | quit
//
// Command errors are reported and the loop continues. It ends on EOF or exit.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "desk %s> ", statusFn())
		line, err := readLine(in)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		ctx := logging.ContextWith(ctx, "command", cmd)

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, authHelp)
			} else {
				fmt.Fprintln(out, guestHelp)
			}

		case "login":
			err = a.StaffLogin(ctx)

		case "phone":
			err = a.PhoneLogin(ctx)

		case "otp":
			err = a.EnterOTP(ctx)

		case "resend":
			err = a.ResendOTP(ctx)

		case "cancel":
			err = a.CancelOTP(ctx)

		case "countries":
			err = a.Countries(ctx)

		case "go":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: go <path>")
				continue
			}
			err = a.Navigate(ctx, args[0])

		case "profile":
			err = a.Navigate(ctx, "/profile")

		case "home":
			err = a.Navigate(ctx, "/")

		case "check":
			err = a.CheckSession(ctx)

		case "status":
			err = a.Status(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil && !errors.Is(err, errReported) {
			fmt.Fprintln(out, "Error:", err)
		}
	}
}
