package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dmitrijs2005/laundrydesk/internal/client/otp"
	"github.com/dmitrijs2005/laundrydesk/internal/client/router"
	"github.com/dmitrijs2005/laundrydesk/internal/client/services"
)

// PhoneLogin is step one of the customer sign in: it asks for a calling code
// and a local number, then moves to the code entry view.
func (a *App) PhoneLogin(ctx context.Context) error {
	if !a.enter(ctx, router.PathClientLogin) {
		return nil
	}

	def := a.customer.DefaultCallingCode()
	code, err := getSimpleText(a.reader, "Calling code (Enter for "+def+", 'list' to show all)", writer{a})
	if err != nil {
		return err
	}
	if code == "list" {
		if err := a.Countries(ctx); err != nil {
			return err
		}
		if code, err = getSimpleText(a.reader, "Calling code (Enter for "+def+")", writer{a}); err != nil {
			return err
		}
	}

	number, err := getSimpleText(a.reader, "Phone number", writer{a})
	if err != nil {
		return err
	}

	next, err := a.customer.Identify(ctx, services.PhoneForm{CallingCode: code, Number: number})
	if err != nil {
		return a.report(err)
	}

	a.code.Reset()
	a.show(ctx, a.nav.Go(ctx, next))
	return a.EnterOTP(ctx)
}

// EnterOTP drives the code boxes from typed lines: four digits paste the
// whole code, a single character types into the focused box, "<" is
// backspace, an empty line submits and "q" leaves the code entry.
// A rejected code stays in the boxes for correction.
func (a *App) EnterOTP(ctx context.Context) error {
	if !a.enter(ctx, router.PathOTP) {
		return nil
	}

	for {
		a.printf("Code %s\n", renderBoxes(a.code))
		line, err := getSimpleText(a.reader, "Digit, full code, '<' to erase, Enter to submit, 'q' to leave", writer{a})
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch {
		case line == "q":
			return nil

		case line == "<":
			a.code.Backspace(a.code.Focus())

		case line == "":
			if !a.code.Complete() {
				a.println("Enter all", otp.Length, "digits first")
				continue
			}
			next, err := a.customer.Verify(ctx, a.code.Code())
			if err != nil {
				_ = a.report(err)
				continue
			}
			a.code.Reset()
			a.println("Login successful")
			a.show(ctx, a.nav.Go(ctx, next))
			return nil

		case utf8.RuneCountInString(line) == 1:
			r, _ := utf8.DecodeRuneInString(line)
			a.code.Type(a.code.Focus(), r)

		default:
			if !a.code.Paste(line) {
				a.println("Paste ignored: the code has", otp.Length, "digits")
			}
		}
	}
}

// renderBoxes draws the boxes with the focused one marked, e.g. [1][2][_][ ].
func renderBoxes(in *otp.Input) string {
	var b strings.Builder
	for i, r := range in.Boxes() {
		if i == in.Focus() && r == ' ' {
			r = '_'
		}
		b.WriteByte('[')
		b.WriteRune(r)
		b.WriteByte(']')
	}
	if in.Focus() == otp.Length {
		b.WriteString(" <submit>")
	}
	return b.String()
}

// ResendOTP asks the server to send the code again.
func (a *App) ResendOTP(ctx context.Context) error {
	if !a.enter(ctx, router.PathOTP) {
		return nil
	}
	if err := a.customer.Resend(ctx); err != nil {
		return a.report(err)
	}
	a.println("A new code has been sent")
	return nil
}

// CancelOTP abandons the phone sign in.
func (a *App) CancelOTP(ctx context.Context) error {
	if _, ok := a.manager.PendingChallenge(); !ok {
		a.println("No phone sign in in progress")
		return nil
	}
	if err := a.manager.AbandonChallenge(ctx); err != nil {
		return err
	}
	a.code.Reset()
	a.show(ctx, a.nav.Go(ctx, router.PathClientLogin))
	return nil
}

// Countries prints the calling codes offered by the server.
func (a *App) Countries(ctx context.Context) error {
	list, err := a.customer.Countries(ctx)
	if err != nil {
		return a.report(err)
	}

	tw := tabwriter.NewWriter(writer{a}, 0, 4, 2, ' ', 0)
	for _, c := range list {
		_, _ = io.WriteString(tw, c.CallingCode+"\t"+c.Code+"\t"+c.Name+"\n")
	}
	return tw.Flush()
}
