package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/laundrydesk/internal/client/client"
	"github.com/dmitrijs2005/laundrydesk/internal/client/models"
	"github.com/dmitrijs2005/laundrydesk/internal/client/router"
	"github.com/dmitrijs2005/laundrydesk/internal/logging"
)

// PhoneForm is the identify step input.
type PhoneForm struct {
	CallingCode string `json:"calling_code" validate:"required"`
	Number      string `json:"phone" validate:"required,number"`
}

type otpForm struct {
	Code string `json:"otp" validate:"required,number,len=4"`
}

// CustomerFlow is the phone and one-time code login.
type CustomerFlow interface {
	// Countries lists the selectable calling codes.
	Countries(ctx context.Context) ([]models.Country, error)
	DefaultCallingCode() string
	// Identify sends the phone number and stores the pending challenge. It
	// returns the code entry route.
	Identify(ctx context.Context, form PhoneForm) (string, error)
	// Verify submits the code for the pending challenge and returns the
	// customer's subscription route.
	Verify(ctx context.Context, code string) (string, error)
	// Resend asks for a new code for the pending phone number. The stored
	// temp token is kept.
	Resend(ctx context.Context) error
}

type customerFlow struct {
	api         client.Client
	session     Session
	logger      logging.Logger
	callingCode string
	guard       submitGuard
}

func NewCustomerFlow(api client.Client, session Session, opts ...Option) CustomerFlow {
	o := buildOptions(opts)
	return &customerFlow{
		api:         api,
		session:     session,
		logger:      o.logger.With("flow", "customer"),
		callingCode: NormalizeCallingCode(o.defaultCallingCode),
	}
}

func (f *customerFlow) DefaultCallingCode() string {
	return f.callingCode
}

func (f *customerFlow) Countries(ctx context.Context) ([]models.Country, error) {
	countries, err := f.api.Countries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	for i := range countries {
		countries[i].CallingCode = NormalizeCallingCode(countries[i].CallingCode)
	}
	return countries, nil
}

func (f *customerFlow) Identify(ctx context.Context, form PhoneForm) (string, error) {
	if form.CallingCode == "" {
		form.CallingCode = f.callingCode
	}
	if err := validateForm(PhoneForm{
		CallingCode: NormalizeCallingCode(form.CallingCode),
		Number:      NormalizeLocalNumber(form.Number),
	}); err != nil {
		return "", err
	}

	release, err := f.guard.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	phone := ComposePhone(form.CallingCode, form.Number)
	res, err := f.api.ClientLogin(ctx, phone)
	if err != nil {
		f.logger.Info(ctx, "phone identify rejected", "phone", phone, "error", err)
		return "", err
	}

	pending := models.PendingChallenge{TempToken: res.TempToken, Phone: phone, Client: res.Client}
	if pending.Client.Phone == "" {
		pending.Client.Phone = phone
	}
	if err := f.session.BeginChallenge(ctx, pending); err != nil {
		return "", fmt.Errorf("store otp challenge: %w", err)
	}
	return router.PathOTP, nil
}

func (f *customerFlow) Verify(ctx context.Context, code string) (string, error) {
	pending, ok := f.session.PendingChallenge()
	if !ok {
		return "", ErrNoChallenge
	}
	if err := validateForm(otpForm{Code: code}); err != nil {
		return "", err
	}

	release, err := f.guard.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	res, err := f.api.VerifyOTP(ctx, pending.Phone, code, pending.TempToken)
	if err != nil {
		f.logger.Info(ctx, "otp rejected", "phone", pending.Phone, "error", err)
		return "", err
	}
	if res.AccessToken == "" {
		return "", ErrEmptyToken
	}

	clientID := int64(res.ClientID)
	if clientID <= 0 {
		return "", ErrMissingClientID
	}
	if err := f.session.CompleteChallenge(ctx, res.AccessToken, clientID); err != nil {
		return "", err
	}
	return router.SubscriberPath(clientID), nil
}

func (f *customerFlow) Resend(ctx context.Context) error {
	pending, ok := f.session.PendingChallenge()
	if !ok {
		return ErrNoChallenge
	}

	release, err := f.guard.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := f.api.ResendOTP(ctx, pending.Phone); err != nil {
		f.logger.Info(ctx, "otp resend failed", "phone", pending.Phone, "error", err)
		return err
	}
	f.logger.Debug(ctx, "otp resent", "phone", pending.Phone)
	return nil
}
