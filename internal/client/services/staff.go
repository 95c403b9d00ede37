package services

import (
	"context"

	"github.com/dmitrijs2005/laundrydesk/internal/client/client"
	"github.com/dmitrijs2005/laundrydesk/internal/client/router"
	"github.com/dmitrijs2005/laundrydesk/internal/logging"
)

// StaffLoginForm is the staff sign-in form.
type StaffLoginForm struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// StaffFlow exchanges staff credentials for a session.
type StaffFlow interface {
	// Submit returns the route to navigate to on success.
	Submit(ctx context.Context, form StaffLoginForm) (string, error)
}

type staffFlow struct {
	api     client.Client
	session Session
	logger  logging.Logger
	guard   submitGuard
}

func NewStaffFlow(api client.Client, session Session, opts ...Option) StaffFlow {
	o := buildOptions(opts)
	return &staffFlow{api: api, session: session, logger: o.logger.With("flow", "staff")}
}

func (f *staffFlow) Submit(ctx context.Context, form StaffLoginForm) (string, error) {
	if err := validateForm(form); err != nil {
		return "", err
	}

	release, err := f.guard.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	res, err := f.api.Login(ctx, form.Email, form.Password)
	if err != nil {
		f.logger.Info(ctx, "staff login rejected", "error", err)
		return "", err
	}
	if res.AccessToken == "" {
		return "", ErrEmptyToken
	}

	f.session.Login(ctx, res.AccessToken, res.User, form.RememberMe)
	return router.PathHome, nil
}
