package client

import (
	"context"

	"github.com/dmitrijs2005/laundrydesk/internal/client/models"
)

// Client is the laundry REST API as seen by the console.
type Client interface {
	// SetToken sets the bearer token attached to authenticated calls.
	// An empty token removes the header.
	SetToken(token string)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ClientLogin(ctx context.Context, phone string) (*ChallengeResult, error)
	VerifyOTP(ctx context.Context, phone, otp, tempToken string) (*VerifyResult, error)
	ResendOTP(ctx context.Context, phone string) error
	CurrentUser(ctx context.Context) (*models.User, error)
	Countries(ctx context.Context) ([]models.Country, error)
	Subscriber(ctx context.Context, id int64) (*models.Subscriber, error)
	Close() error
}

// LoginResult is the staff credential exchange response.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// ChallengeResult is the phone identify response.
type ChallengeResult struct {
	TempToken string        `json:"temp_token"`
	Client    models.Client `json:"client"`
}

// VerifyResult is the OTP verification response.
type VerifyResult struct {
	AccessToken string `json:"access_token"`
	ClientID    ID     `json:"client_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type verifyRequest struct {
	Phone     string `json:"phone"`
	OTP       string `json:"otp"`
	TempToken string `json:"temp_token"`
}
