package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/laundrydesk/internal/client/client"
	"github.com/dmitrijs2005/laundrydesk/internal/client/models"
	"github.com/dmitrijs2005/laundrydesk/internal/client/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffFlow_LocalValidation(t *testing.T) {
	tests := []struct {
		name   string
		form   StaffLoginForm
		fields []string
	}{
		{"both empty", StaffLoginForm{}, []string{"email", "password"}},
		{"no password", StaffLoginForm{Email: "a@b.com"}, []string{"password"}},
		{"no email", StaffLoginForm{Password: "secret"}, []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeClient{}
			flow := NewStaffFlow(api, &fakeSession{})

			_, err := flow.Submit(context.Background(), tt.form)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.fields {
				assert.NotEmpty(t, verr.Fields[f], f)
			}
			assert.Len(t, verr.Fields, len(tt.fields))
			assert.Empty(t, api.Calls())
		})
	}
}

func TestStaffFlow_Success(t *testing.T) {
	user := models.User{ID: 1, Role: models.RoleAdmin, Email: "a@b.com"}
	api := &fakeClient{LoginFn: func(_ context.Context, email, password string) (*client.LoginResult, error) {
		assert.Equal(t, "a@b.com", email)
		assert.Equal(t, "secret", password)
		return &client.LoginResult{AccessToken: "T1", User: user}, nil
	}}
	session := &fakeSession{}
	flow := NewStaffFlow(api, session)

	next, err := flow.Submit(context.Background(), StaffLoginForm{Email: "a@b.com", Password: "secret", RememberMe: true})

	require.NoError(t, err)
	assert.Equal(t, router.PathHome, next)
	assert.Equal(t, []loginCall{{Token: "T1", User: user, RememberMe: true}}, session.logins)
}

func TestStaffFlow_ServerErrorsPassThrough(t *testing.T) {
	apiErr := &client.APIError{
		StatusCode: 422,
		Message:    "The given data was invalid.",
		Errors:     map[string][]string{"email": {"These credentials do not match our records."}},
	}
	api := &fakeClient{LoginFn: func(context.Context, string, string) (*client.LoginResult, error) {
		return nil, apiErr
	}}
	session := &fakeSession{}
	flow := NewStaffFlow(api, session)

	_, err := flow.Submit(context.Background(), StaffLoginForm{Email: "a@b.com", Password: "bad"})

	require.ErrorIs(t, err, apiErr)
	assert.Empty(t, session.logins)
	fb := Explain(err)
	assert.Equal(t, "The given data was invalid.", fb.Message)
	assert.Equal(t, []string{"These credentials do not match our records."}, fb.Fields["email"])
}

func TestStaffFlow_EmptyToken(t *testing.T) {
	api := &fakeClient{LoginFn: func(context.Context, string, string) (*client.LoginResult, error) {
		return &client.LoginResult{}, nil
	}}
	session := &fakeSession{}

	_, err := NewStaffFlow(api, session).Submit(context.Background(), StaffLoginForm{Email: "a", Password: "b"})

	require.ErrorIs(t, err, ErrEmptyToken)
	assert.Empty(t, session.logins)
}

func TestStaffFlow_RejectsConcurrentSubmit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeClient{LoginFn: func(context.Context, string, string) (*client.LoginResult, error) {
		close(entered)
		<-release
		return &client.LoginResult{AccessToken: "T1"}, nil
	}}
	flow := NewStaffFlow(api, &fakeSession{})
	form := StaffLoginForm{Email: "a@b.com", Password: "secret"}

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background(), form)
		done <- err
	}()
	<-entered

	_, err := flow.Submit(context.Background(), form)
	require.ErrorIs(t, err, ErrSubmitInProgress)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first submit did not finish")
	}
	assert.Equal(t, []string{"login"}, api.Calls())
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Feedback
	}{
		{"nil", nil, Feedback{}},
		{"transport", fmt.Errorf("%w: dial tcp: refused", client.ErrUnavailable), Feedback{Message: ConnectionFailedMessage}},
		{"validation", &ValidationError{Fields: map[string][]string{"email": {"x"}}}, Feedback{Fields: map[string][]string{"email": {"x"}}}},
		{"server without body", &client.APIError{StatusCode: 500}, Feedback{Message: "request failed: 500 Internal Server Error"}},
		{"server fields only", &client.APIError{StatusCode: 422, Errors: map[string][]string{"phone": {"bad"}}}, Feedback{Fields: map[string][]string{"phone": {"bad"}}}},
		{"other", ErrSubmitInProgress, Feedback{Message: ErrSubmitInProgress.Error()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Explain(tt.err))
		})
	}
}
