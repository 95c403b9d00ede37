package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/laundrydesk/internal/client/models"
	"github.com/dmitrijs2005/laundrydesk/internal/common"
	"github.com/dmitrijs2005/laundrydesk/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultTimeout = 15 * time.Second
	userAgent      = "laundrydesk-cli/1.0"
)

// HTTPClient talks to the laundry REST API over JSON/HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     logging.Logger

	mu          sync.RWMutex
	accessToken string
}

type Option func(*HTTPClient)

// WithHTTPClient makes the client send requests through c as is. A nil c
// keeps the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.httpClient = c }
}

// WithTimeout sets the timeout of the default client. It has no effect
// together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.logger = l }
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ClientLogin(ctx context.Context, phone string) (*ChallengeResult, error) {
	var res ChallengeResult
	if err := c.do(ctx, http.MethodPost, "/client-login", phoneRequest{Phone: phone}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, phone, otp, tempToken string) (*VerifyResult, error) {
	var res VerifyResult
	req := verifyRequest{Phone: phone, OTP: otp, TempToken: tempToken}
	if err := c.do(ctx, http.MethodPost, "/verify-otp", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ResendOTP(ctx context.Context, phone string) error {
	return c.do(ctx, http.MethodPost, "/resend-otp", phoneRequest{Phone: phone}, nil)
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Countries(ctx context.Context) ([]models.Country, error) {
	var list []models.Country
	if err := c.do(ctx, http.MethodGet, "/countries", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) Subscriber(ctx context.Context, id int64) (*models.Subscriber, error) {
	var s models.Subscriber
	if err := c.do(ctx, http.MethodGet, "/subscribers/"+strconv.FormatInt(id, 10), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// do sends one JSON request. Transport failures are wrapped in
// ErrUnavailable; responses outside 2xx become *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, result any) error {
	reqURL, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", common.ContentTypeJSON)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(common.RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	}
	if token := c.token(); token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	log := c.logger.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrUnavailable, err)
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
