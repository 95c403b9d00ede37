package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnavailable wraps transport failures: the request never produced a
	// response.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized matches any 401 APIError via errors.Is.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response. Message and Errors are shown to the user
// verbatim.
type APIError struct {
	StatusCode int
	Message    string
	Errors     map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseError builds an APIError from a response body shaped like
// {"message": "...", "errors": {"field": ["msg", ...]}}. Field values given as
// a plain string are accepted too.
func parseError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload struct {
		Message string                     `json:"message"`
		Error   string                     `json:"error"`
		Errors  map[string]json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Message = payload.Message
	if apiErr.Message == "" {
		apiErr.Message = payload.Error
	}

	if len(payload.Errors) > 0 {
		apiErr.Errors = make(map[string][]string, len(payload.Errors))
		for field, raw := range payload.Errors {
			var list []string
			if err := json.Unmarshal(raw, &list); err == nil {
				apiErr.Errors[field] = list
				continue
			}
			var single string
			if err := json.Unmarshal(raw, &single); err == nil {
				apiErr.Errors[field] = []string{single}
			}
		}
	}

	return apiErr
}
