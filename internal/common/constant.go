// Package common contains constants shared by the API client and its tests.
package common

const (
	// AuthorizationHeader carries "Bearer <token>" on authenticated requests.
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "

	// RequestIDHeader correlates client log lines with server logs.
	RequestIDHeader = "X-Request-ID"

	ContentTypeJSON = "application/json"
)
