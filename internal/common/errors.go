package common

import "errors"

// ErrInvalidToken marks an access token that is empty, malformed or expired.
var ErrInvalidToken = errors.New("invalid token")
