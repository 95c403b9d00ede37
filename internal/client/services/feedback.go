package services

import (
	"errors"

	"github.com/dmitrijs2005/laundrydesk/internal/client/client"
)

// ConnectionFailedMessage is shown for transport errors.
const ConnectionFailedMessage = "Connection failed. Please check your network and try again."

// Feedback is what the user sees after a failed submit: an optional general
// message and messages keyed by form field.
type Feedback struct {
	Message string
	Fields  map[string][]string
}

// Explain turns a flow error into user-facing feedback. Server messages are
// passed through verbatim.
func Explain(err error) Feedback {
	if err == nil {
		return Feedback{}
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return Feedback{Fields: verr.Fields}
	}

	if errors.Is(err, client.ErrUnavailable) {
		return Feedback{Message: ConnectionFailedMessage}
	}

	if apiErr, ok := client.AsAPIError(err); ok {
		fb := Feedback{Fields: apiErr.Errors}
		if apiErr.Message != "" || len(apiErr.Errors) == 0 {
			fb.Message = apiErr.Error()
		}
		return fb
	}

	return Feedback{Message: err.Error()}
}
