package grants

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGrant is returned when a name or description is blank after trimming.
	// No request is sent in that case.
	ErrInvalidGrant = errors.New("grant name and description are required")

	// ErrCreateInFlight is returned when a create is attempted while another is pending.
	ErrCreateInFlight = errors.New("a grant is already being added")
)

// Fallback messages used when the service does not provide one.
const (
	genericCreateMessage = "failed to add grant"
	genericListMessage   = "failed to load grants"
	genericHealthMessage = "health check failed"
)

// APIError is a non-2xx response from the grants service.
type APIError struct {
	// Op is the operation that failed: "list", "create" or "health"
	Op string
	// StatusCode is the HTTP status returned by the service
	StatusCode int
	// Message is the service-provided error text, possibly empty
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s grants: %s (status %d)", e.Op, e.UserMessage(), e.StatusCode)
}

// UserMessage returns the service message verbatim, or a generic
// message for the operation when the service did not send one.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Op {
	case "create":
		return genericCreateMessage
	case "health":
		return genericHealthMessage
	default:
		return genericListMessage
	}
}

// UserMessage extracts the text to show a user for err. Service errors
// yield the server message; anything else yields err's own text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return err.Error()
}
