package notion

import (
	"errors"
	"fmt"

	"github.com/jomei/notionapi"
)

// AuthenticationError indicates the API token was rejected
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// NotFoundError indicates the requested object does not exist or is not
// shared with the integration
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object not found: %s", e.ID)
}

// RateLimitError indicates the API asked us to slow down
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %s", e.Message)
}

// ValidationError indicates the request was malformed, usually a bad ID
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Message)
}

// typedError converts API error envelopes into the package's error types so
// callers can match them with errors.As. Other errors pass through unchanged.
func typedError(err error, id string) error {
	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch string(apiErr.Code) {
	case "unauthorized", "restricted_resource":
		return &AuthenticationError{Message: apiErr.Message}
	case "object_not_found":
		return &NotFoundError{ID: id}
	case "rate_limited":
		return &RateLimitError{Message: apiErr.Message}
	case "validation_error":
		return &ValidationError{Message: apiErr.Message}
	default:
		return err
	}
}
