package identitysdk

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status int
	ErrorResponse
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("identity: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("identity: %d %s", e.Status, e.Message)
}

// IsTwoFactorRequired reports whether a sign-in must be retried with a code.
func IsTwoFactorRequired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.TwoFactorRequired
}

// StatusCode returns the HTTP status of an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
