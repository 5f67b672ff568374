package recipes

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("recipe API key not set")
	ErrInvalidCredential = errors.New("invalid recipe API key")
	ErrQuotaExceeded     = errors.New("recipe API quota exceeded")
	ErrNetwork           = errors.New("network error while fetching recipes")
	ErrParse             = errors.New("unexpected recipe API response")
)

// RequestFailedError is returned for non-success statuses other than 401 and 402.
type RequestFailedError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("recipe API request failed: %s", e.Status)
}
