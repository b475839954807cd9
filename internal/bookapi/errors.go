package bookapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates the backend has no book with the requested id
var ErrNotFound = errors.New("book not found")

// StatusError represents any non-2xx response from the backend
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("book API error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("book API error: HTTP %d: %s", e.StatusCode, e.Body)
}

// Unwrap lets errors.Is(err, ErrNotFound) match a 404.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// IsServerError reports whether err carries a 5xx status.
func IsServerError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 500
}
