package n8n

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnexpectedResponse indicates a 2xx response whose body had an unknown shape.
var ErrUnexpectedResponse = errors.New("unexpected response from n8n")

// HTTPError represents a non-2xx answer from the n8n API.
type HTTPError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an HTTP 404 from n8n.
func IsNotFound(err error) bool {
	var httpErr *HTTPError

	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether n8n rejected the API key.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError

	return errors.As(err, &httpErr) &&
		(httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden)
}
