package gofile

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyServerList indicates the API returned no upload server for the
	// requested zone.
	ErrEmptyServerList = errors.New("gofile: empty server list")

	// ErrInvalidContentURL indicates a share link that does not look like
	// https://gofile.io/d/{code}.
	ErrInvalidContentURL = errors.New("gofile: invalid content url")

	// ErrMissingToken indicates an operation that requires an account token.
	ErrMissingToken = errors.New("gofile: account token is required")
)

// APIError reports a response whose envelope carried a non-ok status. The
// HTTP exchange itself succeeded; the API refused the operation.
type APIError struct {
	Status string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gofile: api status %q", e.Status)
}

// HTTPError reports a non-2xx response whose body did not carry a readable
// status envelope.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gofile: http status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}
