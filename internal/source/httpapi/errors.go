package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/reelfeed/reelfeed/internal/engine/feed"
)

// ErrIncompatibleAPI is returned when the service reports a version older
// than api.min_version.
var ErrIncompatibleAPI = errors.New("review service version is not supported")

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 512

// StatusError is a non-2xx response from the review service.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap maps the status to the feed error it represents.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return feed.ErrNotFound
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return feed.ErrUnauthorized
	case e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity:
		return feed.ErrInvalidPost
	default:
		return feed.ErrSourceUnavailable
	}
}
