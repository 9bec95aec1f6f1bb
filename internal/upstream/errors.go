// Package upstream defines the error surface of the marketplace clients.
// Handlers translate these into response codes; nothing in here knows about
// HTTP handlers.
package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrAccessDenied means the marketplace refused the scraping session,
	// not that the caller's API key was bad.
	ErrAccessDenied = errors.New("upstream access denied")

	// ErrRateLimited means the marketplace throttled us and retrying
	// immediately will not help.
	ErrRateLimited = errors.New("upstream rate limited")
)

// APIError is an unexpected upstream reply kept with enough context to log
// and map to a response.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

func NewAPIError(op string, status int, body []byte) *APIError {
	const maxBody = 512
	s := string(body)
	if len(s) > maxBody {
		s = s[:maxBody]
	}
	return &APIError{Op: op, Status: status, Body: s}
}
