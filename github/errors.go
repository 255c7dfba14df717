package github

import (
	"errors"
	"fmt"
)

// ErrTransport wraps network level failures talking to the GitHub API.
var ErrTransport = errors.New("GitHub API transport error")

// APIError is returned for any unexpected HTTP status from the GitHub API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error: %d - %s", e.StatusCode, e.Body)
}
