package github

import (
	"errors"
	"fmt"
)

var ErrRepositoryNotFound = errors.New("Repository not found")

// APIError is a non-404 failure answered by the GitHub API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error: %d (%s)", e.StatusCode, e.Endpoint)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
