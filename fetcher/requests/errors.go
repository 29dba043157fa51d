package requests

import "fmt"

// NotFoundError means the resource doesn't exist upstream.
// Never retried.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// AuthError means the key is invalid or lacks permission.
// Retrying with the same key can't succeed, so it's never retried.
type AuthError struct {
	StatusCode int
	Hint       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed with status %d: %s", e.StatusCode, e.Hint)
}

// StatusError is a single failed attempt with a unexpected status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status code %d: %s", e.StatusCode, e.Body)
}

// MaxRetriesError means the attempt budget was exhausted.
// Last holds the error of the final attempt, nil if every attempt was rate limited.
type MaxRetriesError struct {
	Attempts int
	Last     error
}

func (e *MaxRetriesError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("max retries exceeded after %d attempts: still rate limited", e.Attempts)
	}
	return fmt.Sprintf("max retries exceeded after %d attempts: %v", e.Attempts, e.Last)
}

func (e *MaxRetriesError) Unwrap() error {
	return e.Last
}
