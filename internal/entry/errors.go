package entry

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the upstream has no entry for an ID.
var ErrNotFound = errors.New("entry not found")

// RetryableError indicates a transient upstream failure that can be retried.
type RetryableError struct {
	StatusCode int // 0 for transport failures
	Message    string
}

func (e *RetryableError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("retryable error: %s", truncate(e.Message, 200))
	}
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// GraphQLError is an error reported in the "errors" array of a response.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

func (e *GraphQLError) Error() string {
	return "graphql: " + e.Message
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
