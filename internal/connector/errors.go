package connector

import (
	"errors"
	"fmt"
)

// ErrorCategory defines the normalized failure taxonomy for connectors.
type ErrorCategory string

const (
	// CategoryTimeout indicates the upstream took too long to respond.
	CategoryTimeout ErrorCategory = "timeout"

	// CategoryBadData indicates the upstream returned invalid or malformed data.
	CategoryBadData ErrorCategory = "bad_data"

	// CategoryOutage indicates the upstream is unavailable.
	CategoryOutage ErrorCategory = "provider_outage"

	// CategoryRateLimited indicates too many requests, locally or upstream.
	CategoryRateLimited ErrorCategory = "rate_limited"

	// CategoryNotFound indicates the upstream has no record for the key.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryInternal indicates an unexpected internal error.
	CategoryInternal ErrorCategory = "internal"
)

// Error wraps connector failures with normalized categorization.
type Error struct {
	Category    ErrorCategory
	ConnectorID string
	Message     string
	Underlying  error
	Retryable   bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("connector %s [%s]: %s: %v", e.ConnectorID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("connector %s [%s]: %s", e.ConnectorID, e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Underlying }

// NewError creates a normalized connector error. Timeouts, outages, and rate
// limits are retryable; bad data and misses are not.
func NewError(category ErrorCategory, connectorID, message string, underlying error) *Error {
	return &Error{
		Category:    category,
		ConnectorID: connectorID,
		Message:     message,
		Underlying:  underlying,
		Retryable:   category == CategoryTimeout || category == CategoryOutage || category == CategoryRateLimited,
	}
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

// Category extracts the error category from an error.
func Category(err error) ErrorCategory {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryInternal
}

// IsNotFound reports whether err is a connector miss.
func IsNotFound(err error) bool {
	return Category(err) == CategoryNotFound
}
