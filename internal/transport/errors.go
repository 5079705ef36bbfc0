package transport

import (
	"context"
	"errors"
	"net"
)

// Error wraps a transport failure with its retry class.
type Error struct {
	Retryable bool
	Err       error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Transient marks a timeout-class failure eligible for retry.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Retryable: true, Err: err}
}

// Permanent marks a non-retryable failure (e.g. malformed payload).
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Retryable: false, Err: err}
}

// IsTransient reports whether err should be retried. Unclassified deadline
// and network timeouts count as transient.
func IsTransient(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Retryable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
