package domain

import "errors"

var (
	// ErrNotFound: a referenced buyer/item/order does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition: attempt to move an order out of a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrMalformedToken: a callback payload that matches no known intent.
	ErrMalformedToken = errors.New("malformed action token")
	// ErrNothingDelivered: a delivery run where zero media groups went out.
	ErrNothingDelivered = errors.New("nothing delivered")
	// ErrMediaAbsent: a media handle that resolves to no file.
	ErrMediaAbsent = errors.New("media file absent")
)
