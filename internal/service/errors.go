package service

import "errors"

// Error taxonomy the handlers translate to HTTP statuses. Provider failures
// are wrapped in ErrUpstream at the service boundary; the original Stripe
// error is logged server-side and never echoed to the caller.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrSessionNotFound  = errors.New("checkout session not found")
	ErrSignatureInvalid = errors.New("webhook signature invalid")
	ErrUpstream         = errors.New("payment provider request failed")
)
