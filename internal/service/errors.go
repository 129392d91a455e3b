package service

import "errors"

// Sentinel errors the HTTP layer maps onto status codes. Wrapped errors keep
// the descriptive message for the response body.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("not allowed")
	ErrAlreadyPaid    = errors.New("debt is already paid")
	ErrNotPending     = errors.New("debt is no longer pending")
	ErrAlreadySettled = errors.New("split is no longer active")
)
