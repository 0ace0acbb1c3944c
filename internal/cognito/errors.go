package cognito

import "errors"

// Sentinel errors for Cognito operations.
var (
	ErrNotAuthorized    = errors.New("not authorized")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserNotConfirmed = errors.New("user not confirmed")
	ErrTooManyRequests  = errors.New("too many requests")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrMissingSub       = errors.New("user has no sub attribute")
)
