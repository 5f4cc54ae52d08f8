package util

import "errors"

// The engine's error taxonomy. All three are recoverable by the caller:
// correct the request for the first two, retry for the third.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflicting concurrent write, retry")
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrBadCredentials   = errors.New("invalid email or password")
	ErrAccountDisabled  = errors.New("account disabled")
	ErrPermissionDenied = errors.New("permission denied")
)
