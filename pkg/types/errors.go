package types

import "errors"

// Key-value store errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidKey      = errors.New("invalid key")
)

// Client-side precondition errors. Operations that fail one of these never
// reach the remote gateway.
var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrForbidden         = errors.New("moderator role required")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrInvalidAction     = errors.New("action must be complete or reject")
	ErrInvalidData       = errors.New("invalid data")
	ErrInvalidDate       = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNoActiveCart      = errors.New("no active cart")
)
