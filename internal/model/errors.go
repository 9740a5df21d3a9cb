package model

import "errors"

var (
	// ErrNotFound is returned by stores when a key or object does not exist.
	ErrNotFound = errors.New("not found")

	ErrMissingFields      = errors.New("identifier and password are required")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthInProgress     = errors.New("authentication already in progress")

	ErrInvalidConsent  = errors.New("invalid consent choice")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrInvalidAuthMode = errors.New("invalid auth mode")
)
