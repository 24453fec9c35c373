package domain

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrSessionInvalid      = errors.New("session is no longer valid")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrCheckoutNotFound    = errors.New("no checkout in progress for the current session")
	ErrCheckoutModified    = errors.New("checkout was modified by a concurrent request")
	ErrConflict            = errors.New("request conflicts with current state")
	ErrSeatConflict        = errors.New("seat is no longer available")
	ErrInvalidAttemptState = errors.New("operation not allowed in the current payment state")
	ErrAlreadyRecorded     = errors.New("reconciliation entry already recorded")
)
