package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrOutOfStock      = errors.New("item is out of stock")

	// Persistence plumbing
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid execution context")
	// ErrConstraint marks input the database refused. Its text comes from
	// the store and is not shown to clients.
	ErrConstraint = errors.New("constraint violated")

	// Infra
	ErrLockHeld    = errors.New("lock is held by another worker")
	ErrRateLimited = errors.New("too many requests")
)
