package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition indicates a status change that violates the state machine.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrValidation indicates rejected input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrStoreUnavailable indicates the data store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)
