package types

import (
	"errors"
	"strconv"
)

// Entity errors. These are recoverable domain errors surfaced to the caller;
// nothing in this module retries on them.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrAlreadyOwned  = errors.New("item already owned by target owner")
	ErrInvalidState  = errors.New("invalid entity state")
)

// Input validation errors.
var (
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidKind = errors.New("unknown entity kind")
	ErrInvalidKey  = errors.New("malformed state key")
)

// Store lifecycle errors.
var (
	ErrStoreClosed = errors.New("state store is closed")
)

// IsDomainError reports whether err is one of the recoverable entity errors
// (as opposed to a store or encoding failure).
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrAlreadyOwned) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidID)
}

// EntityError attaches the entity a domain error is about. Err is one of
// the sentinels above.
type EntityError struct {
	Kind Kind
	ID   string
	Err  error
}

func (e *EntityError) Error() string {
	return e.Kind.String() + " " + strconv.Quote(e.ID) + ": " + e.Err.Error()
}

func (e *EntityError) Unwrap() error { return e.Err }
