package contract

import (
	"errors"

	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// Code is the stable, caller-facing name of a domain failure.
type Code string

// Error codes returned to callers of the contract.
const (
	CodeItemNotFound       Code = "ITEM_NOT_FOUND"
	CodeOwnerNotFound      Code = "OWNER_NOT_FOUND"
	CodeItemAlreadyExists  Code = "ITEM_ALREADY_EXISTS"
	CodeOwnerAlreadyExists Code = "OWNER_ALREADY_EXISTS"
	CodeItemAlreadyOwned   Code = "ITEM_ALREADY_OWNED"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
)

// Error is a domain failure raised by a contract operation. Err keeps the
// underlying chain so errors.Is matches the types sentinels.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the code carried by err, if any.
func CodeOf(err error) (Code, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return "", false
}

// translate wraps domain errors in an *Error. Store and encoding failures
// pass through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := CodeOf(err); ok {
		return err
	}
	code, ok := classify(err)
	if !ok {
		return err
	}
	return &Error{Code: code, Message: err.Error(), Err: err}
}

func classify(err error) (Code, bool) {
	var kind types.Kind
	var ee *types.EntityError
	if errors.As(err, &ee) {
		kind = ee.Kind
	}

	switch {
	case errors.Is(err, types.ErrNotFound):
		if kind == types.KindOwner {
			return CodeOwnerNotFound, true
		}
		return CodeItemNotFound, true
	case errors.Is(err, types.ErrAlreadyExists):
		if kind == types.KindOwner {
			return CodeOwnerAlreadyExists, true
		}
		return CodeItemAlreadyExists, true
	case errors.Is(err, types.ErrAlreadyOwned):
		return CodeItemAlreadyOwned, true
	case errors.Is(err, types.ErrInvalidState):
		return CodeInvalidState, true
	case errors.Is(err, types.ErrInvalidID), errors.Is(err, types.ErrInvalidKind):
		return CodeInvalidArgument, true
	default:
		return "", false
	}
}
