package solana

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies failures so callers at the boundary can decide how much
// detail to surface.
type ErrorKind uint8

const (
	ErrorKindUnknown ErrorKind = iota

	// ErrorKindInvalidInput covers malformed or wrong length values, empty
	// required fields, out of range numbers and secret/key mismatches.
	ErrorKindInvalidInput

	// ErrorKindConstruction covers parameters that decoded fine but violate an
	// invariant of the receiving program.
	ErrorKindConstruction

	// ErrorKindInternal covers everything unexpected, such as the random
	// source failing. The reason is never shown to callers.
	ErrorKindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindInvalidInput:
		return "invalid input"
	case ErrorKindConstruction:
		return "construction error"
	case ErrorKindInternal:
		return "internal error"
	default:
		return "unknown"
	}
}

// Error is the value level error returned by the address codec, the signer
// and the instruction builders.
type Error struct {
	Kind   ErrorKind
	Reason string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.cause)
	}
	return e.Reason
}

// Cause implements the github.com/pkg/errors causer interface.
func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewInvalidInputError(reason string) error {
	return &Error{Kind: ErrorKindInvalidInput, Reason: reason}
}

func NewInvalidInputErrorf(format string, args ...interface{}) error {
	return &Error{Kind: ErrorKindInvalidInput, Reason: fmt.Sprintf(format, args...)}
}

// WrapInvalidInput marks err as invalid input.
func WrapInvalidInput(err error, reason string) error {
	return &Error{Kind: ErrorKindInvalidInput, Reason: reason, cause: err}
}

func NewConstructionError(reason string) error {
	return &Error{Kind: ErrorKindConstruction, Reason: reason}
}

func NewConstructionErrorf(format string, args ...interface{}) error {
	return &Error{Kind: ErrorKindConstruction, Reason: fmt.Sprintf(format, args...)}
}

// NewInternalError marks err as an unexpected failure.
func NewInternalError(err error, reason string) error {
	return &Error{Kind: ErrorKindInternal, Reason: reason, cause: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ErrorKindUnknown
}

func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrorKindInvalidInput
}

func IsConstructionError(err error) bool {
	return KindOf(err) == ErrorKindConstruction
}

func IsInternalError(err error) bool {
	return KindOf(err) == ErrorKindInternal
}
