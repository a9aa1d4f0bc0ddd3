// Package apperrors defines the error taxonomy of the retail core. All of
// these mean the operation aborted cleanly with no partial state change;
// anything else that bubbles up is a persistence-layer failure.
package apperrors

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

var (
	// ErrInsufficientStock is returned when a decrement would take an
	// inventory quantity below zero.
	ErrInsufficientStock = stderrors.New("insufficient stock")

	// ErrInvalidReturn is returned when a return exceeds the remaining
	// returnable quantity of a sale line.
	ErrInvalidReturn = stderrors.New("invalid return")

	// ErrInvalidState is returned on an illegal transfer state transition.
	ErrInvalidState = stderrors.New("invalid state transition")

	// ErrValidation covers malformed input: empty lines, non-positive
	// quantities, unknown products, same-store transfers.
	ErrValidation = stderrors.New("validation failed")

	ErrNotFound         = stderrors.New("not found")
	ErrPermissionDenied = stderrors.New("permission denied")
)

// Validationf wraps ErrValidation with a caller-facing detail message.
func Validationf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}

// IsRecoverable reports whether the error is part of the business-rule
// taxonomy, meaning the operation aborted cleanly and the caller can
// correct and retry. Anything else is treated as infrastructure failure.
func IsRecoverable(err error) bool {
	for _, target := range []error{
		ErrInsufficientStock,
		ErrInvalidReturn,
		ErrInvalidState,
		ErrValidation,
		ErrNotFound,
		ErrPermissionDenied,
	} {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}
