package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates rejected input; the draft or record is left unchanged.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
)

// ValidationError reports a per-field validation failure. It matches
// ErrValidation under errors.Is so handlers can map it to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a field-level validation error.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PaymentPendingError signals that an order was durably created but the
// auto-generated payment record failed. Callers must surface the created
// order and offer a retry of just the payment step.
type PaymentPendingError struct {
	OrderID int64
	Err     error
}

func (e *PaymentPendingError) Error() string {
	return fmt.Sprintf("order %d created but payment record failed: %v", e.OrderID, e.Err)
}

func (e *PaymentPendingError) Unwrap() error { return e.Err }

// UserSafeMessage returns a message safe to show to end users.
func UserSafeMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var perr *PaymentPendingError
	if errors.As(err, &perr) {
		return fmt.Sprintf("order %d was created, but recording its payment failed; retry the payment", perr.OrderID)
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "the requested record was not found"
	case errors.Is(err, ErrDuplicate):
		return "a matching record already exists"
	default:
		return "an unexpected error occurred"
	}
}
