package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrAlreadyCancelled   = errors.New("order already cancelled")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrConcurrentUpdate   = errors.New("record changed concurrently")
	ErrAlreadyPaid        = errors.New("order already paid")
	ErrNotOnlinePayment   = errors.New("order is not an online payment")
	ErrPaymentNotVerified = errors.New("payment not verified")
	ErrAmountMismatch     = errors.New("payment amount mismatch")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrDiscountExhausted  = errors.New("discount code usage limit reached")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NewValidationError builds ValidationError for the field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
