package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("invalid order state")
	ErrAmountMismatch    = errors.New("payment amount does not match order total")
	ErrForbidden         = errors.New("forbidden")
	ErrTransaction       = errors.New("transaction failure")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type StockError struct {
	ProductID   int
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// NotFoundf wraps ErrNotFound with the missing entity.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}
