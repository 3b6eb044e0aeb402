// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotConfigured   = errors.New("quote source not configured")
	ErrMarketClosed    = errors.New("market is closed")
	ErrSymbolNotFound  = errors.New("symbol not found")
	ErrHoldingNotFound = errors.New("holding not found")
	ErrPositionNotFound = errors.New("position not found")
	ErrLocked          = errors.New("app is locked")
	ErrInvalidPIN      = errors.New("invalid PIN")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTimeout         = errors.New("operation timed out")
	ErrConfigInvalid   = errors.New("invalid configuration")
	ErrDatabaseError   = errors.New("database error")
	ErrInputValidation = errors.New("input validation failed")
)

// QuoteError represents an error from a quote source. These never reach the
// user in the market-data path; the engine logs them and treats the cycle as
// having returned no data.
type QuoteError struct {
	Source  string // "broker", "yahoo"
	Kind    string // "network", "http", "parse", "not_configured"
	Message string
	Err     error
}

func (e *QuoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quote error [%s/%s]: %s: %v", e.Source, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("quote error [%s/%s]: %s", e.Source, e.Kind, e.Message)
}

func (e *QuoteError) Unwrap() error {
	return e.Err
}

// NewQuoteError creates a new QuoteError.
func NewQuoteError(source, kind, message string, err error) *QuoteError {
	return &QuoteError{Source: source, Kind: kind, Message: message, Err: err}
}

// ValidationError represents a form-validation error. Unlike quote errors
// these are surfaced to the user and block the corresponding action.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// StoreError represents a persistence-layer error.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s] %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{Op: op, Key: key, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
