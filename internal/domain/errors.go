package domain

import (
	"errors"
	"fmt"
)

const invalidStatusMessage = `Invalid status. Status must be "Pending" or "Completed".`

// ErrNotFound means no task matched an id, or a lookup that must not be empty was empty
var ErrNotFound = errors.New("task not found")

// ValidationError is returned for missing or malformed input
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with a client facing message
func NewValidationError(msg string, fields ...string) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

// InvalidStatusError is the error for a status outside the enumeration
func InvalidStatusError() *ValidationError {
	return NewValidationError(invalidStatusMessage, "status")
}

// NotFoundError carries a client facing message and matches ErrNotFound
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps any failure of the storage backend
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a *ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
