package types

import "fmt"

// Domain error kinds raised by services. The error middleware maps each kind
// to an HTTP status; anything else becomes a 500 with a generic message.

// NotFoundError indicates the requested entity does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// NewNotFoundError returns a NotFoundError for the named entity.
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// DuplicateError indicates an already-existing resource or edge.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string {
	return e.Message
}

func NewDuplicateError(message string) error {
	return &DuplicateError{Message: message}
}

// ValidationError indicates a malformed or unacceptable request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// UnauthorizedError indicates the caller may not perform the operation.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func NewUnauthorizedError(message string) error {
	return &UnauthorizedError{Message: message}
}
