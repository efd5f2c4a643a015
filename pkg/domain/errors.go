// Package domain holds the error taxonomy shared by every shareit layer.
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure. The transport layer maps kinds to status codes.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindNotAuthorized    ErrorKind = "NOT_AUTHORIZED"
	KindNotAvailable     ErrorKind = "NOT_AVAILABLE"
	KindValidation       ErrorKind = "VALIDATION"
	KindUnsupportedState ErrorKind = "UNSUPPORTED_STATE"
	KindAlreadyExists    ErrorKind = "ALREADY_EXISTS"
	KindConflict         ErrorKind = "CONFLICT"
)

// Error is a classified domain failure carrying a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
	// Field names the offending input field, when there is one.
	Field string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// NewNotFoundError reports a missing entity, e.g. "Booking not found: id=5".
func NewNotFoundError(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: id=%v", entity, id)}
}

// NewNotAuthorizedError reports an actor that may not see or act on a resource.
// It is rendered exactly like a missing resource.
func NewNotAuthorizedError(message string) *Error {
	return &Error{Kind: KindNotAuthorized, Message: message}
}

// NewNotAvailableError reports a resource that exists but cannot be used by this actor.
func NewNotAvailableError(message string) *Error {
	return &Error{Kind: KindNotAvailable, Message: message}
}

// NewValidationError reports a business rule violated by fixable input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewFieldValidationError reports an invalid input field.
func NewFieldValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field}
}

// NewUnsupportedStateError reports an unrecognized state filter token.
func NewUnsupportedStateError(state string) *Error {
	return &Error{Kind: KindUnsupportedState, Message: fmt.Sprintf("Unknown state: %s", state)}
}

// NewAlreadyExistsError reports a uniqueness violation.
func NewAlreadyExistsError(message string) *Error {
	return &Error{Kind: KindAlreadyExists, Message: message}
}

// NewConflictError reports a concurrent modification.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of a domain error anywhere in err's chain, or "" for unclassified errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND domain error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsValidation reports whether err is a VALIDATION domain error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
