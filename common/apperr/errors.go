// Package apperr defines the error vocabulary shared by services and
// repositories, and its mapping to transport status codes. Handlers
// never inspect storage errors directly; everything that crosses the
// service boundary is one of these kinds.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of transport
type Kind int

const (
	// KindInternal is the zero-value fallback for unclassified failures
	KindInternal Kind = iota

	// KindInvalidShape means the request body is structurally malformed
	// (wrong type, non-array where an array is required)
	KindInvalidShape

	// KindInvalidReference means a referenced id is not well-formed
	KindInvalidReference

	// KindReferenceNotFound means a well-formed referenced id does not
	// resolve to an entity owned by the acting user. Nonexistent and
	// foreign-owned are deliberately indistinguishable.
	KindReferenceNotFound

	// KindDuplicateName means a per-owner name uniqueness constraint
	// was violated
	KindDuplicateName

	// KindNotFound means the addressed resource itself is absent
	KindNotFound

	// KindUnauthorized means the identity assertion is missing or invalid
	KindUnauthorized
)

// Error is a classified application error
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidShape reports a structurally malformed request body
func InvalidShape(message string) *Error {
	return &Error{Kind: KindInvalidShape, Message: message}
}

// InvalidReference reports a malformed referenced id
func InvalidReference(message string) *Error {
	return &Error{Kind: KindInvalidReference, Message: message}
}

// ReferenceNotFound reports a reference that does not resolve under
// the acting user
func ReferenceNotFound(message string) *Error {
	return &Error{Kind: KindReferenceNotFound, Message: message}
}

// DuplicateName reports a per-owner name conflict
func DuplicateName(message string) *Error {
	return &Error{Kind: KindDuplicateName, Message: message}
}

// NotFound reports an absent addressed resource
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Unauthorized reports a missing or invalid identity assertion
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Internal wraps an unclassified failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Unclassified errors
// report KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf extracts the classified message from an error chain, or
// returns the fallback for unclassified errors so internal detail is
// never leaked to clients.
func MessageOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return fallback
}

// HTTPStatus maps an error kind to its transport status code.
// Duplicate names map to 400 rather than 409; that is the observed
// contract of this API and callers depend on it.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidShape, KindInvalidReference, KindReferenceNotFound, KindDuplicateName:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
