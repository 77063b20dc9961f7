package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a classified failure whose Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches sentinels by identity and also by kind+message, so that an error
// rebuilt with a cause still compares equal to its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// NewError returns a classified error.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WithCause returns a copy of a sentinel carrying an underlying cause.
func WithCause(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Cause: cause}
}

// KindOf returns the kind of the first domain error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

var (
	ErrMissingFields      = NewError(KindBadRequest, "Please provide all required fields")
	ErrMissingCredentials = NewError(KindBadRequest, "Please provide email and password")
	ErrNoFieldsToUpdate   = NewError(KindBadRequest, "No fields to update")

	ErrAccountExists = NewError(KindConflict, "User with this email or username already exists")
	ErrIdentityInUse = NewError(KindConflict, "Username or email already in use")

	ErrInvalidCredentials = NewError(KindUnauthenticated, "Invalid credentials")
	ErrTokenMissing       = NewError(KindUnauthenticated, "No token provided")
	ErrTokenInvalid       = NewError(KindUnauthenticated, "Invalid or expired token")

	ErrAdminRequired = NewError(KindForbidden, "Admin access required")
	ErrNotOwner      = NewError(KindForbidden, "Not authorized to access this resource")

	ErrAccountNotFound = NewError(KindNotFound, "User not found")
)

// ErrPasswordTooLong is returned when a password exceeds the hash input limit.
var ErrPasswordTooLong = NewError(KindBadRequest, "Password must be at most 72 bytes")

// ErrInvalidRole is returned when provisioning names an unknown role.
var ErrInvalidRole = NewError(KindBadRequest, "Role must be one of: user, admin")
