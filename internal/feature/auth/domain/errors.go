// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for authentication operations.
// Upper layers choose user-facing text from the ErrorKind, never from the message.
var (
	// ErrValidation indicates that a required field was missing or unusable.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateIdentity indicates that the email or username is already registered.
	ErrDuplicateIdentity = errors.New("identity already exists")

	// ErrIdentityNotFound indicates that no user was found with the given email.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrInvalidCredential indicates that the password does not match the stored digest.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrStoreUnavailable covers connection loss, query failure and timeouts
	// in the credential or session store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSessionNotFound indicates that no live session exists for an identifier.
	ErrSessionNotFound = errors.New("session not found")
)

// ErrorKind classifies an auth error for the presentation layer.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindDuplicateIdentity
	KindIdentityNotFound
	KindInvalidCredential
	KindStoreUnavailable
	KindSessionNotFound
	KindInternal
)

// String returns a stable, log-friendly name.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindDuplicateIdentity:
		return "duplicate_identity"
	case KindIdentityNotFound:
		return "identity_not_found"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindStoreUnavailable:
		return "store_unavailable"
	case KindSessionNotFound:
		return "session_not_found"
	default:
		return "internal"
	}
}

// KindOf maps err onto its ErrorKind. Unrecognised errors are KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicateIdentity):
		return KindDuplicateIdentity
	case errors.Is(err, ErrIdentityNotFound):
		return KindIdentityNotFound
	case errors.Is(err, ErrInvalidCredential):
		return KindInvalidCredential
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, ErrSessionNotFound):
		return KindSessionNotFound
	default:
		return KindInternal
	}
}
