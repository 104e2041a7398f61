package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Kind classifies the failures returned by client operations.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAlreadyDeleted
	KindDuplicateEmail
	KindVersionConflict
	KindValidation
	KindStore
	KindCache
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyDeleted:
		return "already_deleted"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindVersionConflict:
		return "version_conflict"
	case KindValidation:
		return "validation"
	case KindStore:
		return "store"
	case KindCache:
		return "cache"
	default:
		return "unknown"
	}
}

// HTTPStatus is the status code a transport layer should answer with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyDeleted:
		return http.StatusGone
	case KindDuplicateEmail:
		return http.StatusConflict
	case KindVersionConflict:
		return http.StatusPreconditionFailed
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error type returned by the service layer.
// Two errors match under errors.Is when their kinds are equal, so the
// package sentinels can be used to test for a kind.
type Error struct {
	Kind  Kind
	ID    uuid.UUID
	Email string
	Err   error
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrAlreadyDeleted  = &Error{Kind: KindAlreadyDeleted}
	ErrDuplicateEmail  = &Error{Kind: KindDuplicateEmail}
	ErrVersionConflict = &Error{Kind: KindVersionConflict}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrStore           = &Error{Kind: KindStore}
	ErrCache           = &Error{Kind: KindCache}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		if e.ID != uuid.Nil {
			return fmt.Sprintf("client %s not found", e.ID)
		}
		return "client not found"
	case KindAlreadyDeleted:
		if e.ID != uuid.Nil {
			return fmt.Sprintf("client %s has been deleted", e.ID)
		}
		return "client has been deleted"
	case KindDuplicateEmail:
		if e.Email != "" {
			return fmt.Sprintf("email %q is already registered", e.Email)
		}
		return "email is already registered"
	case KindVersionConflict:
		return "client was modified concurrently, reload and retry"
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of the first *Error in the chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// NotFound builds a KindNotFound error for id.
func NotFound(id uuid.UUID) error {
	return &Error{Kind: KindNotFound, ID: id}
}

// AlreadyDeleted builds a KindAlreadyDeleted error for id.
func AlreadyDeleted(id uuid.UUID) error {
	return &Error{Kind: KindAlreadyDeleted, ID: id}
}

// DuplicateEmail builds a KindDuplicateEmail error for email.
func DuplicateEmail(email string) error {
	return &Error{Kind: KindDuplicateEmail, Email: email}
}

// VersionConflict builds a KindVersionConflict error, optionally wrapping the store cause.
func VersionConflict(id uuid.UUID, cause error) error {
	return &Error{Kind: KindVersionConflict, ID: id, Err: cause}
}

// StoreFailure wraps a gateway failure as KindStore.
func StoreFailure(err error) error {
	return &Error{Kind: KindStore, Err: err}
}

// CacheFailure wraps a gateway failure as KindCache.
func CacheFailure(err error) error {
	return &Error{Kind: KindCache, Err: err}
}

// ValidationFailure wraps an input validation error as KindValidation.
func ValidationFailure(err error) error {
	return &Error{Kind: KindValidation, Err: err}
}
