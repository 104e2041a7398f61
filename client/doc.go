// Package client defines the client record, its lifecycle states, the error
// kinds returned by client operations and the Store port backing them.
//
// # Lifecycle
//
// A record is created active (unless the create input says otherwise) with
// version 0. Toggling moves it between active and inactive; soft-deleting sets
// DeletedAt and is terminal. Every successful mutation increments Version.
//
//	active <-> inactive
//	   \         /
//	    deleted (terminal)
//
// # Errors
//
// Operations return *Error values. Use errors.Is with the package sentinels
// (ErrNotFound, ErrAlreadyDeleted, ErrDuplicateEmail, ErrVersionConflict,
// ErrValidation, ErrStore) to branch on the failure kind, or KindOf to get the
// Kind directly. Kind.HTTPStatus maps a kind to the status a transport should use.
package client
