package client

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Errors a Store implementation reports. The service maps them to error kinds.
var (
	// ErrNoRecord means no row exists for the requested id.
	ErrNoRecord = errors.New("store: record not found")
	// ErrStaleVersion means the row version changed between load and write.
	ErrStaleVersion = errors.New("store: stale record version")
	// ErrEmailTaken means the unique email constraint rejected the write.
	ErrEmailTaken = errors.New("store: email already taken")
)

// Store is the durable gateway the service reads and writes through.
// Implementations must be safe for concurrent use.
type Store interface {
	// Insert persists a new record as given, including its initial version.
	Insert(ctx context.Context, record Client) (Client, error)

	// Update writes record only if the stored row still has record.Version.
	// On success the returned record carries Version+1. A lost race returns
	// ErrStaleVersion; a missing row returns ErrNoRecord.
	Update(ctx context.Context, record Client) (Client, error)

	// FindByID loads a record regardless of its deletion state.
	FindByID(ctx context.Context, id uuid.UUID) (Client, error)

	// FindFiltered returns one sorted page of the records matching the filter.
	FindFiltered(ctx context.Context, query ListQuery) ([]Client, error)

	// CountFiltered counts every record matching the same filter as FindFiltered.
	CountFiltered(ctx context.Context, filter Filter) (int, error)

	// ExistsByEmail matches email case-insensitively across all records.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByEmailExcluding is ExistsByEmail ignoring the record with id.
	ExistsByEmailExcluding(ctx context.Context, email string, id uuid.UUID) (bool, error)
}
