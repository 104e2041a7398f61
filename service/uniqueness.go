package service

import (
	"context"
	"strings"

	"github.com/goliatone/go-client-store/client"
	"github.com/google/uuid"
)

// UniquenessChecker answers whether an email is already registered.
// Matching is case-insensitive and deleted records still hold their email.
type UniquenessChecker struct {
	store client.Store
}

// NewUniquenessChecker returns a checker querying store.
func NewUniquenessChecker(store client.Store) *UniquenessChecker {
	return &UniquenessChecker{store: store}
}

// Taken reports whether any record uses email.
func (u *UniquenessChecker) Taken(ctx context.Context, email string) (bool, error) {
	return u.store.ExistsByEmail(ctx, normalizeEmail(email))
}

// TakenByOther reports whether a record other than id uses email.
func (u *UniquenessChecker) TakenByOther(ctx context.Context, email string, id uuid.UUID) (bool, error) {
	return u.store.ExistsByEmailExcluding(ctx, normalizeEmail(email), id)
}

// ensureAvailable returns DuplicateEmail when email is taken by a record other
// than exclude. uuid.Nil checks against every record.
func (u *UniquenessChecker) ensureAvailable(ctx context.Context, email string, exclude uuid.UUID) error {
	var (
		taken bool
		err   error
	)
	if exclude == uuid.Nil {
		taken, err = u.Taken(ctx, email)
	} else {
		taken, err = u.TakenByOther(ctx, email, exclude)
	}
	if err != nil {
		return client.StoreFailure(err)
	}
	if taken {
		return client.DuplicateEmail(email)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
