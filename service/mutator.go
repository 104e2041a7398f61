package service

import (
	"context"
	"time"

	"github.com/goliatone/go-client-store/client"
	"github.com/goliatone/go-client-store/logging"
	"github.com/google/uuid"
)

// mutation describes one write against an existing record. Update, Patch,
// ToggleActive, SetActive and Delete differ only in these fields.
type mutation struct {
	op string
	id uuid.UUID
	// version is the caller's token; nil skips the in-process check.
	version *int64
	apply   func(rec *client.Client, now time.Time)
}

// mutate runs load, state and version checks, transition, uniqueness check,
// persist and invalidate in that order. Every check happens before the single
// store write; nothing is retried.
func (s *Service) mutate(ctx context.Context, m mutation) (client.Client, error) {
	fields := logging.Fields{"id": m.id.String()}
	s.log.Info("client "+m.op, fields)

	current, err := s.load(ctx, m.id)
	if err != nil {
		return client.Client{}, s.fail(m.op, fields, err)
	}
	if current.IsDeleted() {
		return client.Client{}, s.fail(m.op, fields, client.AlreadyDeleted(m.id))
	}
	if m.version != nil && *m.version != current.Version {
		fields["expected_version"] = *m.version
		fields["current_version"] = current.Version
		return client.Client{}, s.fail(m.op, fields, client.VersionConflict(m.id, nil))
	}

	next := current.Clone()
	m.apply(&next, s.timestamp())
	// identity and history are not the caller's to change
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.DeletedAt = mergeTombstone(current.DeletedAt, next.DeletedAt)
	next.Version = current.Version

	if next.Email != current.Email {
		if err := s.unique.ensureAvailable(ctx, next.Email, m.id); err != nil {
			return client.Client{}, s.fail(m.op, fields, err)
		}
	}

	saved, err := s.store.Update(ctx, next)
	if err != nil {
		return client.Client{}, s.fail(m.op, fields, storeError(m.id, next.Email, err))
	}

	s.evictRecord(ctx, m.id)
	s.invalidateLists(ctx)

	fields["version"] = saved.Version
	s.log.Debug("client "+m.op+" committed", fields)
	return saved, nil
}

// mergeTombstone keeps an existing tombstone; only a transition may add one.
func mergeTombstone(current, next *time.Time) *time.Time {
	if current != nil {
		return current
	}
	return next
}

// Create registers a new record. The email must not be used by any record,
// deleted ones included.
func (s *Service) Create(ctx context.Context, in client.CreateInput) (client.Client, error) {
	const op = "create"
	fields := logging.Fields{"email": in.Email}
	s.log.Info("client "+op, fields)

	if err := in.Validate(); err != nil {
		return client.Client{}, s.fail(op, fields, client.ValidationFailure(err))
	}
	if err := s.unique.ensureAvailable(ctx, in.Email, uuid.Nil); err != nil {
		return client.Client{}, s.fail(op, fields, err)
	}

	rec := client.NewClient(in, s.newID(), s.timestamp())
	fields["id"] = rec.ID.String()

	saved, err := s.store.Insert(ctx, rec)
	if err != nil {
		// a concurrent create can still win the unique index
		return client.Client{}, s.fail(op, fields, storeError(rec.ID, in.Email, err))
	}

	s.cacheRecord(ctx, saved)
	s.invalidateLists(ctx)
	return saved, nil
}

// Update replaces every mutable field. in.Version must match the stored version.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in client.UpdateInput) (client.Client, error) {
	if err := in.Validate(); err != nil {
		return client.Client{}, s.fail("update", logging.Fields{"id": id.String()}, client.ValidationFailure(err))
	}
	version := in.Version
	return s.mutate(ctx, mutation{
		op:      "update",
		id:      id,
		version: &version,
		apply: func(rec *client.Client, now time.Time) {
			rec.ApplyUpdate(in, now)
		},
	})
}

// Patch changes only the fields present in in. in.Version must match the stored version.
func (s *Service) Patch(ctx context.Context, id uuid.UUID, in client.PatchInput) (client.Client, error) {
	if err := in.Validate(); err != nil {
		return client.Client{}, s.fail("patch", logging.Fields{"id": id.String()}, client.ValidationFailure(err))
	}
	version := in.Version
	return s.mutate(ctx, mutation{
		op:      "patch",
		id:      id,
		version: &version,
		apply: func(rec *client.Client, now time.Time) {
			rec.ApplyPatch(in, now)
		},
	})
}

// ToggleActive flips the active flag. No version is required; the store still
// rejects the write if the row changed after it was loaded.
func (s *Service) ToggleActive(ctx context.Context, id uuid.UUID) (client.Client, error) {
	return s.mutate(ctx, mutation{
		op: "toggle_active",
		id: id,
		apply: func(rec *client.Client, now time.Time) {
			rec.SetActive(!rec.Active, now)
		},
	})
}

// SetActive sets the active flag to active. Same rules as ToggleActive.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (client.Client, error) {
	return s.mutate(ctx, mutation{
		op: "set_active",
		id: id,
		apply: func(rec *client.Client, now time.Time) {
			rec.SetActive(active, now)
		},
	})
}

// Delete soft deletes the record. Deleting twice fails with AlreadyDeleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.mutate(ctx, mutation{
		op: "delete",
		id: id,
		apply: func(rec *client.Client, now time.Time) {
			rec.MarkDeleted(now)
		},
	})
	return err
}
