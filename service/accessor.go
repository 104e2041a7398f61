package service

import (
	"context"

	"github.com/goliatone/go-client-store/client"
	"github.com/goliatone/go-client-store/logging"
	"github.com/google/uuid"
)

// Get returns the record for id, reading through the cache. Deleted records
// are cached like any other but are reported as AlreadyDeleted.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (client.Client, error) {
	fields := logging.Fields{"id": id.String()}

	rec, hit := s.cachedRecord(ctx, id)
	if !hit {
		var err error
		rec, err = s.load(ctx, id)
		if err != nil {
			return client.Client{}, s.fail("get", fields, err)
		}
		if s.cacheRecord(ctx, rec) {
			if rec, err = s.confirmCached(ctx, rec); err != nil {
				return client.Client{}, s.fail("get", fields, err)
			}
		}
	}
	fields["cache_hit"] = hit

	if rec.IsDeleted() {
		return client.Client{}, s.fail("get", fields, client.AlreadyDeleted(id))
	}
	s.log.Debug("client get", fields)
	return rec, nil
}

// confirmCached re-reads the row after its cache entry was written. A write
// that committed between the first read and the cache write has already run
// its eviction, so the entry just written may be stale; it is evicted and the
// newer row returned. A write committing after this read evicts on its own.
func (s *Service) confirmCached(ctx context.Context, cached client.Client) (client.Client, error) {
	current, err := s.load(ctx, cached.ID)
	if err != nil {
		s.evictRecord(ctx, cached.ID)
		return client.Client{}, err
	}
	if current.Version != cached.Version {
		s.evictRecord(ctx, cached.ID)
	}
	return current, nil
}
