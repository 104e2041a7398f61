package service

import (
	"context"
	"time"

	"github.com/goliatone/go-client-store/cache"
	"github.com/goliatone/go-client-store/client"
	"github.com/goliatone/go-client-store/logging"
	"github.com/google/uuid"
)

// Cache failures never reach callers. Each helper logs and carries on as a
// miss or a no-op; the store stays authoritative.

func (s *Service) cachedRecord(ctx context.Context, id uuid.UUID) (client.Client, bool) {
	key := cache.RecordKey(id)
	rec, ok, err := cache.GetValue(ctx, s.cache, s.codec, key)
	if err != nil {
		s.cacheFailed("get", key, err)
		return client.Client{}, false
	}
	return rec, ok
}

// cacheRecord reports whether the entry was written.
func (s *Service) cacheRecord(ctx context.Context, rec client.Client) bool {
	key := cache.RecordKey(rec.ID)
	if err := cache.SetValue(ctx, s.cache, s.codec, key, rec, s.ttl); err != nil {
		s.cacheFailed("set", key, err)
		return false
	}
	return true
}

func (s *Service) evictRecord(ctx context.Context, id uuid.UUID) {
	key := cache.RecordKey(id)
	if _, err := s.cache.Delete(ctx, key); err != nil {
		s.cacheFailed("delete", key, err)
	}
}

func (s *Service) invalidateLists(ctx context.Context) {
	if _, err := s.cache.DeleteByPattern(ctx, cache.ListPattern); err != nil {
		s.cacheFailed("delete_pattern", cache.ListPattern, err)
	}
}

func (s *Service) cachedPage(ctx context.Context, key string) (client.Page[client.Client], bool) {
	page, ok, err := cache.GetValue(ctx, s.cache, s.pageCodec, key)
	if err != nil {
		s.cacheFailed("get", key, err)
		return client.Page[client.Client]{}, false
	}
	return page, ok
}

func (s *Service) cachePage(ctx context.Context, key string, page client.Page[client.Client]) {
	if err := cache.SetValue(ctx, s.cache, s.pageCodec, key, page, s.ttl); err != nil {
		s.cacheFailed("set", key, err)
	}
}

func (s *Service) cacheFailed(action, key string, err error) {
	s.log.Warn("cache operation failed", logging.Fields{
		"action": action,
		"key":    key,
		"error":  client.CacheFailure(err).Error(),
	})
}

// noCache stands in when the service is built without a cache.
type noCache struct{}

var _ cache.CacheService = noCache{}

func (noCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (noCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (noCache) Delete(context.Context, string) (bool, error) { return false, nil }

func (noCache) DeleteByPattern(context.Context, string) (bool, error) { return false, nil }

func (noCache) Close(context.Context) error { return nil }
