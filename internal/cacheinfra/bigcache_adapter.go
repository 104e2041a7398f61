package cacheinfra

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
)

// BigCacheConfig configures the bigcache adapter.
type BigCacheConfig struct {
	// LifeWindow is the lifetime of every entry; bigcache has no per-entry TTL.
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int
}

// bigCacheService stores entries in a sharded bigcache instance.
type bigCacheService struct {
	c *bigcache.BigCache
}

// NewBigCacheService creates a bigcache backed cache service.
func NewBigCacheService(cfg BigCacheConfig) (*bigCacheService, error) {
	if cfg.LifeWindow <= 0 {
		return nil, &ConfigError{Field: "LifeWindow", Message: "must be greater than 0"}
	}

	conf := bigcache.DefaultConfig(cfg.LifeWindow)
	conf.CleanWindow = cfg.LifeWindow
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	// the library default sizes shards for 600k entries, far above one entity's working set
	conf.MaxEntriesInWindow = 10_000
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}

	c, err := bigcache.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &bigCacheService{c: c}, nil
}

// Get returns the stored bytes; bigcache already hands out a copy.
func (s *bigCacheService) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set ignores ttl, see BigCacheConfig.LifeWindow.
func (s *bigCacheService) Set(ctx context.Context, key string, value []byte, _ time.Duration) error {
	return s.c.Set(key, value)
}

// Delete removes key and reports whether it was present.
func (s *bigCacheService) Delete(ctx context.Context, key string) (bool, error) {
	err := s.c.Delete(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteByPattern collects matching keys from a shard iterator first and
// deletes afterwards, since the iterator holds shard locks while advancing.
func (s *bigCacheService) DeleteByPattern(ctx context.Context, pattern string) (bool, error) {
	matcher, err := compilePattern(pattern)
	if err != nil {
		return false, err
	}

	var keys []string
	it := s.c.Iterator()
	for it.SetNext() {
		entry, err := it.Value()
		if err != nil {
			// entry evicted while iterating
			continue
		}
		if matcher.Match(entry.Key()) {
			keys = append(keys, entry.Key())
		}
	}

	deleted := false
	for _, key := range keys {
		ok, err := s.Delete(ctx, key)
		if err != nil {
			return deleted, err
		}
		deleted = deleted || ok
	}
	return deleted, nil
}

// Close stops the cleanup goroutine and releases the shards.
func (s *bigCacheService) Close(ctx context.Context) error {
	return s.c.Close()
}
