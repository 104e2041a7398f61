package cacheinfra

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/puzpuzpuz/xsync/v3"
)

// RistrettoConfig configures the ristretto adapter.
type RistrettoConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	// TTL is used when Set receives a non-positive ttl.
	TTL time.Duration
}

// Validate checks if the configuration values are valid.
func (c RistrettoConfig) Validate() error {
	if c.NumCounters <= 0 {
		return &ConfigError{Field: "NumCounters", Message: "must be greater than 0"}
	}
	if c.MaxCost <= 0 {
		return &ConfigError{Field: "MaxCost", Message: "must be greater than 0"}
	}
	if c.BufferItems <= 0 {
		return &ConfigError{Field: "BufferItems", Message: "must be greater than 0"}
	}
	if c.TTL < 0 {
		return &ConfigError{Field: "TTL", Message: "must be non-negative"}
	}
	return nil
}

// ristrettoService stores entries in ristretto. Ristretto hashes keys and
// cannot enumerate them, so written keys are tracked in a registry for
// pattern invalidation. A key is registered before its write is buffered and
// only leaves the registry through Delete or DeleteByPattern, so the registry
// may hold keys ristretto already evicted but never misses a stored one.
type ristrettoService struct {
	c        *ristretto.Cache
	ttl      time.Duration
	registry *xsync.MapOf[string, struct{}]
}

// NewRistrettoService creates a ristretto backed cache service.
func NewRistrettoService(cfg RistrettoConfig) (*ristrettoService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoService{
		c:        c,
		ttl:      cfg.TTL,
		registry: xsync.NewMapOf[string, struct{}](),
	}, nil
}

// Get returns a copy of the stored bytes. A miss leaves the registry alone,
// since a concurrent Set of the key may still be in ristretto's buffers.
func (s *ristrettoService) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

// Set waits for the write buffer to drain so an immediate Get observes the value.
// A write rejected by the admission policy is not an error.
func (s *ristrettoService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	s.registry.Store(key, struct{}{})
	s.c.SetWithTTL(key, append([]byte(nil), value...), int64(len(value)), ttl)
	s.c.Wait()
	return nil
}

// Delete removes key and reports whether it was present.
func (s *ristrettoService) Delete(ctx context.Context, key string) (bool, error) {
	_, existed := s.c.Get(key)
	s.c.Del(key)
	s.registry.Delete(key)
	return existed, nil
}

// DeleteByPattern removes every registered key matching the glob pattern.
func (s *ristrettoService) DeleteByPattern(ctx context.Context, pattern string) (bool, error) {
	matcher, err := compilePattern(pattern)
	if err != nil {
		return false, err
	}

	deleted := false
	s.registry.Range(func(key string, _ struct{}) bool {
		if matcher.Match(key) {
			if _, ok := s.c.Get(key); ok {
				deleted = true
			}
			s.c.Del(key)
			s.registry.Delete(key)
		}
		return true
	})
	return deleted, nil
}

// Close stops ristretto's background goroutines.
func (s *ristrettoService) Close(ctx context.Context) error {
	s.c.Close()
	return nil
}
