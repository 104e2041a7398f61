package cache

import (
	"context"
	"time"
)

// CacheService is the key/value gateway the client service caches records in.
// Values are opaque bytes; callers encode them with a Codec.
// Every operation is best-effort from the caller's point of view: a failure
// must be safe to ignore, since the store stays authoritative.
type CacheService interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A non-positive ttl means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key and reports whether it was present.
	Delete(ctx context.Context, key string) (bool, error)
	// DeleteByPattern removes every key matching a glob pattern such as "list:*"
	// and reports whether anything was removed.
	DeleteByPattern(ctx context.Context, pattern string) (bool, error)
	// Close releases backend resources.
	Close(ctx context.Context) error
}

// GetValue reads and decodes key. A value that fails to decode is reported as a
// miss and evicted, so a codec change never surfaces as an error.
func GetValue[T any](ctx context.Context, service CacheService, codec Codec[T], key string) (T, bool, error) {
	var zero T

	raw, ok, err := service.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}

	value, err := codec.Decode(raw)
	if err != nil {
		_, _ = service.Delete(ctx, key)
		return zero, false, nil
	}
	return value, true, nil
}

// SetValue encodes value and stores it under key.
func SetValue[T any](ctx context.Context, service CacheService, codec Codec[T], key string, value T, ttl time.Duration) error {
	raw, err := codec.Encode(value)
	if err != nil {
		return err
	}
	return service.Set(ctx, key, raw, ttl)
}
