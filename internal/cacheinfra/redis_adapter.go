package cacheinfra

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrNilRedisClient is returned when RedisConfig has no client.
var ErrNilRedisClient = errors.New("cacheinfra: nil redis client")

// scanBatch is the COUNT hint for SCAN and the DEL batch size in DeleteByPattern.
const scanBatch = 256

// RedisConfig configures the redis adapter.
type RedisConfig struct {
	Client goredis.UniversalClient
	// CloseClient is set only if this adapter exclusively owns the client.
	CloseClient bool
	// TTL is used when Set receives a non-positive ttl. Zero means no expiry.
	TTL time.Duration
}

// redisService stores entries in redis and invalidates patterns with SCAN + DEL.
type redisService struct {
	rdb         goredis.UniversalClient
	closeClient bool
	ttl         time.Duration
}

// NewRedisService wraps an existing redis client.
func NewRedisService(cfg RedisConfig) (*redisService, error) {
	if cfg.Client == nil {
		return nil, ErrNilRedisClient
	}
	return &redisService{rdb: cfg.Client, closeClient: cfg.CloseClient, ttl: cfg.TTL}, nil
}

// Get reads key, mapping redis.Nil to a miss.
func (s *redisService) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set writes value with ttl, or the configured TTL when ttl is not positive.
func (s *redisService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// Delete removes key and reports whether it existed.
func (s *redisService) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByPattern walks the keyspace with SCAN MATCH, so it never blocks the
// server the way KEYS would. Keys written during the walk may be missed.
func (s *redisService) DeleteByPattern(ctx context.Context, pattern string) (bool, error) {
	iter := s.rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()

	var (
		batch   []string
		removed int64
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.rdb.Del(ctx, batch...).Result()
		removed += n
		batch = batch[:0]
		return err
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= scanBatch {
			if err := flush(); err != nil {
				return removed > 0, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed > 0, err
	}
	if err := flush(); err != nil {
		return removed > 0, err
	}
	return removed > 0, nil
}

// Close releases the underlying client only when this adapter owns it.
func (s *redisService) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
