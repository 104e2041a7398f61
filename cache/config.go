package cache

import (
	"fmt"
	"time"

	"github.com/goliatone/go-client-store/internal/cacheinfra"
	goredis "github.com/redis/go-redis/v9"
)

// Backend names accepted by Config.Backend.
const (
	BackendSturdyc   = "sturdyc"
	BackendRedis     = "redis"
	BackendRistretto = "ristretto"
	BackendBigCache  = "bigcache"
)

// Config exposes cache configuration options for consumers of the cache package.
// Only the block matching Backend is read.
type Config struct {
	Backend string
	// TTL is the default entry lifetime. Backends without per-entry TTL
	// (sturdyc, bigcache) apply it to every entry.
	TTL time.Duration

	// sturdyc
	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration

	// redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// RedisClient, when set, is used instead of dialing RedisAddr. It is not closed by Close.
	RedisClient goredis.UniversalClient

	// ristretto
	NumCounters int64
	MaxCost     int64
	BufferItems int64

	// bigcache
	MaxEntrySize       int
	HardMaxCacheSizeMB int
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	def := cacheinfra.DefaultConfig()
	return Config{
		Backend:            BackendSturdyc,
		TTL:                def.TTL,
		Capacity:           def.Capacity,
		NumShards:          def.NumShards,
		EvictionPercentage: def.EvictionPercentage,
		EvictionInterval:   def.EvictionInterval,
		RedisAddr:          "localhost:6379",
		NumCounters:        1e5,
		MaxCost:            1 << 26,
		BufferItems:        64,
		MaxEntrySize:       512,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSturdyc:
		return c.sturdycConfig().Validate()
	case BackendRedis:
		if c.RedisClient == nil && c.RedisAddr == "" {
			return &cacheinfra.ConfigError{Field: "RedisAddr", Message: "must be set"}
		}
	case BackendRistretto:
		return c.ristrettoConfig().Validate()
	case BackendBigCache:
		if c.TTL <= 0 {
			return &cacheinfra.ConfigError{Field: "TTL", Message: "must be greater than 0"}
		}
	default:
		return &cacheinfra.ConfigError{Field: "Backend", Message: fmt.Sprintf("unknown backend %q", c.Backend)}
	}
	return nil
}

// NewCacheService constructs the cache service selected by cfg.Backend.
func NewCacheService(cfg Config) (CacheService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		svc CacheService
		err error
	)
	switch cfg.Backend {
	case BackendRedis:
		client, owned := cfg.RedisClient, false
		if client == nil {
			client = goredis.NewClient(&goredis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			owned = true
		}
		svc, err = cacheinfra.NewRedisService(cacheinfra.RedisConfig{
			Client:      client,
			CloseClient: owned,
			TTL:         cfg.TTL,
		})
	case BackendRistretto:
		svc, err = cacheinfra.NewRistrettoService(cfg.ristrettoConfig())
	case BackendBigCache:
		svc, err = cacheinfra.NewBigCacheService(cacheinfra.BigCacheConfig{
			LifeWindow:         cfg.TTL,
			MaxEntrySize:       cfg.MaxEntrySize,
			HardMaxCacheSizeMB: cfg.HardMaxCacheSizeMB,
		})
	default:
		svc, err = cacheinfra.NewSturdycService(cfg.sturdycConfig())
	}
	// keep a failed constructor's typed nil out of the interface
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (c Config) sturdycConfig() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func (c Config) ristrettoConfig() cacheinfra.RistrettoConfig {
	return cacheinfra.RistrettoConfig{
		NumCounters: c.NumCounters,
		MaxCost:     c.MaxCost,
		BufferItems: c.BufferItems,
		TTL:         c.TTL,
	}
}
