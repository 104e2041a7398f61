package di

import (
	"context"
	"errors"
	"os"

	"github.com/goliatone/go-client-store/cache"
	"github.com/goliatone/go-client-store/client"
	"github.com/goliatone/go-client-store/internal/store"
	"github.com/goliatone/go-client-store/logging"
	"github.com/goliatone/go-client-store/service"
	"github.com/uptrace/bun"
)

// Container wires configuration, database, store, cache, logger and service.
// It owns whatever it builds and releases it in Close; injected components
// are left to the caller.
type Container struct {
	config        Config
	db            *bun.DB
	store         client.Store
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	logger        logging.Logger
	service       *service.Service

	closers []func(context.Context) error
}

// Option overrides a component the container would otherwise build.
type Option func(*Container)

// WithDB uses an existing database instead of opening Config.DBDSN.
func WithDB(db *bun.DB) Option {
	return func(c *Container) { c.db = db }
}

// WithStore uses store instead of a bun store. No database is opened.
func WithStore(s client.Store) Option {
	return func(c *Container) { c.store = s }
}

// WithCacheService uses svc instead of building one from the cache settings.
func WithCacheService(svc cache.CacheService) Option {
	return func(c *Container) { c.cacheService = svc }
}

// WithLogger uses logger instead of building one from the log settings.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// NewContainer builds every component described by config.
func NewContainer(ctx context.Context, config Config, opts ...Option) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Container{config: config}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.build(ctx); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	return c, nil
}

// NewContainerFromEnv loads Config from the environment and builds the container.
func NewContainerFromEnv(ctx context.Context, opts ...Option) (*Container, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewContainer(ctx, config, opts...)
}

func (c *Container) build(ctx context.Context) error {
	if c.logger == nil {
		level, _ := logging.ParseLevel(c.config.LogLevel)
		logger, flush, err := logging.New(c.config.LogBackend, level, os.Stderr)
		if err != nil {
			return err
		}
		c.logger = logger
		c.closers = append(c.closers, func(context.Context) error {
			// zap reports EINVAL syncing a terminal
			_ = flush()
			return nil
		})
	}

	if c.store == nil {
		if c.db == nil {
			db, err := store.Open(c.config.DBDriver, c.config.DBDSN)
			if err != nil {
				return err
			}
			c.db = db
			c.closers = append(c.closers, func(context.Context) error { return db.Close() })
		}
		if c.config.Migrate {
			if err := store.Migrate(ctx, c.db); err != nil {
				return err
			}
		}
		c.store = store.New(c.db)
	}

	if c.cacheService == nil {
		svc, err := cache.NewCacheService(c.config.cacheConfig())
		if err != nil {
			return err
		}
		c.cacheService = svc
		c.closers = append(c.closers, svc.Close)
	}

	codec, err := cache.NewCodec[client.Client](c.config.CacheCodec)
	if err != nil {
		return err
	}
	pageCodec, err := cache.NewCodec[client.Page[client.Client]](c.config.CacheCodec)
	if err != nil {
		return err
	}

	c.keySerializer = cache.NewDefaultKeySerializer()
	c.service = service.New(c.store, c.cacheService, service.Options{
		Logger:        c.logger,
		TTL:           c.config.CacheTTL,
		Codec:         codec,
		PageCodec:     pageCodec,
		ListCaching:   c.config.CacheLists,
		KeySerializer: c.keySerializer,
	})

	c.logger.Info("client store ready", logging.Fields{
		"db_driver":     c.config.DBDriver,
		"cache_backend": c.config.CacheBackend,
		"cache_codec":   c.config.CacheCodec,
		"list_caching":  c.config.CacheLists,
	})
	return nil
}

// Service returns the client service.
func (c *Container) Service() *service.Service {
	return c.service
}

// Store returns the store the service writes through.
func (c *Container) Store() client.Store {
	return c.store
}

// DB returns the database, nil when a store was injected with WithStore.
func (c *Container) DB() *bun.DB {
	return c.db
}

// CacheService returns the cache the service reads through.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the serializer used to derive list cache keys.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Logger returns the logger shared by the wired components.
func (c *Container) Logger() logging.Logger {
	return c.logger
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() Config {
	return c.config
}

// Close releases owned resources in reverse construction order.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
