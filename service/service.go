package service

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-client-store/cache"
	"github.com/goliatone/go-client-store/client"
	"github.com/goliatone/go-client-store/logging"
	"github.com/google/uuid"
)

// DefaultTTL is the lifetime of cached records and pages.
const DefaultTTL = 5 * time.Minute

// Options configures a Service. The zero value is usable.
type Options struct {
	Logger logging.Logger
	// TTL of cache entries, DefaultTTL when zero.
	TTL time.Duration
	// Codec for cached records, msgpack when nil.
	Codec cache.Codec[client.Client]
	// PageCodec for cached list pages, msgpack when nil.
	PageCodec cache.Codec[client.Page[client.Client]]
	// ListCaching makes List read and populate "list:" entries. Mutations
	// invalidate them either way.
	ListCaching   bool
	KeySerializer cache.KeySerializer

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() uuid.UUID
}

// Service is the client record engine: every read and write of a client goes
// through it so the cache stays coherent with the store.
type Service struct {
	store  client.Store
	cache  cache.CacheService
	unique *UniquenessChecker
	log    logging.Logger

	ttl         time.Duration
	codec       cache.Codec[client.Client]
	pageCodec   cache.Codec[client.Page[client.Client]]
	listCaching bool
	keys        cache.KeySerializer

	now   func() time.Time
	newID func() uuid.UUID
}

// New builds a Service over store and cacheService. A nil cacheService disables caching.
func New(store client.Store, cacheService cache.CacheService, opts Options) *Service {
	s := &Service{
		store:       store,
		cache:       cacheService,
		unique:      NewUniquenessChecker(store),
		log:         opts.Logger,
		ttl:         opts.TTL,
		codec:       opts.Codec,
		pageCodec:   opts.PageCodec,
		listCaching: opts.ListCaching,
		keys:        opts.KeySerializer,
		now:         opts.Now,
		newID:       opts.NewID,
	}

	if s.cache == nil {
		s.cache = noCache{}
	}
	if s.log == nil {
		s.log = logging.NopLogger{}
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.codec == nil {
		s.codec = cache.MsgpackCodec[client.Client]{}
	}
	if s.pageCodec == nil {
		s.pageCodec = cache.MsgpackCodec[client.Page[client.Client]]{}
	}
	if s.keys == nil {
		s.keys = cache.NewDefaultKeySerializer()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.New
	}
	return s
}

// timestamp is truncated to microseconds, the precision SQL stores keep.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// load reads a record from the store, deleted or not.
func (s *Service) load(ctx context.Context, id uuid.UUID) (client.Client, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return client.Client{}, storeError(id, "", err)
	}
	return rec, nil
}

// storeError maps client.Store sentinels onto error kinds.
func storeError(id uuid.UUID, email string, err error) error {
	switch {
	case errors.Is(err, client.ErrNoRecord):
		return client.NotFound(id)
	case errors.Is(err, client.ErrStaleVersion):
		return client.VersionConflict(id, err)
	case errors.Is(err, client.ErrEmailTaken):
		return client.DuplicateEmail(email)
	default:
		return client.StoreFailure(err)
	}
}

// fail logs err at the level its kind deserves and returns it unchanged.
func (s *Service) fail(op string, fields logging.Fields, err error) error {
	f := logging.Fields{"op": op, "error": err.Error(), "kind": client.KindOf(err).String()}
	for k, v := range fields {
		f[k] = v
	}

	switch client.KindOf(err) {
	case client.KindStore, client.KindUnknown:
		s.log.Error("client operation failed", f)
	case client.KindValidation, client.KindNotFound:
		s.log.Debug("client operation rejected", f)
	default:
		s.log.Warn("client operation rejected", f)
	}
	return err
}
