package service

import (
	"context"

	"github.com/goliatone/go-client-store/cache"
	"github.com/goliatone/go-client-store/client"
	"github.com/goliatone/go-client-store/logging"
	"golang.org/x/sync/errgroup"
)

// List returns one page of records matching q. Unset paging and sort values
// take their defaults. The page and the total come from two store queries
// over the same filter, run concurrently.
func (s *Service) List(ctx context.Context, q client.ListQuery) (client.Page[client.Client], error) {
	q = q.WithDefaults()
	fields := logging.Fields{
		"page":    q.Page,
		"size":    q.Size,
		"sort_by": string(q.SortBy),
		"sort":    string(q.SortDir),
	}

	if err := q.Validate(); err != nil {
		return client.Page[client.Client]{}, s.fail("list", fields, client.ValidationFailure(err))
	}

	var key string
	if s.listCaching {
		key = cache.ListKey(s.keys, q)
		if page, ok := s.cachedPage(ctx, key); ok {
			s.log.Debug("client list", logging.Fields{"key": key, "cache_hit": true})
			return page, nil
		}
	}

	var (
		rows  []client.Client
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.FindFiltered(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.CountFiltered(gctx, q.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return client.Page[client.Client]{}, s.fail("list", fields, client.StoreFailure(err))
	}

	page := client.NewPage(rows, q.Page, q.Size, total)
	if s.listCaching {
		s.cachePage(ctx, key, page)
	}
	return page, nil
}
