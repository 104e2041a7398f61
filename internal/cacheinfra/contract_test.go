package cacheinfra

import (
	"context"
	"testing"
	"time"
)

// byteCache mirrors cache.CacheService; the cache package imports this one,
// so the interface cannot be referenced from here.
type byteCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	DeleteByPattern(ctx context.Context, pattern string) (bool, error)
	Close(ctx context.Context) error
}

var (
	_ byteCache = (*sturdycService)(nil)
	_ byteCache = (*redisService)(nil)
	_ byteCache = (*ristrettoService)(nil)
	_ byteCache = (*bigCacheService)(nil)
)

func ctx() context.Context { return context.Background() }

// runContract exercises the behaviour every adapter must share.
// Keys are prefixed so the suite can run against a shared redis.
func runContract(t *testing.T, c byteCache) {
	t.Helper()

	const prefix = "contract:"

	t.Run("miss", func(t *testing.T) {
		v, ok, err := c.Get(ctx(), prefix+"missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || v != nil {
			t.Fatalf("expected miss, got %q ok=%v", v, ok)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := c.Set(ctx(), prefix+"record:1", []byte("one"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		v, ok, err := c.Get(ctx(), prefix+"record:1")
		if err != nil || !ok {
			t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
		}
		if string(v) != "one" {
			t.Errorf("expected %q, got %q", "one", v)
		}
	})

	t.Run("delete reports presence", func(t *testing.T) {
		if err := c.Set(ctx(), prefix+"record:2", []byte("two"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		deleted, err := c.Delete(ctx(), prefix+"record:2")
		if err != nil || !deleted {
			t.Fatalf("expected delete of present key to report true, got %v err=%v", deleted, err)
		}
		deleted, err = c.Delete(ctx(), prefix+"record:2")
		if err != nil || deleted {
			t.Fatalf("expected delete of absent key to report false, got %v err=%v", deleted, err)
		}
		if _, ok, _ := c.Get(ctx(), prefix+"record:2"); ok {
			t.Error("expected key to be gone after delete")
		}
	})

	t.Run("delete by pattern", func(t *testing.T) {
		for _, key := range []string{"list:a", "list:b", "list:c", "record:3"} {
			if err := c.Set(ctx(), prefix+key, []byte(key), time.Minute); err != nil {
				t.Fatalf("Set %s: %v", key, err)
			}
		}

		deleted, err := c.DeleteByPattern(ctx(), prefix+"list:*")
		if err != nil {
			t.Fatalf("DeleteByPattern: %v", err)
		}
		if !deleted {
			t.Error("expected DeleteByPattern to report removals")
		}

		for _, key := range []string{"list:a", "list:b", "list:c"} {
			if _, ok, _ := c.Get(ctx(), prefix+key); ok {
				t.Errorf("expected %s to be invalidated", key)
			}
		}
		if _, ok, _ := c.Get(ctx(), prefix+"record:3"); !ok {
			t.Error("expected record:3 to survive list invalidation")
		}

		deleted, err = c.DeleteByPattern(ctx(), prefix+"list:*")
		if err != nil || deleted {
			t.Errorf("expected second invalidation to remove nothing, got %v err=%v", deleted, err)
		}
	})
}
