package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// mockCacheService is a map backed CacheService that records calls.
type mockCacheService struct {
	mu      sync.Mutex
	calls   []string
	storage map[string][]byte
	getErr  error
}

func newMockCacheService() *mockCacheService {
	return &mockCacheService{storage: make(map[string][]byte)}
}

func (m *mockCacheService) recordCall(call string) {
	m.calls = append(m.calls, call)
}

func (m *mockCacheService) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("Get:" + key)
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.storage[key]
	return v, ok, nil
}

func (m *mockCacheService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("Set:" + key)
	m.storage[key] = value
	return nil
}

func (m *mockCacheService) Delete(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("Delete:" + key)
	_, ok := m.storage[key]
	delete(m.storage, key)
	return ok, nil
}

func (m *mockCacheService) DeleteByPattern(ctx context.Context, pattern string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("DeleteByPattern:" + pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	deleted := false
	for k := range m.storage {
		if strings.HasPrefix(k, prefix) {
			delete(m.storage, k)
			deleted = true
		}
	}
	return deleted, nil
}

func (m *mockCacheService) Close(ctx context.Context) error { return nil }

type sample struct {
	ID      uuid.UUID  `json:"id" msgpack:"id"`
	Name    string     `json:"name" msgpack:"name"`
	Version int64      `json:"version" msgpack:"version"`
	At      time.Time  `json:"at" msgpack:"at"`
	Deleted *time.Time `json:"deleted,omitempty" msgpack:"deleted"`
}

func TestGetValue_MissAndHit(t *testing.T) {
	ctx := context.Background()
	svc := newMockCacheService()
	codec := MsgpackCodec[sample]{}

	_, ok, err := GetValue[sample](ctx, svc, codec, "record:x")
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	in := sample{ID: uuid.New(), Name: "Ana", Version: 3, At: time.Now().UTC().Truncate(time.Microsecond)}
	if err := SetValue(ctx, svc, codec, "record:x", in, time.Minute); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	out, ok, err := GetValue[sample](ctx, svc, codec, "record:x")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.ID != in.ID || out.Name != in.Name || out.Version != in.Version || !out.At.Equal(in.At) {
		t.Errorf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestGetValue_CorruptEntryIsEvictedMiss(t *testing.T) {
	ctx := context.Background()
	svc := newMockCacheService()
	svc.storage["record:bad"] = []byte("{not msgpack")

	_, ok, err := GetValue[sample](ctx, svc, JSONCodec[sample]{}, "record:bad")
	if err != nil {
		t.Fatalf("expected decode failure to be reported as a miss, got %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}
	if _, still := svc.storage["record:bad"]; still {
		t.Error("expected corrupt entry to be evicted")
	}
}

func TestGetValue_BackendErrorPropagates(t *testing.T) {
	svc := newMockCacheService()
	svc.getErr = errors.New("connection refused")

	_, ok, err := GetValue[sample](context.Background(), svc, MsgpackCodec[sample]{}, "record:x")
	if ok || err == nil {
		t.Fatalf("expected backend error, got ok=%v err=%v", ok, err)
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	deleted := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := sample{ID: uuid.New(), Name: "Bo", Version: 7, At: time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC), Deleted: &deleted}

	for _, name := range []string{"", CodecMsgpack, CodecJSON, CodecCBOR} {
		t.Run("codec="+name, func(t *testing.T) {
			codec, err := NewCodec[sample](name)
			if err != nil {
				t.Fatalf("NewCodec: %v", err)
			}
			raw, err := codec.Encode(in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out, err := codec.Decode(raw)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if out.ID != in.ID || out.Name != in.Name || out.Version != in.Version {
				t.Errorf("scalar mismatch: got %+v", out)
			}
			if !out.At.Equal(in.At) {
				t.Errorf("time mismatch: got %v want %v", out.At, in.At)
			}
			if out.Deleted == nil || !out.Deleted.Equal(deleted) {
				t.Errorf("deleted mismatch: got %v", out.Deleted)
			}
		})
	}

	if _, err := NewCodec[sample]("xml"); err == nil {
		t.Error("expected unknown codec error")
	}
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("0b7e6f5c-7a8e-4b8e-9a4e-2b2f3c1d0e9f")
	if got := RecordKey(id); got != "record:0b7e6f5c-7a8e-4b8e-9a4e-2b2f3c1d0e9f" {
		t.Errorf("unexpected record key %q", got)
	}

	serializer := NewDefaultKeySerializer()
	a := ListKey(serializer, struct{ Page, Size int }{0, 10})
	b := ListKey(serializer, struct{ Page, Size int }{0, 10})
	c := ListKey(serializer, struct{ Page, Size int }{1, 10})

	if !strings.HasPrefix(a, ListPrefix) {
		t.Errorf("expected list key under %q, got %q", ListPrefix, a)
	}
	if a != b {
		t.Errorf("equal queries should share a key: %q != %q", a, b)
	}
	if a == c {
		t.Errorf("different queries should not share a key: %q", a)
	}
}

func TestDeleteByPattern_LeavesRecords(t *testing.T) {
	ctx := context.Background()
	svc := newMockCacheService()
	svc.storage[ListPrefix+"1"] = []byte("a")
	svc.storage[RecordPrefix+"1"] = []byte("b")

	if _, err := svc.DeleteByPattern(ctx, ListPattern); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.storage[RecordPrefix+"1"]; !ok {
		t.Error("record entry should survive list invalidation")
	}
}
