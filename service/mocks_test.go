package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-client-store/cache"
	"github.com/goliatone/go-client-store/client"
	"github.com/goliatone/go-client-store/logging"
	"github.com/goliatone/go-client-store/pkg/testsupport"
	"github.com/google/uuid"
)

var errCacheDown = errors.New("cache unavailable")

// mockCache is a map backed cache.CacheService that records calls and can be
// switched into a failing mode.
type mockCache struct {
	mu      sync.Mutex
	storage map[string][]byte
	calls   []string
	failing bool
}

var _ cache.CacheService = (*mockCache)(nil)

func newMockCache() *mockCache {
	return &mockCache{storage: make(map[string][]byte)}
}

func (m *mockCache) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Get:" + key)
	if m.failing {
		return nil, false, errCacheDown
	}
	v, ok := m.storage[key]
	return v, ok, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Set:" + key)
	if m.failing {
		return errCacheDown
	}
	m.storage[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Delete:" + key)
	if m.failing {
		return false, errCacheDown
	}
	_, ok := m.storage[key]
	delete(m.storage, key)
	return ok, nil
}

func (m *mockCache) DeleteByPattern(ctx context.Context, pattern string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteByPattern:" + pattern)
	if m.failing {
		return false, errCacheDown
	}
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

func (m *mockCache) Close(ctx context.Context) error { return nil }

func (m *mockCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.storage[key]
	return ok
}

func (m *mockCache) called(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockCache) setFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

// recordingLogger keeps every entry for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level  string
	msg    string
	fields logging.Fields
}

func (l *recordingLogger) add(level, msg string, f logging.Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: f})
}

func (l *recordingLogger) Debug(msg string, f logging.Fields) { l.add("debug", msg, f) }
func (l *recordingLogger) Info(msg string, f logging.Fields)  { l.add("info", msg, f) }
func (l *recordingLogger) Warn(msg string, f logging.Fields)  { l.add("warn", msg, f) }
func (l *recordingLogger) Error(msg string, f logging.Fields) { l.add("error", msg, f) }

func (l *recordingLogger) count(level, msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			n++
		}
	}
	return n
}

// stepClock returns a time one second later on every call.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	svc   *Service
	store *testsupport.MemoryStore
	cache *mockCache
	log   *recordingLogger
	clock *stepClock
}

func newFixture(opts Options) *fixture {
	f := &fixture{
		store: testsupport.NewMemoryStore(),
		cache: newMockCache(),
		log:   &recordingLogger{},
		clock: newStepClock(),
	}
	opts.Logger = f.log
	opts.Now = f.clock.Now
	f.svc = New(f.store, f.cache, opts)
	return f
}

func (f *fixture) create(t testingT, name, email string) client.Client {
	t.Helper()
	rec, err := f.svc.Create(context.Background(), client.CreateInput{Name: name, Email: email, Phone: "5551234567"})
	if err != nil {
		t.Fatalf("Create(%s): %v", email, err)
	}
	return rec
}

// testingT is the subset of *testing.T the fixture helpers need.
type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

func ptr[T any](v T) *T { return &v }

var unknownID = uuid.MustParse("00000000-0000-4000-8000-000000000001")
