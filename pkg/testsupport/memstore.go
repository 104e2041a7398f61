package testsupport

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-client-store/client"
	"github.com/google/uuid"
)

// Interface assertion
var _ client.Store = (*MemoryStore)(nil)

// MemoryStore is a map backed client.Store with the same version and
// uniqueness semantics as the SQL store. It counts calls per method so tests
// can assert which gateway operations ran.
type MemoryStore struct {
	mu        sync.RWMutex
	rows      map[uuid.UUID]client.Client
	callCount map[string]int

	// Err, when set, is returned by every method.
	Err error
	// BeforeUpdate runs inside Update before the version comparison, with the
	// lock released. Tests use it to interleave a competing writer.
	BeforeUpdate func(record client.Client)
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:      make(map[uuid.UUID]client.Client),
		callCount: make(map[string]int),
	}
}

func (m *MemoryStore) track(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount[method]++
}

// Calls returns how many times method was invoked.
func (m *MemoryStore) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callCount[method]
}

// Writes is the number of Insert and Update calls.
func (m *MemoryStore) Writes() int {
	return m.Calls("Insert") + m.Calls("Update")
}

// Put stores record directly, bypassing checks. Useful to seed state.
func (m *MemoryStore) Put(record client.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[record.ID] = record.Clone()
}

// Row returns the stored record without counting a call.
func (m *MemoryStore) Row(id uuid.UUID) (client.Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rows[id]
	return r.Clone(), ok
}

func (m *MemoryStore) Insert(ctx context.Context, record client.Client) (client.Client, error) {
	m.track("Insert")
	if m.Err != nil {
		return client.Client{}, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTakenLocked(record.Email, record.ID) {
		return client.Client{}, client.ErrEmailTaken
	}
	m.rows[record.ID] = record.Clone()
	return record.Clone(), nil
}

func (m *MemoryStore) Update(ctx context.Context, record client.Client) (client.Client, error) {
	m.track("Update")
	if m.Err != nil {
		return client.Client{}, m.Err
	}
	if m.BeforeUpdate != nil {
		m.BeforeUpdate(record)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.rows[record.ID]
	if !ok {
		return client.Client{}, client.ErrNoRecord
	}
	if current.Version != record.Version {
		return client.Client{}, client.ErrStaleVersion
	}
	if m.emailTakenLocked(record.Email, record.ID) {
		return client.Client{}, client.ErrEmailTaken
	}

	next := record.Clone()
	next.CreatedAt = current.CreatedAt
	next.Version = current.Version + 1
	m.rows[record.ID] = next
	return next.Clone(), nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (client.Client, error) {
	m.track("FindByID")
	if m.Err != nil {
		return client.Client{}, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rows[id]
	if !ok {
		return client.Client{}, client.ErrNoRecord
	}
	return r.Clone(), nil
}

func (m *MemoryStore) FindFiltered(ctx context.Context, query client.ListQuery) ([]client.Client, error) {
	m.track("FindFiltered")
	if m.Err != nil {
		return nil, m.Err
	}

	matched := m.filter(query.Filter)
	sortClients(matched, query.SortBy, query.SortDir)

	start := query.Offset()
	if start < 0 || start >= len(matched) {
		return []client.Client{}, nil
	}
	end := start + query.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (m *MemoryStore) CountFiltered(ctx context.Context, filter client.Filter) (int, error) {
	m.track("CountFiltered")
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.filter(filter)), nil
}

func (m *MemoryStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.track("ExistsByEmail")
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.emailTakenLocked(email, uuid.Nil), nil
}

func (m *MemoryStore) ExistsByEmailExcluding(ctx context.Context, email string, id uuid.UUID) (bool, error) {
	m.track("ExistsByEmailExcluding")
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.emailTakenLocked(email, id), nil
}

func (m *MemoryStore) emailTakenLocked(email string, exclude uuid.UUID) bool {
	for id, r := range m.rows {
		if id != exclude && strings.EqualFold(r.Email, email) {
			return true
		}
	}
	return false
}

func (m *MemoryStore) filter(f client.Filter) []client.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()

	term := f.NormalizedQuery()
	out := make([]client.Client, 0, len(m.rows))
	for _, r := range m.rows {
		if !f.IncludeDeleted && r.IsDeleted() {
			continue
		}
		if f.Active != nil && r.Active != *f.Active {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.Name), term) &&
			!strings.Contains(strings.ToLower(r.Email), term) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

func sortClients(rows []client.Client, by client.SortField, dir client.SortDirection) {
	compare := func(a, b client.Client) int {
		switch by {
		case client.SortByName:
			return strings.Compare(a.Name, b.Name)
		case client.SortByEmail:
			return strings.Compare(a.Email, b.Email)
		case client.SortByUpdatedAt:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		case client.SortByActive:
			switch {
			case a.Active == b.Active:
				return 0
			case !a.Active:
				return -1
			default:
				return 1
			}
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i], rows[j])
		if dir != client.SortAsc {
			c = -c
		}
		if c == 0 {
			return rows[i].ID.String() < rows[j].ID.String()
		}
		return c < 0
	})
}
