package testsupport

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/goliatone/go-client-store/client"
	"github.com/google/uuid"
)

func seededStore(t *testing.T) (*MemoryStore, []client.Client) {
	t.Helper()
	store := NewMemoryStore()
	return store, SeedStore(t, store, LoadClients(t, FixturePath("clients.json")))
}

func TestMemoryStore_FindByID(t *testing.T) {
	store, records := seededStore(t)
	ctx := context.Background()

	got, err := store.FindByID(ctx, records[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "ana@example.com" {
		t.Errorf("unexpected record %+v", got)
	}

	if _, err := store.FindByID(ctx, uuid.New()); !errors.Is(err, client.ErrNoRecord) {
		t.Errorf("expected ErrNoRecord, got %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store, records := seededStore(t)

	got, _ := store.FindByID(context.Background(), records[4].ID)
	*got.DeletedAt = time.Time{}
	got.Name = "mutated"

	row, _ := store.Row(records[4].ID)
	if row.Name != "Eva Lima" || row.DeletedAt.IsZero() {
		t.Errorf("stored record changed through a returned copy: %+v", row)
	}
}

func TestMemoryStore_InsertEmailUniqueness(t *testing.T) {
	store, _ := seededStore(t)
	ctx := context.Background()

	tests := []struct {
		email string
		taken bool
	}{
		{"ana@example.com", true},
		{"ANA@EXAMPLE.COM", true},
		{"fabio@example.com", true}, // deleted record keeps its email
		{"new@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			_, err := store.Insert(ctx, client.Client{ID: uuid.New(), Name: "x", Email: tt.email})
			if got := errors.Is(err, client.ErrEmailTaken); got != tt.taken {
				t.Errorf("Insert(%s) err = %v, want taken=%v", tt.email, err, tt.taken)
			}
		})
	}
}

func TestMemoryStore_Update(t *testing.T) {
	store, records := seededStore(t)
	ctx := context.Background()
	bruno := records[1]

	stale := bruno
	stale.Version = 1
	if _, err := store.Update(ctx, stale); !errors.Is(err, client.ErrStaleVersion) {
		t.Errorf("expected ErrStaleVersion, got %v", err)
	}

	taken := bruno
	taken.Email = "Carla@example.com"
	if _, err := store.Update(ctx, taken); !errors.Is(err, client.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	missing := bruno
	missing.ID = uuid.New()
	if _, err := store.Update(ctx, missing); !errors.Is(err, client.ErrNoRecord) {
		t.Errorf("expected ErrNoRecord, got %v", err)
	}

	next := bruno
	next.Name = "Bruno C."
	next.CreatedAt = time.Now()
	saved, err := store.Update(ctx, next)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Version != 3 || !saved.CreatedAt.Equal(bruno.CreatedAt) || saved.Name != "Bruno C." {
		t.Errorf("unexpected saved record %+v", saved)
	}
	if store.Calls("Update") != 4 || store.Writes() != 10 {
		t.Errorf("unexpected call counts: updates=%d writes=%d", store.Calls("Update"), store.Writes())
	}
}

func TestMemoryStore_BeforeUpdate(t *testing.T) {
	store, records := seededStore(t)
	ctx := context.Background()

	fired := false
	store.BeforeUpdate = func(rec client.Client) {
		if fired {
			return
		}
		fired = true
		competing := rec
		competing.Name = "competing"
		if _, err := store.Update(ctx, competing); err != nil {
			t.Errorf("competing update failed: %v", err)
		}
	}

	mine := records[0]
	mine.Name = "mine"
	if _, err := store.Update(ctx, mine); !errors.Is(err, client.ErrStaleVersion) {
		t.Errorf("expected the slower writer to lose, got %v", err)
	}
	row, _ := store.Row(mine.ID)
	if row.Name != "competing" || row.Version != 1 {
		t.Errorf("unexpected stored record %+v", row)
	}
}

func TestMemoryStore_Err(t *testing.T) {
	store, records := seededStore(t)
	ctx := context.Background()
	boom := errors.New("boom")
	store.Err = boom

	if _, err := store.FindByID(ctx, records[0].ID); !errors.Is(err, boom) {
		t.Errorf("FindByID: expected boom, got %v", err)
	}
	if _, err := store.CountFiltered(ctx, client.Filter{}); !errors.Is(err, boom) {
		t.Errorf("CountFiltered: expected boom, got %v", err)
	}
	if _, err := store.ExistsByEmail(ctx, "ana@example.com"); !errors.Is(err, boom) {
		t.Errorf("ExistsByEmail: expected boom, got %v", err)
	}
}

func TestMemoryStore_Filtering(t *testing.T) {
	store, _ := seededStore(t)
	ctx := context.Background()
	active, inactive := true, false

	tests := []struct {
		name   string
		filter client.Filter
		want   int
	}{
		{"alive only", client.Filter{}, 4},
		{"include deleted", client.Filter{IncludeDeleted: true}, 6},
		{"active", client.Filter{Active: &active}, 3},
		{"inactive", client.Filter{Active: &inactive}, 1},
		{"inactive with deleted", client.Filter{Active: &inactive, IncludeDeleted: true}, 2},
		{"name match", client.Filter{Query: "  SILVA "}, 1},
		{"email domain", client.Filter{Query: "example.com"}, 4},
		{"no match", client.Filter{Query: "zzz"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := store.CountFiltered(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if count != tt.want {
				t.Errorf("CountFiltered = %d, want %d", count, tt.want)
			}
		})
	}
}

func TestMemoryStore_Paging(t *testing.T) {
	store, _ := seededStore(t)
	ctx := context.Background()

	first, err := store.FindFiltered(ctx, client.ListQuery{Size: 3, SortBy: client.SortByCreatedAt, SortDir: client.SortDesc})
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 3 || first[0].Name != "Diego Alves" {
		t.Errorf("expected newest alive record first, got %+v", first)
	}

	beyond, err := store.FindFiltered(ctx, client.ListQuery{Page: 5, Size: 3, SortBy: client.SortByName, SortDir: client.SortAsc})
	if err != nil {
		t.Fatal(err)
	}
	if beyond == nil || len(beyond) != 0 {
		t.Errorf("expected an empty non-nil page, got %#v", beyond)
	}

	// an overflowing offset reads as past the end
	overflow, err := store.FindFiltered(ctx, client.ListQuery{Page: math.MaxInt/10 + 1, Size: 10, SortBy: client.SortByName, SortDir: client.SortAsc})
	if err != nil {
		t.Fatal(err)
	}
	if len(overflow) != 0 {
		t.Errorf("expected no rows for an overflowing offset, got %d", len(overflow))
	}
}

func TestMemoryStore_SortGolden(t *testing.T) {
	store, _ := seededStore(t)

	rows, err := store.FindFiltered(context.Background(), client.ListQuery{
		Filter:  client.Filter{IncludeDeleted: true},
		Size:    client.MaxPageSize,
		SortBy:  client.SortByName,
		SortDir: client.SortDesc,
	})
	if err != nil {
		t.Fatal(err)
	}

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	CompareJSONWithGolden(t, GoldenPath("names_by_name_desc.json"), names)
}
