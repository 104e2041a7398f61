package store

import (
	"time"

	"github.com/goliatone/go-client-store/client"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// clientRow is the persisted shape of client.Client.
// Soft deletion is handled by the service, so bun's soft_delete tag is not used
// and deleted rows stay visible to plain selects.
type clientRow struct {
	bun.BaseModel `bun:"table:clients,alias:c"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid"`
	Name      string     `bun:"name,notnull"`
	Email     string     `bun:"email,notnull"`
	Phone     string     `bun:"phone,notnull"`
	Active    bool       `bun:"active,notnull"`
	DeletedAt *time.Time `bun:"deleted_at"`
	CreatedAt time.Time  `bun:"created_at,notnull"`
	UpdatedAt time.Time  `bun:"updated_at,notnull"`
	Version   int64      `bun:"version,notnull"`
}

func toRow(c client.Client) clientRow {
	return clientRow{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Active:    c.Active,
		DeletedAt: utcPtr(c.DeletedAt),
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
		Version:   c.Version,
	}
}

func (r clientRow) toClient() client.Client {
	return client.Client{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Active:    r.Active,
		DeletedAt: utcPtr(r.DeletedAt),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
		Version:   r.Version,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
