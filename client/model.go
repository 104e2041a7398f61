package client

import (
	"time"

	"github.com/google/uuid"
)

// InitialVersion is the optimistic concurrency token assigned to newly created records.
const InitialVersion int64 = 0

// Client is the single record type managed by the store.
// Version is the optimistic concurrency token; DeletedAt marks a soft-deleted record.
type Client struct {
	ID        uuid.UUID  `json:"id" msgpack:"id"`
	Name      string     `json:"name" msgpack:"name"`
	Email     string     `json:"email" msgpack:"email"`
	Phone     string     `json:"phone,omitempty" msgpack:"phone"`
	Active    bool       `json:"active" msgpack:"active"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" msgpack:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" msgpack:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" msgpack:"updated_at"`
	Version   int64      `json:"version" msgpack:"version"`
}

// State is the lifecycle state of a record.
type State int

const (
	StateActive State = iota
	StateInactive
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// IsDeleted reports whether the record carries a deletion tombstone.
func (c Client) IsDeleted() bool {
	return c.DeletedAt != nil
}

// State derives the lifecycle state. Deleted is terminal and ignores Active.
func (c Client) State() State {
	switch {
	case c.IsDeleted():
		return StateDeleted
	case c.Active:
		return StateActive
	default:
		return StateInactive
	}
}

// Clone returns a copy that does not share the DeletedAt pointer.
func (c Client) Clone() Client {
	out := c
	if c.DeletedAt != nil {
		ts := *c.DeletedAt
		out.DeletedAt = &ts
	}
	return out
}

// MarkDeleted sets the tombstone and refreshes UpdatedAt.
func (c *Client) MarkDeleted(now time.Time) {
	ts := now
	c.DeletedAt = &ts
	c.UpdatedAt = now
}

// SetActive sets the active flag and refreshes UpdatedAt.
func (c *Client) SetActive(active bool, now time.Time) {
	c.Active = active
	c.UpdatedAt = now
}

// CreateInput carries the caller supplied fields of a new record.
type CreateInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// UpdateInput replaces every mutable field of a record.
type UpdateInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Active  bool   `json:"active"`
	Version int64  `json:"version"`
}

// PatchInput changes only the supplied (non-nil) fields.
type PatchInput struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Active  *bool   `json:"active,omitempty"`
	Version int64   `json:"version"`
}

// NewClient builds an unsaved record from a create input.
// New records are active unless the input says otherwise.
func NewClient(in CreateInput, id uuid.UUID, now time.Time) Client {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return Client{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   InitialVersion,
	}
}

// ApplyUpdate overwrites the mutable fields. ID, CreatedAt, DeletedAt and Version are kept.
func (c *Client) ApplyUpdate(in UpdateInput, now time.Time) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Active = in.Active
	c.UpdatedAt = now
}

// ApplyPatch overwrites the fields present in the patch.
func (c *Client) ApplyPatch(in PatchInput, now time.Time) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	c.UpdatedAt = now
}
