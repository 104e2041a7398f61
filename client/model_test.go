package client

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var t0 = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

func TestNewClient_Defaults(t *testing.T) {
	id := uuid.New()
	c := NewClient(CreateInput{Name: "Ana", Email: "ana@x.com"}, id, t0)

	if c.ID != id || !c.Active || c.Version != InitialVersion || c.DeletedAt != nil {
		t.Errorf("unexpected new client %+v", c)
	}
	if !c.CreatedAt.Equal(t0) || !c.UpdatedAt.Equal(t0) {
		t.Error("timestamps should be set to now")
	}

	inactive := false
	c = NewClient(CreateInput{Name: "Ana", Email: "ana@x.com", Active: &inactive}, id, t0)
	if c.Active {
		t.Error("explicit active=false should be honoured")
	}
}

func TestClient_StateMachine(t *testing.T) {
	c := NewClient(CreateInput{Name: "Bo", Email: "bo@x.com"}, uuid.New(), t0)
	if c.State() != StateActive {
		t.Fatalf("expected active, got %s", c.State())
	}

	c.SetActive(false, t0.Add(time.Minute))
	if c.State() != StateInactive {
		t.Fatalf("expected inactive, got %s", c.State())
	}

	c.MarkDeleted(t0.Add(2 * time.Minute))
	if c.State() != StateDeleted {
		t.Fatalf("expected deleted, got %s", c.State())
	}

	// the active flag no longer matters once deleted
	c.Active = true
	if c.State() != StateDeleted {
		t.Errorf("deleted must be terminal, got %s", c.State())
	}
	if !c.DeletedAt.Equal(c.UpdatedAt) {
		t.Error("MarkDeleted should set deletedAt and updatedAt together")
	}
}

func TestClient_CloneDoesNotShareTombstone(t *testing.T) {
	c := NewClient(CreateInput{Name: "Cy", Email: "cy@x.com"}, uuid.New(), t0)
	c.MarkDeleted(t0)

	cp := c.Clone()
	*cp.DeletedAt = t0.Add(time.Hour)
	if !c.DeletedAt.Equal(t0) {
		t.Error("clone shares the DeletedAt pointer")
	}
}

func TestClient_ApplyPatch(t *testing.T) {
	c := NewClient(CreateInput{Name: "Dee", Email: "dee@x.com", Phone: "5551234"}, uuid.New(), t0)
	name := "Deedee"
	active := false
	c.ApplyPatch(PatchInput{Name: &name, Active: &active}, t0.Add(time.Minute))

	if c.Name != "Deedee" || c.Active || c.Email != "dee@x.com" || c.Phone != "5551234" {
		t.Errorf("unexpected patch result %+v", c)
	}
	if !c.UpdatedAt.Equal(t0.Add(time.Minute)) || !c.CreatedAt.Equal(t0) {
		t.Error("patch should only refresh updatedAt")
	}
}
