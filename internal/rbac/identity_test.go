package rbac

import (
	"errors"
	"testing"
)

func TestResolvePrincipal(t *testing.T) {
	db := newTestDB(t)
	owner := createOwner(t, db, "owner")

	got, err := ResolvePrincipal(db, owner.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != owner.ID || got.Role != owner.Role {
		t.Fatalf("resolved %+v, want id=%d role=%s", got, owner.ID, owner.Role)
	}
}

func TestResolvePrincipalUnknown(t *testing.T) {
	db := newTestDB(t)

	if _, err := ResolvePrincipal(db, 4242); !errors.Is(err, ErrUnknownPrincipal) {
		t.Fatalf("expected ErrUnknownPrincipal, got %v", err)
	}
}

func TestResolvePrincipalInactive(t *testing.T) {
	db := newTestDB(t)
	owner := createOwner(t, db, "owner")
	if err := db.Model(owner).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := ResolvePrincipal(db, owner.ID); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
}
