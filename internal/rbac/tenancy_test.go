package rbac

import (
	"errors"
	"testing"

	"printsync-backend/internal/models"
)

func TestOwnerOfBranch(t *testing.T) {
	db := newTestDB(t)
	owner := createOwner(t, db, "owner")
	branch := createBranch(t, db, "Main", owner.ID)

	got, err := OwnerOfBranch(db, branch.ID)
	if err != nil {
		t.Fatalf("OwnerOfBranch: %v", err)
	}
	if got != owner.ID {
		t.Fatalf("owner = %d, want %d", got, owner.ID)
	}

	if _, err := OwnerOfBranch(db, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing branch: expected ErrNotFound, got %v", err)
	}
}

func TestOwnerOfStaff(t *testing.T) {
	db := newTestDB(t)
	owner := createOwner(t, db, "owner")
	branch := createBranch(t, db, "Main", owner.ID)
	assigned := createStaff(t, db, "assigned", &branch.ID)
	loose := createStaff(t, db, "loose", nil)

	got, err := OwnerOfStaff(db, assigned.ID)
	if err != nil {
		t.Fatalf("OwnerOfStaff: %v", err)
	}
	if got != owner.ID {
		t.Fatalf("tenant = %d, want %d", got, owner.ID)
	}

	if _, err := OwnerOfStaff(db, loose.ID); !errors.Is(err, ErrUnaffiliated) {
		t.Fatalf("unaffiliated: expected ErrUnaffiliated, got %v", err)
	}
	if _, err := OwnerOfStaff(db, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing account: expected ErrNotFound, got %v", err)
	}

	// An owner's tenant is itself.
	got, err = OwnerOfStaff(db, owner.ID)
	if err != nil || got != owner.ID {
		t.Fatalf("owner tenant = %d, %v; want %d, nil", got, err, owner.ID)
	}
}

func TestBranchIsolationBetweenOwners(t *testing.T) {
	db := newTestDB(t)
	owner1 := createOwner(t, db, "owner1")
	owner2 := createOwner(t, db, "owner2")
	b1 := createBranch(t, db, "Downtown", owner1.ID)
	b2 := createBranch(t, db, "Campus", owner1.ID)
	b3 := createBranch(t, db, "Harbor", owner2.ID)

	ids1, err := BranchesOf(db, owner1.ID)
	if err != nil {
		t.Fatalf("BranchesOf(owner1): %v", err)
	}
	ids2, err := BranchesOf(db, owner2.ID)
	if err != nil {
		t.Fatalf("BranchesOf(owner2): %v", err)
	}

	if len(ids1) != 2 || ids1[0] != b1.ID || ids1[1] != b2.ID {
		t.Fatalf("owner1 branches = %v, want [%d %d]", ids1, b1.ID, b2.ID)
	}
	if len(ids2) != 1 || ids2[0] != b3.ID {
		t.Fatalf("owner2 branches = %v, want [%d]", ids2, b3.ID)
	}
	for _, id := range ids2 {
		if id == b1.ID || id == b2.ID {
			t.Fatalf("owner1 branch %d leaked into owner2's listing", id)
		}
	}
}

func TestStaffOf(t *testing.T) {
	db := newTestDB(t)
	owner1 := createOwner(t, db, "owner1")
	owner2 := createOwner(t, db, "owner2")
	b1 := createBranch(t, db, "Downtown", owner1.ID)
	b2 := createBranch(t, db, "Harbor", owner2.ID)
	s1 := createStaff(t, db, "s1", &b1.ID)
	s2 := createStaff(t, db, "s2", &b2.ID)
	createStaff(t, db, "loose", nil)

	ids, err := StaffOf(db, owner1.ID)
	if err != nil {
		t.Fatalf("StaffOf: %v", err)
	}
	if len(ids) != 1 || ids[0] != s1.ID {
		t.Fatalf("owner1 staff = %v, want [%d]", ids, s1.ID)
	}
	for _, id := range ids {
		if id == s2.ID {
			t.Fatal("owner2 staff leaked into owner1's roster")
		}
	}
}

func TestAssignBranchRequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	owner1 := createOwner(t, db, "owner1")
	owner2 := createOwner(t, db, "owner2")
	branch := createBranch(t, db, "Main", owner1.ID)
	staff := createStaff(t, db, "staff", nil)

	// Even an unaffiliated staff account cannot be claimed through a
	// branch the requester does not own.
	if err := AssignBranch(db, staff.ID, branch.ID, owner2.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if err := AssignBranch(db, staff.ID, branch.ID, owner1.ID); err != nil {
		t.Fatalf("legitimate assign: %v", err)
	}

	tenant, err := OwnerOfStaff(db, staff.ID)
	if err != nil || tenant != owner1.ID {
		t.Fatalf("tenant after assign = %d, %v; want %d, nil", tenant, err, owner1.ID)
	}
}

func TestAssignBranchSameOwnerReassignment(t *testing.T) {
	db := newTestDB(t)
	owner := createOwner(t, db, "owner")
	b1 := createBranch(t, db, "Downtown", owner.ID)
	b2 := createBranch(t, db, "Campus", owner.ID)
	staff := createStaff(t, db, "staff", &b1.ID)

	if err := AssignBranch(db, staff.ID, b2.ID, owner.ID); err != nil {
		t.Fatalf("same-owner move: %v", err)
	}

	var reloaded models.Account
	if err := db.First(&reloaded, staff.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.BranchID == nil || *reloaded.BranchID != b2.ID {
		t.Fatalf("branch = %v, want %d", reloaded.BranchID, b2.ID)
	}
}

func TestAssignBranchCrossTenantRejected(t *testing.T) {
	db := newTestDB(t)
	owner1 := createOwner(t, db, "owner1")
	owner3 := createOwner(t, db, "owner3")
	b1 := createBranch(t, db, "Main", owner1.ID)
	b3 := createBranch(t, db, "Harbor", owner3.ID)
	staff := createStaff(t, db, "staff", &b1.ID)

	// Owner 3 tries to poach owner 1's staff into its own branch. The
	// staff account's tenant is immutable across owners.
	if err := AssignBranch(db, staff.ID, b3.ID, owner3.ID); !errors.Is(err, ErrCrossTenantAssignment) {
		t.Fatalf("expected ErrCrossTenantAssignment, got %v", err)
	}

	// The failed attempt must not have moved the account.
	tenant, err := OwnerOfStaff(db, staff.ID)
	if err != nil || tenant != owner1.ID {
		t.Fatalf("tenant after rejection = %d, %v; want %d, nil", tenant, err, owner1.ID)
	}
}

func TestAssignBranchInvalidTargets(t *testing.T) {
	db := newTestDB(t)
	owner := createOwner(t, db, "owner")
	other := createOwner(t, db, "other")
	branch := createBranch(t, db, "Main", owner.ID)

	if err := AssignBranch(db, other.ID, branch.ID, owner.ID); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("owner as target: expected ErrInvalidTarget, got %v", err)
	}
	if err := AssignBranch(db, 9999, branch.ID, owner.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing staff: expected ErrNotFound, got %v", err)
	}
	if err := AssignBranch(db, owner.ID, 9999, owner.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing branch: expected ErrNotFound, got %v", err)
	}
}
