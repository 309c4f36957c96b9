package rbac

import (
	"errors"

	"printsync-backend/internal/models"

	"gorm.io/gorm"
)

// The tenancy graph is derived, never stored: the tenant of a branch is
// its OwnerID, the tenant of a staff account is the owner of its branch,
// and the tenant of an owner is itself.

// OwnerOfBranch returns the account id that owns the branch.
func OwnerOfBranch(tx *gorm.DB, branchID uint) (uint, error) {
	var branch models.Branch
	if err := tx.Select("id", "owner_id").First(&branch, "id = ?", branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return branch.OwnerID, nil
}

// OwnerOfStaff resolves a staff account to its tenant owner. A staff
// account with no branch assignment has no tenant yet: it can
// authenticate, but is authorized for nothing tenant-scoped until an
// owner assigns it.
func OwnerOfStaff(tx *gorm.DB, accountID uint) (uint, error) {
	var account models.Account
	if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if account.Role == models.RoleOwner {
		return account.ID, nil
	}
	if account.BranchID == nil {
		return 0, ErrUnaffiliated
	}
	return OwnerOfBranch(tx, *account.BranchID)
}

// TenantOf resolves an already-loaded principal to its tenant owner id.
func TenantOf(tx *gorm.DB, account *models.Account) (uint, error) {
	if account.Role == models.RoleOwner {
		return account.ID, nil
	}
	if account.BranchID == nil {
		return 0, ErrUnaffiliated
	}
	return OwnerOfBranch(tx, *account.BranchID)
}

// BranchesOf returns the ids of every branch the owner holds. Listing
// operations use this to scope their queries.
func BranchesOf(tx *gorm.DB, ownerID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.Branch{}).
		Where("owner_id = ?", ownerID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// StaffOf returns the ids of every staff account whose tenant resolves
// to the owner, i.e. staff assigned to any of the owner's branches.
func StaffOf(tx *gorm.DB, ownerID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.Account{}).
		Where("role = ? AND branch_id IN (?)",
			models.RoleStaff,
			tx.Model(&models.Branch{}).Select("id").Where("owner_id = ?", ownerID)).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AssignBranch binds a staff account to a branch on behalf of
// requestingOwnerID. The ownership check and the write happen in one
// transaction so a concurrent mutation cannot interleave. Moving staff
// between branches of the same owner is allowed; a staff account whose
// tenant is already another owner is rejected, its tenant is immutable
// across owners.
func AssignBranch(db *gorm.DB, staffID, branchID, requestingOwnerID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var branch models.Branch
		if err := tx.First(&branch, "id = ?", branchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if branch.OwnerID != requestingOwnerID {
			return ErrNotOwner
		}

		var staff models.Account
		if err := tx.First(&staff, "id = ?", staffID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if staff.Role != models.RoleStaff {
			return ErrInvalidTarget
		}

		if staff.BranchID != nil {
			currentOwner, err := OwnerOfBranch(tx, *staff.BranchID)
			if err != nil {
				return err
			}
			if currentOwner != branch.OwnerID {
				return ErrCrossTenantAssignment
			}
		}

		return tx.Model(&staff).Update("branch_id", branch.ID).Error
	})
}
