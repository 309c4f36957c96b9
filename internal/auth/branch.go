package auth

import (
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TargetBranch resolves which branch a request operates on: staff act
// on their assigned branch, owners must name one of theirs. A branch
// id outside the caller's tenant answers 404, the same as a
// nonexistent id, so identifiers cannot be probed across tenants.
func TargetBranch(db *gorm.DB, account *models.Account, requested uint) (uint, error) {
	if account.Role == models.RoleStaff {
		if account.BranchID == nil {
			return 0, MapRBACError(rbac.ErrUnaffiliated)
		}
		if requested != 0 && requested != *account.BranchID {
			return 0, fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}
		return *account.BranchID, nil
	}

	if requested == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "branch_id is required")
	}
	branchOwner, err := rbac.OwnerOfBranch(db, requested)
	if err != nil || branchOwner != account.ID {
		return 0, fiber.NewError(fiber.StatusNotFound, "Branch not found")
	}
	return requested, nil
}
