package admin

import (
	"strings"

	"printsync-backend/internal/audit"
	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateStaffRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	BranchID *uint  `json:"branch_id"`
}

type StaffResponse struct {
	ID       uint               `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Role     models.AccountRole `json:"role"`
	BranchID *uint              `json:"branch_id"`
	Active   bool               `json:"active"`
}

type AssignBranchRequest struct {
	BranchID uint `json:"branch_id"`
}

type PermissionRequest struct {
	Permission string `json:"permission"`
}

func staffResponse(a *models.Account) StaffResponse {
	return StaffResponse{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
		BranchID: a.BranchID,
		Active:   a.Active,
	}
}

// loadOwnStaff resolves a staff account the requesting owner controls.
// Missing ids and other tenants' staff both answer 404.
func loadOwnStaff(db *gorm.DB, c *fiber.Ctx, owner *models.Account) (*models.Account, error) {
	id := c.Params("id")

	var staff models.Account
	if err := db.First(&staff, "id = ? AND role = ?", id, models.RoleStaff).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Staff account not found")
	}

	tenant, err := rbac.OwnerOfStaff(db, staff.ID)
	if err != nil {
		return nil, auth.MapRBACError(err)
	}
	if tenant != owner.ID {
		return nil, fiber.NewError(fiber.StatusNotFound, "Staff account not found")
	}
	return &staff, nil
}

// CreateStaffHandler creates a STAFF account, optionally bound to one
// of the owner's branches right away. Staff created without a branch
// can log in but are authorized for nothing until assigned.
func CreateStaffHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		var body CreateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(body.Username)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Username == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Username, email and password are required")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		staff := models.Account{
			Username:     body.Username,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleStaff,
			Active:       true,
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if body.BranchID != nil {
				branchOwner, err := rbac.OwnerOfBranch(tx, *body.BranchID)
				if err != nil {
					return err
				}
				if branchOwner != owner.ID {
					return rbac.ErrNotOwner
				}
				staff.BranchID = body.BranchID
			}
			return tx.Create(&staff).Error
		})
		if txErr != nil {
			if mapped := auth.MapRBACError(txErr); mapped != txErr {
				return mapped
			}
			return fiber.NewError(fiber.StatusBadRequest, "Could not create staff account, username or email may be taken")
		}

		audit.WriteLog(db, audit.LogOptions{
			ActorID:    owner.ID,
			ActorName:  owner.Username,
			Action:     models.AuditActionCreate,
			EntityType: "staff",
			EntityID:   staff.ID,
			Detail:     "Staff account " + staff.Username + " created",
			BranchID:   staff.BranchID,
		})

		return c.Status(fiber.StatusCreated).JSON(staffResponse(&staff))
	}
}

// ListStaffHandler returns every staff account in the owner's tenant.
func ListStaffHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		ids, err := rbac.StaffOf(db, owner.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve staff roster")
		}

		var staff []models.Account
		if len(ids) > 0 {
			if err := db.Where("id IN ?", ids).Order("id").Find(&staff).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not list staff")
			}
		}

		res := make([]StaffResponse, 0, len(staff))
		for i := range staff {
			res = append(res, staffResponse(&staff[i]))
		}
		return c.JSON(res)
	}
}

// AssignStaffBranchHandler binds (or moves) a staff account to one of
// the owner's branches. The cross-tenant rules live in the core; this
// handler only translates the outcome.
func AssignStaffBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		staffID, err := c.ParamsInt("id")
		if err != nil || staffID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid staff id")
		}

		var body AssignBranchRequest
		if err := c.BodyParser(&body); err != nil || body.BranchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id is required")
		}

		if err := rbac.AssignBranch(db, uint(staffID), body.BranchID, owner.ID); err != nil {
			return auth.MapRBACError(err)
		}

		audit.WriteLog(db, audit.LogOptions{
			ActorID:    owner.ID,
			ActorName:  owner.Username,
			Action:     models.AuditActionAssign,
			EntityType: "staff",
			EntityID:   uint(staffID),
			Detail:     "Staff assigned to branch",
			BranchID:   &body.BranchID,
		})

		return c.JSON(fiber.Map{"message": "Staff assigned to branch"})
	}
}

// DeactivateStaffHandler soft-disables a staff account. Accounts are
// never hard-deleted.
func DeactivateStaffHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}
		staff, err := loadOwnStaff(db, c, owner)
		if err != nil {
			return err
		}

		if err := db.Model(staff).Update("active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not deactivate staff account")
		}

		audit.WriteLog(db, audit.LogOptions{
			ActorID:    owner.ID,
			ActorName:  owner.Username,
			Action:     models.AuditActionDeactivate,
			EntityType: "staff",
			EntityID:   staff.ID,
			Detail:     "Staff account " + staff.Username + " deactivated",
			BranchID:   staff.BranchID,
		})

		return c.JSON(fiber.Map{"message": "Staff account deactivated"})
	}
}

// GrantPermissionHandler gives a capability to a staff account inside
// the owner's tenant. Repeated grants are harmless.
func GrantPermissionHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}
		staff, err := loadOwnStaff(db, c, owner)
		if err != nil {
			return err
		}

		var body PermissionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Permission = strings.TrimSpace(body.Permission)
		if body.Permission == "" {
			return fiber.NewError(fiber.StatusBadRequest, "permission is required")
		}

		if err := rbac.Grant(db, staff.ID, body.Permission); err != nil {
			return auth.MapRBACError(err)
		}

		audit.WriteLog(db, audit.LogOptions{
			ActorID:    owner.ID,
			ActorName:  owner.Username,
			Action:     models.AuditActionGrant,
			EntityType: "staff",
			EntityID:   staff.ID,
			Detail:     "Granted " + body.Permission + " to " + staff.Username,
			BranchID:   staff.BranchID,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Permission granted"})
	}
}

func RevokePermissionHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}
		staff, err := loadOwnStaff(db, c, owner)
		if err != nil {
			return err
		}

		var body PermissionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Permission = strings.TrimSpace(body.Permission)
		if body.Permission == "" {
			return fiber.NewError(fiber.StatusBadRequest, "permission is required")
		}

		if err := rbac.Revoke(db, staff.ID, body.Permission); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not revoke permission")
		}

		audit.WriteLog(db, audit.LogOptions{
			ActorID:    owner.ID,
			ActorName:  owner.Username,
			Action:     models.AuditActionRevoke,
			EntityType: "staff",
			EntityID:   staff.ID,
			Detail:     "Revoked " + body.Permission + " from " + staff.Username,
			BranchID:   staff.BranchID,
		})

		return c.JSON(fiber.Map{"message": "Permission revoked"})
	}
}

func ListStaffPermissionsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}
		staff, err := loadOwnStaff(db, c, owner)
		if err != nil {
			return err
		}

		permissions, err := rbac.ListFor(db, staff.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list permissions")
		}
		return c.JSON(fiber.Map{
			"staff_id":    staff.ID,
			"permissions": permissions,
		})
	}
}
