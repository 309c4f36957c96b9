package admin

import (
	"strings"

	"printsync-backend/internal/audit"
	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BranchResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
	OwnerID   uint   `json:"owner_id"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type CreateBranchRequest struct {
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Phone    *string `json:"phone"`
}

type UpdateBranchRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Phone    *string `json:"phone"`
	Active   *bool   `json:"active"`
}

func branchResponse(b *models.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Location:  b.Location,
		Phone:     b.Phone,
		OwnerID:   b.OwnerID,
		Active:    b.Active,
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// loadOwnBranch fetches a branch by route id, answering 404 for both a
// missing id and a branch of another owner so identifier guessing
// cannot tell the two apart.
func loadOwnBranch(db *gorm.DB, c *fiber.Ctx, owner *models.Account) (*models.Branch, error) {
	id := c.Params("id")

	var branch models.Branch
	if err := db.First(&branch, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Branch not found")
	}
	if err := rbac.RequireSameTenant(db, owner, branch.OwnerID); err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Branch not found")
	}
	return &branch, nil
}

func CreateBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		var body CreateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Branch name is required")
		}

		branch := models.Branch{
			Name:     body.Name,
			Location: body.Location,
			OwnerID:  owner.ID,
			Active:   true,
		}
		if body.Phone != nil {
			branch.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := db.Create(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create branch")
		}

		audit.WriteLog(db, audit.LogOptions{
			ActorID:    owner.ID,
			ActorName:  owner.Username,
			Action:     models.AuditActionCreate,
			EntityType: "branch",
			EntityID:   branch.ID,
			Detail:     "Branch " + branch.Name + " created",
			BranchID:   &branch.ID,
		})

		return c.Status(fiber.StatusCreated).JSON(branchResponse(&branch))
	}
}

// ListOwnBranchesHandler answers for both roles: owners get every
// branch they hold, staff get the single branch they are assigned to.
func ListOwnBranchesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		query := db.Model(&models.Branch{}).Order("id")
		if account.Role == models.RoleOwner {
			query = query.Where("owner_id = ?", account.ID)
		} else {
			if account.BranchID == nil {
				return c.JSON([]BranchResponse{})
			}
			query = query.Where("id = ?", *account.BranchID)
		}

		var branches []models.Branch
		if err := query.Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list branches")
		}

		res := make([]BranchResponse, 0, len(branches))
		for i := range branches {
			res = append(res, branchResponse(&branches[i]))
		}
		return c.JSON(res)
	}
}

func GetBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}
		branch, err := loadOwnBranch(db, c, owner)
		if err != nil {
			return err
		}
		return c.JSON(branchResponse(branch))
	}
}

func UpdateBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}
		branch, err := loadOwnBranch(db, c, owner)
		if err != nil {
			return err
		}

		var body UpdateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Branch name cannot be empty")
			}
			branch.Name = name
		}
		if body.Location != nil {
			branch.Location = *body.Location
		}
		if body.Phone != nil {
			branch.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Active != nil {
			branch.Active = *body.Active
		}

		// OwnerID is immutable; Save on the loaded row cannot change it
		// because no request field maps to it.
		if err := db.Save(branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update branch")
		}

		audit.WriteLog(db, audit.LogOptions{
			ActorID:    owner.ID,
			ActorName:  owner.Username,
			Action:     models.AuditActionUpdate,
			EntityType: "branch",
			EntityID:   branch.ID,
			Detail:     "Branch " + branch.Name + " updated",
			BranchID:   &branch.ID,
		})

		return c.JSON(branchResponse(branch))
	}
}

type StaffRosterEntry struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	BranchID *uint  `json:"branch_id"`
	Active   bool   `json:"active"`
}

// GET /api/branches/:id/staff, a same-tenant read with no capability gate.
func ListBranchStaffHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		id := c.Params("id")
		var branch models.Branch
		if err := db.First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}
		if err := rbac.RequireSameTenant(db, account, branch.OwnerID); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		var staff []models.Account
		if err := db.Where("role = ? AND branch_id = ?", models.RoleStaff, branch.ID).
			Order("id").Find(&staff).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list staff")
		}

		res := make([]StaffRosterEntry, 0, len(staff))
		for _, s := range staff {
			res = append(res, StaffRosterEntry{
				ID:       s.ID,
				Username: s.Username,
				Email:    s.Email,
				BranchID: s.BranchID,
				Active:   s.Active,
			})
		}
		return c.JSON(res)
	}
}
