package admin

import (
	"strings"

	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SettingRequest struct {
	BranchID    uint   `json:"branch_id"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type SettingResponse struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	BranchID    uint   `json:"branch_id"`
}

// requireOwnBranch checks that the owner holds the referenced branch.
// Foreign branches answer 404 like missing ones.
func requireOwnBranch(db *gorm.DB, owner *models.Account, branchID uint) error {
	branchOwner, err := rbac.OwnerOfBranch(db, branchID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Branch not found")
	}
	if branchOwner != owner.ID {
		return fiber.NewError(fiber.StatusNotFound, "Branch not found")
	}
	return nil
}

// UpsertSettingHandler creates or updates a pricing/config key for one
// branch, e.g. "price_bw_a4" = "0.10".
func UpsertSettingHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		var body SettingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Key = strings.TrimSpace(body.Key)
		if body.Key == "" || body.BranchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id and key are required")
		}
		if err := requireOwnBranch(db, owner, body.BranchID); err != nil {
			return err
		}

		var setting models.SystemSetting
		err = db.Where("branch_id = ? AND key = ?", body.BranchID, body.Key).First(&setting).Error
		switch {
		case err == nil:
			setting.Value = body.Value
			if body.Description != "" {
				setting.Description = body.Description
			}
			err = db.Save(&setting).Error
		default:
			setting = models.SystemSetting{
				Key:         body.Key,
				Value:       body.Value,
				Description: body.Description,
				BranchID:    body.BranchID,
			}
			err = db.Create(&setting).Error
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save setting")
		}

		return c.JSON(SettingResponse{
			Key:         setting.Key,
			Value:       setting.Value,
			Description: setting.Description,
			BranchID:    setting.BranchID,
		})
	}
}

func ListSettingsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		branchID := uint(c.QueryInt("branch_id"))
		if branchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id query parameter is required")
		}
		if err := requireOwnBranch(db, owner, branchID); err != nil {
			return err
		}

		var settings []models.SystemSetting
		if err := db.Where("branch_id = ?", branchID).Order("key").Find(&settings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list settings")
		}

		res := make([]SettingResponse, 0, len(settings))
		for _, s := range settings {
			res = append(res, SettingResponse{
				Key:         s.Key,
				Value:       s.Value,
				Description: s.Description,
				BranchID:    s.BranchID,
			})
		}
		return c.JSON(res)
	}
}
