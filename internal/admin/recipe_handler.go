package admin

import (
	"strings"

	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateMaterialRequest struct {
	BranchID     uint                `json:"branch_id"`
	Name         string              `json:"name"`
	Type         models.MaterialType `json:"type"`
	CurrentLevel float64             `json:"current_level"`
}

type MaterialResponse struct {
	ID           uint                `json:"id"`
	Name         string              `json:"name"`
	Type         models.MaterialType `json:"type"`
	CurrentLevel float64             `json:"current_level"`
	BranchID     uint                `json:"branch_id"`
}

type CreateRecipeRequest struct {
	BranchID         uint    `json:"branch_id"`
	ServiceType      string  `json:"service_type"`
	RawMaterialID    uint    `json:"raw_material_id"`
	QuantityRequired float64 `json:"quantity_required"`
}

func CreateMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		var body CreateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.BranchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id and name are required")
		}
		if body.Type != models.MaterialPaper && body.Type != models.MaterialInk {
			return fiber.NewError(fiber.StatusBadRequest, "type must be PAPER or INK")
		}
		if err := requireOwnBranch(db, owner, body.BranchID); err != nil {
			return err
		}

		material := models.RawMaterial{
			Name:         body.Name,
			Type:         body.Type,
			CurrentLevel: body.CurrentLevel,
			BranchID:     body.BranchID,
		}
		if err := db.Create(&material).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create material")
		}

		return c.Status(fiber.StatusCreated).JSON(MaterialResponse{
			ID:           material.ID,
			Name:         material.Name,
			Type:         material.Type,
			CurrentLevel: material.CurrentLevel,
			BranchID:     material.BranchID,
		})
	}
}

func ListMaterialsHandler(db *gorm.DB) fiber.Handler {
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

		var materials []models.RawMaterial
		if err := db.Where("branch_id = ?", branchID).Order("id").Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list materials")
		}

		res := make([]MaterialResponse, 0, len(materials))
		for _, m := range materials {
			res = append(res, MaterialResponse{
				ID:           m.ID,
				Name:         m.Name,
				Type:         m.Type,
				CurrentLevel: m.CurrentLevel,
				BranchID:     m.BranchID,
			})
		}
		return c.JSON(res)
	}
}

// CreateRecipeHandler adds one deduction rule: service type X consumes
// quantity Q of material M per unit produced.
func CreateRecipeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		var body CreateRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.ServiceType = strings.TrimSpace(body.ServiceType)
		if body.ServiceType == "" || body.BranchID == 0 || body.RawMaterialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id, service_type and raw_material_id are required")
		}
		if err := requireOwnBranch(db, owner, body.BranchID); err != nil {
			return err
		}

		// The material must live in the same branch as the rule.
		var material models.RawMaterial
		if err := db.First(&material, "id = ? AND branch_id = ?", body.RawMaterialID, body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Raw material not found in that branch")
		}

		recipe := models.ProductionRecipe{
			ServiceType:      body.ServiceType,
			RawMaterialID:    material.ID,
			QuantityRequired: body.QuantityRequired,
			BranchID:         body.BranchID,
		}
		if err := db.Create(&recipe).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create recipe rule")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":      recipe.ID,
			"message": "Recipe rule added",
		})
	}
}
