package admin

import (
	"strings"

	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RegisterPrinterRequest struct {
	BranchID  uint   `json:"branch_id"`
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
}

type PrinterResponse struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	IPAddress        string `json:"ip_address"`
	TotalPageCounter int    `json:"total_page_counter"`
	BranchID         uint   `json:"branch_id"`
}

func RegisterPrinterHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		var body RegisterPrinterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.BranchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id and name are required")
		}
		if err := requireOwnBranch(db, owner, body.BranchID); err != nil {
			return err
		}

		printer := models.Printer{
			Name:      body.Name,
			IPAddress: strings.TrimSpace(body.IPAddress),
			BranchID:  body.BranchID,
		}
		if err := db.Create(&printer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not register printer")
		}

		return c.Status(fiber.StatusCreated).JSON(PrinterResponse{
			ID:               printer.ID,
			Name:             printer.Name,
			IPAddress:        printer.IPAddress,
			TotalPageCounter: printer.TotalPageCounter,
			BranchID:         printer.BranchID,
		})
	}
}

func ListPrintersHandler(db *gorm.DB) fiber.Handler {
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

		var printers []models.Printer
		if err := db.Where("branch_id = ?", branchID).Order("id").Find(&printers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list printers")
		}

		res := make([]PrinterResponse, 0, len(printers))
		for _, p := range printers {
			res = append(res, PrinterResponse{
				ID:               p.ID,
				Name:             p.Name,
				IPAddress:        p.IPAddress,
				TotalPageCounter: p.TotalPageCounter,
				BranchID:         p.BranchID,
			})
		}
		return c.JSON(res)
	}
}
