package pos

import (
	"fmt"

	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"
	"printsync-backend/internal/printjobs"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	cartItemProduct  = "PRODUCT"
	cartItemPrintJob = "PRINT_JOB"

	defaultPriceBW    = 0.10
	defaultPriceColor = 0.50
)

type CartItem struct {
	Type     string `json:"type"`     // PRODUCT or PRINT_JOB
	ID       string `json:"id"`       // barcode or job code
	Quantity int    `json:"quantity"` // copies for print jobs
}

type CheckoutRequest struct {
	BranchID      uint       `json:"branch_id"`
	PaymentMethod string     `json:"payment_method"`
	Items         []CartItem `json:"items"`
}

// CheckoutHandler rings up a cart of retail items and collected print
// jobs. Validation, stock deduction and the order write happen inside
// one transaction so a failed line never half-commits a sale. Guarded
// by the create_order capability.
func CheckoutHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		var body CheckoutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Cart is empty")
		}
		if body.PaymentMethod == "" {
			body.PaymentMethod = "CASH"
		}

		branchID, err := auth.TargetBranch(db, account, body.BranchID)
		if err != nil {
			return err
		}
		branchOwner, err := rbac.OwnerOfBranch(db, branchID)
		if err != nil {
			return auth.MapRBACError(err)
		}
		if err := rbac.RequireCapability(db, account, rbac.CapCreateOrder, branchOwner); err != nil {
			return auth.MapRBACError(err)
		}

		var order models.Order
		txErr := db.Transaction(func(tx *gorm.DB) error {
			total := 0.0
			var lines []models.OrderItem

			for _, item := range body.Items {
				if item.Quantity <= 0 {
					item.Quantity = 1
				}

				switch item.Type {
				case cartItemProduct:
					var product models.Product
					if err := tx.Where("barcode = ? AND branch_id = ?", item.ID, branchID).
						First(&product).Error; err != nil {
						return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Product %s not found", item.ID))
					}
					if product.StockQuantity < item.Quantity {
						return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Not enough stock for %s", product.Name))
					}

					total += product.Price * float64(item.Quantity)
					if err := tx.Model(&product).
						Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity)).Error; err != nil {
						return err
					}
					lines = append(lines, models.OrderItem{
						ProductName: product.Name,
						Quantity:    item.Quantity,
						UnitPrice:   product.Price,
						ItemType:    models.OrderItemRetail,
					})

				case cartItemPrintJob:
					var job models.PrintJob
					if err := tx.Where("job_code = ? AND branch_id = ?", item.ID, branchID).
						First(&job).Error; err != nil {
						return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Job %s not found", item.ID))
					}
					if job.Status == models.PrintJobCollected {
						return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Job %s was already collected", item.ID))
					}

					pricePerPage := branchPrintPrice(tx, branchID, job.IsColor)
					lineTotal := float64(job.TotalPages) * pricePerPage * float64(item.Quantity)
					total += lineTotal

					if err := tx.Model(&job).
						Update("status", models.PrintJobCollected).Error; err != nil {
						return err
					}
					if err := printjobs.DeductStockForPrint(tx, branchID, job.TotalPages*item.Quantity, job.IsColor); err != nil {
						return err
					}
					lines = append(lines, models.OrderItem{
						ProductName: "Print: " + job.Filename,
						Quantity:    item.Quantity,
						UnitPrice:   lineTotal / float64(item.Quantity),
						ItemType:    models.OrderItemService,
					})

				default:
					return fiber.NewError(fiber.StatusBadRequest, "Cart item type must be PRODUCT or PRINT_JOB")
				}
			}

			order = models.Order{
				TotalAmount:   total,
				PaymentMethod: body.PaymentMethod,
				BranchID:      branchID,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			for i := range lines {
				lines[i].OrderID = order.ID
			}
			return tx.Create(&lines).Error
		})
		if txErr != nil {
			if fiberErr, ok := txErr.(*fiber.Error); ok {
				return fiberErr
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Checkout failed")
		}

		return c.JSON(fiber.Map{
			"status":     "success",
			"order_id":   order.ID,
			"total_paid": order.TotalAmount,
			"message":    "Transaction completed",
		})
	}
}

// branchPrintPrice reads the branch's configured per-page price,
// falling back to the defaults the shops opened with.
func branchPrintPrice(tx *gorm.DB, branchID uint, isColor bool) float64 {
	key := "price_bw_a4"
	fallback := defaultPriceBW
	if isColor {
		key = "price_color_a4"
		fallback = defaultPriceColor
	}

	var setting models.SystemSetting
	if err := tx.Where("branch_id = ? AND key = ?", branchID, key).First(&setting).Error; err != nil {
		return fallback
	}
	var price float64
	if _, err := fmt.Sscan(setting.Value, &price); err != nil || price <= 0 {
		return fallback
	}
	return price
}
