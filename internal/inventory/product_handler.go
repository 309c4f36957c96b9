package inventory

import (
	"strings"

	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	BranchID      uint    `json:"branch_id"`
	Name          string  `json:"name"`
	Barcode       string  `json:"barcode"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
}

type ProductResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Barcode       string  `json:"barcode"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	BranchID      uint    `json:"branch_id"`
}

type StockAuditRequest struct {
	ActualQuantity int `json:"actual_quantity"`
}

func productResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		BranchID:      p.BranchID,
	}
}

// CreateProductHandler adds a retail item to a branch. Guarded by the
// create_product capability; owners pass implicitly inside their own
// tenant.
func CreateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		body.Barcode = strings.TrimSpace(body.Barcode)
		if body.Name == "" || body.Barcode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and barcode are required")
		}

		branchID, err := auth.TargetBranch(db, account, body.BranchID)
		if err != nil {
			return err
		}
		branchOwner, err := rbac.OwnerOfBranch(db, branchID)
		if err != nil {
			return auth.MapRBACError(err)
		}
		if err := rbac.RequireCapability(db, account, rbac.CapCreateProduct, branchOwner); err != nil {
			return auth.MapRBACError(err)
		}

		var existing int64
		db.Model(&models.Product{}).
			Where("branch_id = ? AND barcode = ?", branchID, body.Barcode).
			Count(&existing)
		if existing > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Barcode already exists in this branch")
		}

		product := models.Product{
			Name:          body.Name,
			Barcode:       body.Barcode,
			Price:         body.Price,
			StockQuantity: body.StockQuantity,
			BranchID:      branchID,
		}
		if err := db.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		return c.Status(fiber.StatusCreated).JSON(productResponse(&product))
	}
}

// ListProductsHandler lists the caller's tenant inventory: one branch
// for staff, all owned branches for owners (optionally narrowed with
// ?branch_id=).
func ListProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		query := db.Model(&models.Product{}).Order("id")
		if account.Role == models.RoleStaff {
			if account.BranchID == nil {
				return c.JSON([]ProductResponse{})
			}
			query = query.Where("branch_id = ?", *account.BranchID)
		} else {
			if requested := uint(c.QueryInt("branch_id")); requested != 0 {
				branchID, err := auth.TargetBranch(db, account, requested)
				if err != nil {
					return err
				}
				query = query.Where("branch_id = ?", branchID)
			} else {
				branchIDs, err := rbac.BranchesOf(db, account.ID)
				if err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve branches")
				}
				query = query.Where("branch_id IN ?", branchIDs)
			}
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, productResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// ScanProductHandler looks a product up by barcode for the counter
// camera. The lookup never leaves the caller's tenant.
func ScanProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		barcode := c.Params("barcode")
		product, err := findTenantProduct(db, account, barcode)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"status": "found",
			"name":   product.Name,
			"price":  product.Price,
			"stock":  product.StockQuantity,
			"type":   "PRODUCT",
		})
	}
}

// AuditStockHandler overwrites the stock count after a physical audit.
func AuditStockHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		var body StockAuditRequest
		if err := c.BodyParser(&body); err != nil || body.ActualQuantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "actual_quantity is required")
		}

		barcode := c.Params("barcode")
		product, err := findTenantProduct(db, account, barcode)
		if err != nil {
			return err
		}

		if err := db.Model(product).Update("stock_quantity", body.ActualQuantity).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update stock")
		}
		return c.JSON(fiber.Map{
			"message": "Stock updated",
			"new_qty": body.ActualQuantity,
		})
	}
}

func findTenantProduct(db *gorm.DB, account *models.Account, barcode string) (*models.Product, error) {
	tenant, err := rbac.TenantOf(db, account)
	if err != nil {
		return nil, auth.MapRBACError(err)
	}
	branchIDs, err := rbac.BranchesOf(db, tenant)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not resolve branches")
	}
	if account.Role == models.RoleStaff {
		branchIDs = []uint{*account.BranchID}
	}

	var product models.Product
	if err := db.Where("barcode = ? AND branch_id IN ?", barcode, branchIDs).First(&product).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	return &product, nil
}
