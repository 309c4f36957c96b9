package dashboard

import (
	"time"

	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const lowStockThreshold = 10

type StatsResponse struct {
	TotalSales    float64 `json:"total_sales"`
	TotalOrders   int64   `json:"total_orders"`
	TotalProducts int64   `json:"total_products"`
	LowStockItems int64   `json:"low_stock_items"`
	PendingJobs   int64   `json:"pending_jobs"`
}

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type TopProduct struct {
	ProductName  string  `json:"product_name"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

type RecentOrder struct {
	OrderID       uint    `json:"order_id"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentMethod string  `json:"payment_method"`
	CreatedAt     string  `json:"created_at"`
	ItemsCount    int64   `json:"items_count"`
}

// tenantBranches resolves the branch set every dashboard read is
// filtered by: staff see their branch, owners see all of theirs. An
// empty slice means there is nothing to aggregate.
func tenantBranches(db *gorm.DB, account *models.Account) ([]uint, error) {
	if account.Role == models.RoleStaff {
		if account.BranchID == nil {
			return nil, nil
		}
		return []uint{*account.BranchID}, nil
	}

	branchIDs, err := rbac.BranchesOf(db, account.ID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not resolve branches")
	}
	return branchIDs, nil
}

// StatsHandler aggregates counters for the caller's tenant only.
// Nothing crosses the tenant boundary at the query level.
func StatsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		branchIDs, err := tenantBranches(db, account)
		if err != nil {
			return err
		}
		if len(branchIDs) == 0 {
			return c.JSON(StatsResponse{})
		}

		var stats StatsResponse
		row := db.Model(&models.Order{}).
			Select("COALESCE(SUM(total_amount), 0)").
			Where("branch_id IN ?", branchIDs).Row()
		if err := row.Scan(&stats.TotalSales); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute sales total")
		}

		db.Model(&models.Order{}).Where("branch_id IN ?", branchIDs).Count(&stats.TotalOrders)
		db.Model(&models.Product{}).Where("branch_id IN ?", branchIDs).Count(&stats.TotalProducts)
		db.Model(&models.Product{}).
			Where("branch_id IN ? AND stock_quantity < ?", branchIDs, lowStockThreshold).
			Count(&stats.LowStockItems)
		db.Model(&models.PrintJob{}).
			Where("branch_id IN ? AND status = ?", branchIDs, models.PrintJobPending).
			Count(&stats.PendingJobs)

		return c.JSON(stats)
	}
}

// RevenueHandler returns daily revenue over the last ?days= days
// (default 7) for the chart on the owner dashboard. Days without a
// sale appear as zero so the series has no gaps.
func RevenueHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		days := c.QueryInt("days", 7)
		if days <= 0 {
			days = 7
		}

		branchIDs, err := tenantBranches(db, account)
		if err != nil {
			return err
		}

		start := time.Now().AddDate(0, 0, -days)

		byDay := map[string]float64{}
		if len(branchIDs) > 0 {
			var rows []struct {
				Day     string
				Revenue float64
			}
			if err := db.Model(&models.Order{}).
				Select("DATE(created_at) AS day, SUM(total_amount) AS revenue").
				Where("branch_id IN ? AND created_at >= ?", branchIDs, start).
				Group("DATE(created_at)").
				Order("day").
				Scan(&rows).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not compute revenue series")
			}
			for _, r := range rows {
				byDay[r.Day] = r.Revenue
			}
		}

		points := make([]RevenuePoint, 0, days)
		for i := 0; i < days; i++ {
			day := start.AddDate(0, 0, i).Format("2006-01-02")
			points = append(points, RevenuePoint{Date: day, Revenue: byDay[day]})
		}

		return c.JSON(fiber.Map{"data": points})
	}
}

// TopProductsHandler ranks retail items by quantity sold across the
// tenant's branches. Print-service lines are excluded; they are priced
// per page and would drown the retail ranking.
func TopProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		limit := c.QueryInt("limit", 5)
		if limit <= 0 {
			limit = 5
		}

		branchIDs, err := tenantBranches(db, account)
		if err != nil {
			return err
		}
		if len(branchIDs) == 0 {
			return c.JSON(fiber.Map{"products": []TopProduct{}})
		}

		var products []TopProduct
		if err := db.Model(&models.OrderItem{}).
			Select("order_items.product_name, SUM(order_items.quantity) AS quantity_sold, SUM(order_items.quantity * order_items.unit_price) AS revenue").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.branch_id IN ? AND order_items.item_type = ?", branchIDs, models.OrderItemRetail).
			Group("order_items.product_name").
			Order("quantity_sold DESC").
			Limit(limit).
			Scan(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not rank products")
		}

		if products == nil {
			products = []TopProduct{}
		}
		return c.JSON(fiber.Map{"products": products})
	}
}

// RecentOrdersHandler lists the latest ?limit= receipts (default 10)
// within the caller's tenant.
func RecentOrdersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		limit := c.QueryInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}

		branchIDs, err := tenantBranches(db, account)
		if err != nil {
			return err
		}
		if len(branchIDs) == 0 {
			return c.JSON(fiber.Map{"orders": []RecentOrder{}})
		}

		var orders []models.Order
		if err := db.Where("branch_id IN ?", branchIDs).
			Order("created_at DESC, id DESC").
			Limit(limit).
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list recent orders")
		}

		res := make([]RecentOrder, 0, len(orders))
		for _, order := range orders {
			var count int64
			db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&count)
			res = append(res, RecentOrder{
				OrderID:       order.ID,
				TotalAmount:   order.TotalAmount,
				PaymentMethod: order.PaymentMethod,
				CreatedAt:     order.CreatedAt.Format("2006-01-02 15:04:05"),
				ItemsCount:    count,
			})
		}
		return c.JSON(fiber.Map{"orders": res})
	}
}
