package pos

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"
	"printsync-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func newApp(db *gorm.DB, account *models.Account) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxAccountKey, account)
		return c.Next()
	})
	app.Use(auth.RequireStaffOrOwner(db))

	app.Post("/pos/checkout", CheckoutHandler(db))
	return app
}

func checkout(t *testing.T, app *fiber.App, body CheckoutRequest) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/pos/checkout", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("checkout request: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func seedProduct(t *testing.T, db *gorm.DB, branchID uint, barcode string, price float64, stock int) *models.Product {
	t.Helper()
	p := models.Product{Name: "Item " + barcode, Barcode: barcode, Price: price, StockQuantity: stock, BranchID: branchID}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return &p
}

func seedJob(t *testing.T, db *gorm.DB, branchID uint, code string, pages int, color bool) *models.PrintJob {
	t.Helper()
	j := models.PrintJob{
		Filename: "doc.pdf", StoredName: code + ".pdf", JobCode: code,
		TotalPages: pages, IsColor: color, Status: models.PrintJobPrinted, BranchID: branchID,
	}
	if err := db.Create(&j).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return &j
}

func TestCheckoutMixedCart(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateOwner(t, db, "owner")
	branch := testutil.CreateBranch(t, db, "Main", owner.ID)
	product := seedProduct(t, db, branch.ID, "1001", 2.5, 10)
	seedJob(t, db, branch.ID, "4242", 8, false)
	app := newApp(db, owner)

	resp := checkout(t, app, CheckoutRequest{
		BranchID: branch.ID,
		Items: []CartItem{
			{Type: "PRODUCT", ID: "1001", Quantity: 2},
			{Type: "PRINT_JOB", ID: "4242", Quantity: 1},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Status    string  `json:"status"`
		OrderID   uint    `json:"order_id"`
		TotalPaid float64 `json:"total_paid"`
	}
	decode(t, resp, &out)
	// 2 x 2.50 retail plus 8 pages at the 0.10 default.
	if math.Abs(out.TotalPaid-5.8) > 1e-9 {
		t.Fatalf("total_paid = %.2f, want 5.80", out.TotalPaid)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.StockQuantity != 8 {
		t.Fatalf("stock = %d, want 8", reloaded.StockQuantity)
	}

	var job models.PrintJob
	if err := db.First(&job, "job_code = ?", "4242").Error; err != nil {
		t.Fatalf("reload job: %v", err)
	}
	if job.Status != models.PrintJobCollected {
		t.Fatalf("job status = %q, want COLLECTED", job.Status)
	}

	var items []models.OrderItem
	if err := db.Where("order_id = ?", out.OrderID).Find(&items).Error; err != nil {
		t.Fatalf("load order items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("order has %d items, want 2", len(items))
	}
}

func TestCheckoutUsesBranchPriceSetting(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateOwner(t, db, "owner")
	branch := testutil.CreateBranch(t, db, "Main", owner.ID)
	seedJob(t, db, branch.ID, "1313", 10, true)
	setting := models.SystemSetting{Key: "price_color_a4", Value: "0.75", BranchID: branch.ID}
	if err := db.Create(&setting).Error; err != nil {
		t.Fatalf("seed setting: %v", err)
	}
	app := newApp(db, owner)

	resp := checkout(t, app, CheckoutRequest{
		BranchID: branch.ID,
		Items:    []CartItem{{Type: "PRINT_JOB", ID: "1313", Quantity: 1}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		TotalPaid float64 `json:"total_paid"`
	}
	decode(t, resp, &out)
	if math.Abs(out.TotalPaid-7.5) > 1e-9 {
		t.Fatalf("total_paid = %.2f, want 7.50", out.TotalPaid)
	}
}

func TestCheckoutNeedsCapability(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateOwner(t, db, "owner")
	branch := testutil.CreateBranch(t, db, "Main", owner.ID)
	staff := testutil.CreateStaff(t, db, "clerk", &branch.ID)
	seedProduct(t, db, branch.ID, "2001", 1, 5)
	app := newApp(db, staff)

	body := CheckoutRequest{Items: []CartItem{{Type: "PRODUCT", ID: "2001", Quantity: 1}}}

	resp := checkout(t, app, body)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("without grant: status = %d, want 403", resp.StatusCode)
	}

	if err := rbac.Grant(db, staff.ID, rbac.CapCreateOrder); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	resp = checkout(t, app, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("with grant: status = %d, want 200", resp.StatusCode)
	}
}

// A failed line must roll the whole sale back, stock included.
func TestCheckoutRollsBackOnFailure(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateOwner(t, db, "owner")
	branch := testutil.CreateBranch(t, db, "Main", owner.ID)
	good := seedProduct(t, db, branch.ID, "3001", 2, 10)
	seedProduct(t, db, branch.ID, "3002", 2, 1)
	app := newApp(db, owner)

	resp := checkout(t, app, CheckoutRequest{
		BranchID: branch.ID,
		Items: []CartItem{
			{Type: "PRODUCT", ID: "3001", Quantity: 3},
			{Type: "PRODUCT", ID: "3002", Quantity: 5},
		},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, good.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.StockQuantity != 10 {
		t.Fatalf("stock = %d after rollback, want 10", reloaded.StockQuantity)
	}

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	if orders != 0 {
		t.Fatalf("found %d orders after failed checkout, want 0", orders)
	}
}

func TestCheckoutRejectsCollectedJob(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateOwner(t, db, "owner")
	branch := testutil.CreateBranch(t, db, "Main", owner.ID)
	job := seedJob(t, db, branch.ID, "5151", 3, false)
	if err := db.Model(job).Update("status", models.PrintJobCollected).Error; err != nil {
		t.Fatalf("mark collected: %v", err)
	}
	app := newApp(db, owner)

	resp := checkout(t, app, CheckoutRequest{
		BranchID: branch.ID,
		Items:    []CartItem{{Type: "PRINT_JOB", ID: "5151", Quantity: 1}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

// Another tenant's barcode is invisible to the selling branch even
// when it would match.
func TestCheckoutCannotSellForeignProduct(t *testing.T) {
	db := testutil.NewDB(t)
	owner1 := testutil.CreateOwner(t, db, "owner1")
	owner2 := testutil.CreateOwner(t, db, "owner2")
	b1 := testutil.CreateBranch(t, db, "Main", owner1.ID)
	b2 := testutil.CreateBranch(t, db, "Rival", owner2.ID)
	seedProduct(t, db, b2.ID, "6001", 3, 10)
	staff := testutil.CreateStaff(t, db, "clerk", &b1.ID)
	if err := rbac.Grant(db, staff.ID, rbac.CapCreateOrder); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	app := newApp(db, staff)

	resp := checkout(t, app, CheckoutRequest{
		Items: []CartItem{{Type: "PRODUCT", ID: "6001", Quantity: 1}},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
