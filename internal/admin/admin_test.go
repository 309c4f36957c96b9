package admin

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// newApp builds a Fiber app whose requests run as the given principal,
// behind the owner guard, mirroring the /api/admin group in main.
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
	app.Use(auth.RequireOwner(db))

	app.Post("/branches", CreateBranchHandler(db))
	app.Get("/branches/:id", GetBranchHandler(db))
	app.Put("/branches/:id", UpdateBranchHandler(db))
	app.Post("/staff", CreateStaffHandler(db))
	app.Get("/staff", ListStaffHandler(db))
	app.Post("/staff/:id/branch", AssignStaffBranchHandler(db))
	app.Post("/staff/:id/deactivate", DeactivateStaffHandler(db))
	app.Post("/staff/:id/permissions", GrantPermissionHandler(db))
	app.Delete("/staff/:id/permissions", RevokePermissionHandler(db))
	app.Get("/staff/:id/permissions", ListStaffPermissionsHandler(db))
	app.Post("/settings", UpsertSettingHandler(db))
	app.Get("/settings", ListSettingsHandler(db))
	app.Post("/printers", RegisterPrinterHandler(db))
	app.Get("/printers", ListPrintersHandler(db))
	app.Post("/materials", CreateMaterialHandler(db))
	app.Get("/materials", ListMaterialsHandler(db))
	app.Post("/recipes", CreateRecipeHandler(db))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
