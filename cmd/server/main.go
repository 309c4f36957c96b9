package main

import (
	"log"
	"strings"

	"printsync-backend/internal/admin"
	"printsync-backend/internal/audit"
	"printsync-backend/internal/auth"
	"printsync-backend/internal/config"
	"printsync-backend/internal/dashboard"
	"printsync-backend/internal/database"
	"printsync-backend/internal/inventory"
	"printsync-backend/internal/pos"
	"printsync-backend/internal/printjobs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Init(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-owner", auth.RegisterOwnerHandler(db))
	api.Post("/auth/login", auth.LoginHandler(cfg, db))

	// Everything below resolves the principal first
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg, db))

	protected.Get("/auth/me", auth.MeHandler(db))
	protected.Post("/auth/logout", auth.LogoutHandler())

	// Owner-only operations
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireOwner(db))

	adminRoutes.Post("/branches", admin.CreateBranchHandler(db))
	adminRoutes.Get("/branches/:id", admin.GetBranchHandler(db))
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler(db))

	adminRoutes.Post("/staff", admin.CreateStaffHandler(db))
	adminRoutes.Get("/staff", admin.ListStaffHandler(db))
	adminRoutes.Post("/staff/:id/branch", admin.AssignStaffBranchHandler(db))
	adminRoutes.Post("/staff/:id/deactivate", admin.DeactivateStaffHandler(db))
	adminRoutes.Post("/staff/:id/permissions", admin.GrantPermissionHandler(db))
	adminRoutes.Delete("/staff/:id/permissions", admin.RevokePermissionHandler(db))
	adminRoutes.Get("/staff/:id/permissions", admin.ListStaffPermissionsHandler(db))

	adminRoutes.Post("/settings", admin.UpsertSettingHandler(db))
	adminRoutes.Get("/settings", admin.ListSettingsHandler(db))
	adminRoutes.Post("/printers", admin.RegisterPrinterHandler(db))
	adminRoutes.Get("/printers", admin.ListPrintersHandler(db))
	adminRoutes.Post("/materials", admin.CreateMaterialHandler(db))
	adminRoutes.Get("/materials", admin.ListMaterialsHandler(db))
	adminRoutes.Post("/recipes", admin.CreateRecipeHandler(db))
	adminRoutes.Get("/audit-logs", audit.ListLogsHandler(db))

	// Staff and owner operations; each handler scopes its queries by
	// tenancy and applies its capability guard.
	staffRoutes := protected.Group("")
	staffRoutes.Use(auth.RequireStaffOrOwner(db))

	staffRoutes.Get("/branches", admin.ListOwnBranchesHandler(db))
	staffRoutes.Get("/branches/:id/staff", admin.ListBranchStaffHandler(db))

	staffRoutes.Post("/products", inventory.CreateProductHandler(db))
	staffRoutes.Get("/products", inventory.ListProductsHandler(db))
	staffRoutes.Get("/products/scan/:barcode", inventory.ScanProductHandler(db))
	staffRoutes.Post("/products/:barcode/audit", inventory.AuditStockHandler(db))

	staffRoutes.Post("/uploads", printjobs.RegisterUploadHandler(cfg, db))
	staffRoutes.Get("/print-queue", printjobs.ListQueueHandler(db))
	staffRoutes.Post("/print-queue/:code/print", printjobs.ExecutePrintHandler(db))

	staffRoutes.Post("/pos/checkout", pos.CheckoutHandler(db))
	staffRoutes.Get("/dashboard/stats", dashboard.StatsHandler(db))
	staffRoutes.Get("/dashboard/revenue", dashboard.RevenueHandler(db))
	staffRoutes.Get("/dashboard/top-products", dashboard.TopProductsHandler(db))
	staffRoutes.Get("/dashboard/recent-orders", dashboard.RecentOrdersHandler(db))

	log.Printf("PrintSync API listening on :%s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
