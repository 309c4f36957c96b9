package database

import (
	"fmt"

	"printsync-backend/internal/config"
	"printsync-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the database and runs migrations. The handle is returned
// rather than kept in a package global: every operation receives the
// session (or transaction) it should read from explicitly, so each
// authorization decision observes one consistent view of the tenancy
// and permission tables.
func Init(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Account{},
		&models.Branch{},
		&models.PermissionGrant{},
		&models.PrintJob{},
		&models.Product{},
		&models.RawMaterial{},
		&models.ProductionRecipe{},
		&models.Printer{},
		&models.Order{},
		&models.OrderItem{},
		&models.SystemSetting{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
