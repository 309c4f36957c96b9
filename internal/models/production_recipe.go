package models

import "time"

// ProductionRecipe links a service type ("PRINT_BW_A4", "PRINT_COLOR_A4",
// "BINDING_SPIRAL") to the raw material it consumes per unit.
type ProductionRecipe struct {
	ID               uint         `gorm:"primaryKey"`
	ServiceType      string       `gorm:"size:50;not null;index"`
	RawMaterialID    uint         `gorm:"not null"`
	RawMaterial      *RawMaterial
	QuantityRequired float64 `gorm:"not null"`
	BranchID         uint    `gorm:"not null;index"`
	CreatedAt        time.Time
}
