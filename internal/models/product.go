package models

import "time"

// Product is a retail item sold at the counter (pens, folders, ...).
// Barcode is unique within a branch, not globally: two owners can stock
// the same manufacturer barcode.
type Product struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"size:100;not null"`
	Barcode       string  `gorm:"size:50;not null;uniqueIndex:idx_branch_barcode"`
	Price         float64 `gorm:"not null;default:0"`
	StockQuantity int     `gorm:"not null;default:0"`
	BranchID      uint    `gorm:"not null;index;uniqueIndex:idx_branch_barcode"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
