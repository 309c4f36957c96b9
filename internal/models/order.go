package models

import "time"

const (
	OrderItemRetail  = "RETAIL"
	OrderItemService = "SERVICE"
)

// Order is one counter receipt.
type Order struct {
	ID            uint    `gorm:"primaryKey"`
	TotalAmount   float64 `gorm:"not null;default:0"`
	PaymentMethod string  `gorm:"size:20;not null;default:CASH"`
	BranchID      uint    `gorm:"not null;index"`
	CreatedAt     time.Time

	Items []OrderItem
}

// OrderItem snapshots name and price at the time of sale so later
// product edits do not rewrite history.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey"`
	OrderID     uint    `gorm:"not null;index"`
	ProductName string  `gorm:"size:150;not null"`
	Quantity    int     `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
	ItemType    string  `gorm:"size:20;not null"`
}
