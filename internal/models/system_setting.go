package models

import "time"

// SystemSetting is a per-branch key/value, e.g. "price_bw_a4" = "0.10"
// or "tax_rate" = "18.0".
type SystemSetting struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"size:100;not null;uniqueIndex:idx_branch_setting"`
	Value       string `gorm:"size:255"`
	Description string `gorm:"size:255"`
	BranchID    uint   `gorm:"not null;index;uniqueIndex:idx_branch_setting"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
