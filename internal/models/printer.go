package models

import "time"

// Printer is a physical device on a branch network. TotalPageCounter
// mirrors the hardware lifetime counter reported over SNMP.
type Printer struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:100;not null"`
	IPAddress        string `gorm:"size:45"`
	TotalPageCounter int    `gorm:"not null;default:0"`
	BranchID         uint   `gorm:"not null;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
