package models

import "time"

type MaterialType string

const (
	MaterialPaper MaterialType = "PAPER"
	MaterialInk   MaterialType = "INK"
)

// RawMaterial is a consumable a branch burns through when printing:
// sheets of paper, toner percentage, ink bottles.
type RawMaterial struct {
	ID           uint         `gorm:"primaryKey"`
	Name         string       `gorm:"size:100;not null"`
	Type         MaterialType `gorm:"size:20;not null"`
	CurrentLevel float64      `gorm:"not null;default:0"`
	BranchID     uint         `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
