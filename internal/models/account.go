package models

import "time"

type AccountRole string

const (
	RoleOwner AccountRole = "OWNER"
	RoleStaff AccountRole = "STAFF"
)

// Account is any principal that can authenticate: a shop owner or a
// staff member. Staff are bound to at most one branch via BranchID;
// owners never carry a branch affiliation. Accounts are deactivated,
// never deleted.
type Account struct {
	ID           uint        `gorm:"primaryKey"`
	Username     string      `gorm:"size:100;uniqueIndex;not null"`
	Email        string      `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string      `gorm:"size:255;not null"`
	Role         AccountRole `gorm:"size:20;not null"`
	BranchID     *uint
	Branch       *Branch
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
