package models

import "time"

// Branch is a physical shop location. OwnerID is set at creation and
// never reassigned; it must reference an OWNER account.
type Branch struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Location  string `gorm:"size:255"`
	Phone     string `gorm:"size:50"`
	OwnerID   uint   `gorm:"not null;index"`
	Owner     *Account
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Staff []Account
}
