package models

import "time"

// PermissionGrant gives a named capability to one STAFF account.
// The composite unique index makes repeated grants idempotent at the
// storage boundary as well.
type PermissionGrant struct {
	ID             uint   `gorm:"primaryKey"`
	AccountID      uint   `gorm:"not null;uniqueIndex:idx_account_permission"`
	PermissionName string `gorm:"size:100;not null;uniqueIndex:idx_account_permission"`
	CreatedAt      time.Time
}
