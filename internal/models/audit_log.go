package models

import "time"

type AuditAction string

const (
	AuditActionCreate     AuditAction = "create"
	AuditActionUpdate     AuditAction = "update"
	AuditActionAssign     AuditAction = "assign"
	AuditActionGrant      AuditAction = "grant"
	AuditActionRevoke     AuditAction = "revoke"
	AuditActionDeactivate AuditAction = "deactivate"
)

// AuditLog is an append-only trail of access-control mutations: who
// created a branch, assigned a staff member, granted or revoked a
// permission. Never updated or deleted.
type AuditLog struct {
	ID         uint        `gorm:"primaryKey"`
	CreatedAt  time.Time   `gorm:"index"`
	ActorID    uint        `gorm:"not null;index"`
	ActorName  string      `gorm:"size:100"`
	Action     AuditAction `gorm:"size:20;not null"`
	EntityType string      `gorm:"size:50;index"`
	EntityID   uint        `gorm:"index"`
	Detail     string      `gorm:"size:255"`
	BranchID   *uint
}
