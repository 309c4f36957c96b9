package audit

import (
	"fmt"

	"printsync-backend/internal/models"

	"gorm.io/gorm"
)

type LogOptions struct {
	ActorID    uint
	ActorName  string
	Action     models.AuditAction
	EntityType string
	EntityID   uint
	Detail     string
	BranchID   *uint
}

// WriteLog appends one entry to the audit trail. Entries are never
// updated or removed; access-control mutations must stay reconstructable
// after the fact.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	entry := models.AuditLog{
		ActorID:    opts.ActorID,
		ActorName:  opts.ActorName,
		Action:     opts.Action,
		EntityType: opts.EntityType,
		EntityID:   opts.EntityID,
		Detail:     opts.Detail,
		BranchID:   opts.BranchID,
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}
