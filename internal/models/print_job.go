package models

import "time"

type PrintJobStatus string

const (
	PrintJobPending   PrintJobStatus = "PENDING"
	PrintJobPrinted   PrintJobStatus = "PRINTED"
	PrintJobCollected PrintJobStatus = "COLLECTED"
)

// PrintJob is a customer document waiting at a branch. JobCode is the
// short code the customer shows at the counter; StoredName is the
// server-side filename written by the upload collaborator.
type PrintJob struct {
	ID         uint           `gorm:"primaryKey"`
	JobCode    string         `gorm:"size:10;uniqueIndex;not null"`
	Filename   string         `gorm:"size:255"`
	StoredName string         `gorm:"size:100"`
	TotalPages int            `gorm:"not null;default:0"`
	IsColor    bool           `gorm:"not null;default:false"`
	Status     PrintJobStatus `gorm:"size:20;not null;default:PENDING"`
	BranchID   uint           `gorm:"not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
