package audit

import (
	"printsync-backend/internal/auth"
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LogResponse struct {
	ID         uint               `json:"id"`
	CreatedAt  string             `json:"created_at"`
	ActorID    uint               `json:"actor_id"`
	ActorName  string             `json:"actor_name"`
	Action     models.AuditAction `json:"action"`
	EntityType string             `json:"entity_type"`
	EntityID   uint               `json:"entity_id"`
	Detail     string             `json:"detail"`
	BranchID   *uint              `json:"branch_id"`
}

// GET /api/admin/audit-logs?entity_type=staff&entity_id=2
// Owners see the trail for their own branches and their own actions,
// nothing from other tenants.
func ListLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		branchIDs, err := rbac.BranchesOf(db, owner.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve branches")
		}

		query := db.Model(&models.AuditLog{}).
			Where("actor_id = ? OR branch_id IN ?", owner.ID, branchIDs)

		if entityType := c.Query("entity_type"); entityType != "" {
			query = query.Where("entity_type = ?", entityType)
		}
		if entityID := c.QueryInt("entity_id"); entityID > 0 {
			query = query.Where("entity_id = ?", entityID)
		}

		var logs []models.AuditLog
		if err := query.Order("created_at DESC, id DESC").Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		res := make([]LogResponse, 0, len(logs))
		for _, entry := range logs {
			res = append(res, LogResponse{
				ID:         entry.ID,
				CreatedAt:  entry.CreatedAt.Format("2006-01-02 15:04:05"),
				ActorID:    entry.ActorID,
				ActorName:  entry.ActorName,
				Action:     entry.Action,
				EntityType: entry.EntityType,
				EntityID:   entry.EntityID,
				Detail:     entry.Detail,
				BranchID:   entry.BranchID,
			})
		}
		return c.JSON(res)
	}
}
