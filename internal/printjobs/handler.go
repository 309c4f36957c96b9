package printjobs

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"printsync-backend/internal/auth"
	"printsync-backend/internal/config"
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterUploadRequest struct {
	BranchID   uint   `json:"branch_id"`
	Filename   string `json:"filename"`
	TotalPages int    `json:"total_pages"`
	IsColor    bool   `json:"is_color"`
}

type JobResponse struct {
	JobCode    string                `json:"job_code"`
	Filename   string                `json:"filename"`
	TotalPages int                   `json:"total_pages"`
	IsColor    bool                  `json:"is_color"`
	Status     models.PrintJobStatus `json:"status"`
	BranchID   uint                  `json:"branch_id"`
}

func jobResponse(j *models.PrintJob) JobResponse {
	return JobResponse{
		JobCode:    j.JobCode,
		Filename:   j.Filename,
		TotalPages: j.TotalPages,
		IsColor:    j.IsColor,
		Status:     j.Status,
		BranchID:   j.BranchID,
	}
}

// RegisterUploadHandler records a print job from the metadata the
// upload/analysis collaborator produced. File transfer and PDF page
// counting happen outside this service; only the resulting numbers
// arrive here. The response tells the collaborator where under the
// configured upload directory to place the bytes, and the customer
// gets a short job code for the counter.
func RegisterUploadHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		var body RegisterUploadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Filename = strings.TrimSpace(body.Filename)
		if body.Filename == "" || body.TotalPages <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "filename and total_pages are required")
		}

		branchID, err := auth.TargetBranch(db, account, body.BranchID)
		if err != nil {
			return err
		}

		job := models.PrintJob{
			Filename:   body.Filename,
			StoredName: uuid.NewString() + filepath.Ext(body.Filename),
			TotalPages: body.TotalPages,
			IsColor:    body.IsColor,
			Status:     models.PrintJobPending,
			BranchID:   branchID,
		}

		// Retry on the rare 4-digit collision; the unique index on
		// job_code is the backstop.
		var createErr error
		for attempt := 0; attempt < 5; attempt++ {
			job.JobCode = fmt.Sprintf("%04d", 1000+rand.Intn(9000))
			if createErr = db.Create(&job).Error; createErr == nil {
				break
			}
		}
		if createErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not register print job")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"job_code":    job.JobCode,
			"pages":       job.TotalPages,
			"filename":    job.Filename,
			"stored_path": filepath.Join(cfg.UploadDir, job.StoredName),
			"message":     "Upload registered, show the code at the counter",
		})
	}
}

// ListQueueHandler returns the branch's PENDING jobs.
func ListQueueHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		branchID, err := auth.TargetBranch(db, account, uint(c.QueryInt("branch_id")))
		if err != nil {
			return err
		}
		branchOwner, err := rbac.OwnerOfBranch(db, branchID)
		if err != nil {
			return auth.MapRBACError(err)
		}
		if err := rbac.RequireSameTenant(db, account, branchOwner); err != nil {
			return auth.MapRBACError(err)
		}

		var jobs []models.PrintJob
		if err := db.Where("branch_id = ? AND status = ?", branchID, models.PrintJobPending).
			Order("created_at").Find(&jobs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list print queue")
		}

		res := make([]JobResponse, 0, len(jobs))
		for i := range jobs {
			res = append(res, jobResponse(&jobs[i]))
		}
		return c.JSON(res)
	}
}

// ExecutePrintHandler sends a job to the branch printer and deducts
// paper and ink per the branch recipes. Guarded by print_document.
func ExecutePrintHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := auth.CurrentAccount(c)
		if err != nil {
			return err
		}

		code := c.Params("code")
		var job models.PrintJob
		if err := db.First(&job, "job_code = ?", code).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Job not found")
		}

		branchOwner, err := rbac.OwnerOfBranch(db, job.BranchID)
		if err != nil {
			return auth.MapRBACError(err)
		}
		// A job code from another tenant reads as missing, not
		// forbidden, so codes cannot be probed across shops.
		if err := rbac.RequireSameTenant(db, account, branchOwner); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Job not found")
		}
		if err := rbac.RequireCapability(db, account, rbac.CapPrintDocument, branchOwner); err != nil {
			return auth.MapRBACError(err)
		}

		if job.Status != models.PrintJobPending {
			return fiber.NewError(fiber.StatusBadRequest, "Job is not pending")
		}

		if err := SendToPrinter(&job); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Printer rejected the job")
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := DeductStockForPrint(tx, job.BranchID, job.TotalPages, job.IsColor); err != nil {
				return err
			}
			return tx.Model(&job).Update("status", models.PrintJobPrinted).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record print execution")
		}

		return c.JSON(fiber.Map{
			"message":        "Printing started",
			"pages_deducted": job.TotalPages,
		})
	}
}
