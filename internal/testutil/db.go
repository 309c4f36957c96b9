// Package testutil provides the in-memory database and seed fixtures
// shared by handler tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"printsync-backend/internal/database"
	"printsync-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a fresh in-memory SQLite database with the full schema.
// Each test gets its own named database so nothing leaks between them.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func CreateOwner(t *testing.T, db *gorm.DB, username string) *models.Account {
	t.Helper()
	owner := &models.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleOwner,
		Active:       true,
	}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("create owner %s: %v", username, err)
	}
	return owner
}

func CreateStaff(t *testing.T, db *gorm.DB, username string, branchID *uint) *models.Account {
	t.Helper()
	staff := &models.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleStaff,
		BranchID:     branchID,
		Active:       true,
	}
	if err := db.Create(staff).Error; err != nil {
		t.Fatalf("create staff %s: %v", username, err)
	}
	return staff
}

func CreateBranch(t *testing.T, db *gorm.DB, name string, ownerID uint) *models.Branch {
	t.Helper()
	branch := &models.Branch{Name: name, OwnerID: ownerID, Active: true}
	if err := db.Create(branch).Error; err != nil {
		t.Fatalf("create branch %s: %v", name, err)
	}
	return branch
}
