package auth

import (
	"strings"

	"printsync-backend/internal/config"
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterOwnerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterOwnerHandler creates a new OWNER account. Multiple owners
// may coexist; each runs an independent business. The role is forced
// to OWNER here, never taken from the request.
func RegisterOwnerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterOwnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(body.Username)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Username == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Username, email and password are required")
		}

		var count int64
		db.Model(&models.Account{}).Where("username = ?", body.Username).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Username already taken")
		}
		db.Model(&models.Account{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Email already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		owner := models.Account{
			Username:     body.Username,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleOwner,
			Active:       true,
		}
		if err := db.Create(&owner).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create account")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":       owner.ID,
			"username": owner.Username,
			"email":    owner.Email,
			"role":     owner.Role,
		})
	}
}

func LoginHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(body.Username)

		var account models.Account
		if err := db.Where("username = ?", body.Username).First(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
		}

		if !account.Active {
			return fiber.NewError(fiber.StatusForbidden, "Account is inactive, contact your administrator")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &account)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":        account.ID,
				"username":  account.Username,
				"email":     account.Email,
				"role":      account.Role,
				"branch_id": account.BranchID,
			},
		})
	}
}

func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := CurrentAccount(c)
		if err != nil {
			return err
		}

		response := fiber.Map{
			"id":        account.ID,
			"username":  account.Username,
			"email":     account.Email,
			"role":      account.Role,
			"branch_id": account.BranchID,
			"active":    account.Active,
		}
		if account.Role == models.RoleStaff {
			permissions, err := rbac.ListFor(db, account.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not load permissions")
			}
			response["permissions"] = permissions
		}

		return c.JSON(response)
	}
}

// LogoutHandler acknowledges a logout. Tokens are not tracked server
// side; the client discards its copy and the token expires on its own.
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Logged out"})
	}
}
