package auth

import (
	"errors"
	"fmt"
	"strings"

	"printsync-backend/internal/config"
	"printsync-backend/internal/models"
	"printsync-backend/internal/rbac"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const CtxAccountKey = "account"

// JWTMiddleware verifies the bearer token and resolves its subject to
// a live account. The token only carries the principal reference; the
// account row in the database is authoritative for role, branch and
// active status, so a deactivated account is locked out on its next
// request even with a valid token in hand.
func JWTMiddleware(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not parse token claims")
		}

		account, err := rbac.ResolvePrincipal(db, claims.AccountID)
		if err != nil {
			if errors.Is(err, rbac.ErrUnknownPrincipal) || errors.Is(err, rbac.ErrInactiveAccount) {
				return fiber.NewError(fiber.StatusUnauthorized, "Account unknown or inactive")
			}
			return err
		}

		c.Locals(CtxAccountKey, account)
		return c.Next()
	}
}

// CurrentAccount returns the principal resolved by JWTMiddleware.
func CurrentAccount(c *fiber.Ctx) (*models.Account, error) {
	account, ok := c.Locals(CtxAccountKey).(*models.Account)
	if !ok || account == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	return account, nil
}

// RequireOwner is the route-group form of the owner guard.
func RequireOwner(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := CurrentAccount(c)
		if err != nil {
			return err
		}
		if err := rbac.RequireOwner(db, account); err != nil {
			return MapRBACError(err)
		}
		return c.Next()
	}
}

// RequireStaffOrOwner admits both roles; handlers behind it scope their
// queries by tenancy.
func RequireStaffOrOwner(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := CurrentAccount(c)
		if err != nil {
			return err
		}
		if err := rbac.RequireStaffOrOwner(db, account); err != nil {
			return MapRBACError(err)
		}
		return c.Next()
	}
}

// MapRBACError translates core sentinel errors into transport statuses.
// Identity failures read as unauthenticated, denials as forbidden,
// invariant violations as bad requests. ErrNotFound stays a 404, which
// handlers also use for cross-tenant direct-id reads so a guessed
// identifier in another tenant is indistinguishable from a missing one.
func MapRBACError(err error) error {
	switch {
	case errors.Is(err, rbac.ErrUnknownPrincipal), errors.Is(err, rbac.ErrInactiveAccount):
		return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, rbac.ErrRoleInsufficient):
		return fiber.NewError(fiber.StatusForbidden, "Insufficient role for this action")
	case errors.Is(err, rbac.ErrCrossTenant):
		return fiber.NewError(fiber.StatusForbidden, "Resource belongs to another tenant")
	case errors.Is(err, rbac.ErrCapabilityMissing):
		return fiber.NewError(fiber.StatusForbidden, "Missing permission for this action")
	case errors.Is(err, rbac.ErrNotOwner):
		return fiber.NewError(fiber.StatusBadRequest, "You do not own that branch")
	case errors.Is(err, rbac.ErrCrossTenantAssignment):
		return fiber.NewError(fiber.StatusBadRequest, "Staff account belongs to another owner")
	case errors.Is(err, rbac.ErrInvalidTarget):
		return fiber.NewError(fiber.StatusBadRequest, "Target account is not a staff account")
	case errors.Is(err, rbac.ErrUnaffiliated):
		return fiber.NewError(fiber.StatusBadRequest, "Staff account has no branch assignment")
	case errors.Is(err, rbac.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	default:
		return err
	}
}
