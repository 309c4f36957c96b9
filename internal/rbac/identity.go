package rbac

import (
	"errors"

	"printsync-backend/internal/models"

	"gorm.io/gorm"
)

// ResolvePrincipal maps an opaque account reference supplied by the
// transport layer to a live Account record. It is a lookup plus a
// liveness check and nothing else; authorization happens later, in
// Authorize. The transport decides what the reference is (today a JWT
// subject), so swapping the token scheme never touches this package's
// callers.
func ResolvePrincipal(tx *gorm.DB, accountID uint) (*models.Account, error) {
	var account models.Account
	if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownPrincipal
		}
		return nil, err
	}
	if !account.Active {
		return nil, ErrInactiveAccount
	}
	return &account, nil
}
