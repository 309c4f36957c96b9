package rbac

import (
	"errors"

	"printsync-backend/internal/models"

	"gorm.io/gorm"
)

// Capability names grantable to staff. Owners hold every capability
// inside their own tenant implicitly and never receive grants.
const (
	CapCreateProduct    = "create_product"
	CapCreateOrder      = "create_order"
	CapPrintDocument    = "print_document"
	CapViewBranchOrders = "view_branch_orders"
	CapManageStaff      = "manage_staff"
	CapManageSettings   = "manage_settings"
	CapManagePrinters   = "manage_printers"
	CapViewReports      = "view_reports"
)

// Grant records a named capability for a STAFF account. Granting an
// existing pair is a no-op, not an error. Granting to an owner (or a
// missing account) fails with ErrInvalidTarget.
func Grant(db *gorm.DB, accountID uint, permissionName string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidTarget
			}
			return err
		}
		if account.Role != models.RoleStaff {
			return ErrInvalidTarget
		}

		grant := models.PermissionGrant{AccountID: accountID, PermissionName: permissionName}
		return tx.Where("account_id = ? AND permission_name = ?", accountID, permissionName).
			FirstOrCreate(&grant).Error
	})
}

// Revoke removes one (account, permission) pair. Revoking a pair that
// was never granted is a no-op.
func Revoke(db *gorm.DB, accountID uint, permissionName string) error {
	return db.
		Delete(&models.PermissionGrant{}, "account_id = ? AND permission_name = ?", accountID, permissionName).
		Error
}

// Has reports whether the account holds the named capability via an
// explicit grant. The owner shortcut lives in Authorize, not here.
func Has(tx *gorm.DB, accountID uint, permissionName string) (bool, error) {
	var count int64
	err := tx.Model(&models.PermissionGrant{}).
		Where("account_id = ? AND permission_name = ?", accountID, permissionName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFor returns the account's granted capability names in grant
// order. Display only; authorization never depends on the ordering.
func ListFor(tx *gorm.DB, accountID uint) ([]string, error) {
	var names []string
	err := tx.Model(&models.PermissionGrant{}).
		Where("account_id = ?", accountID).
		Order("created_at, id").
		Pluck("permission_name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
