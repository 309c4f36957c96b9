package rbac

import (
	"printsync-backend/internal/models"

	"gorm.io/gorm"
)

// Guards are the named preconditions handlers attach to operations. A
// nil return means the operation may run; otherwise the returned error
// is the denial reason and the operation must not execute. Guards only
// read; they never mutate anything.

// RequireOwner admits only active OWNER accounts.
func RequireOwner(tx *gorm.DB, principal *models.Account) error {
	return reasonOf(Authorize(tx, principal, Action{RequiredRole: RequireOwnerRole}))
}

// RequireStaffOrOwner admits any active staff or owner account. Used
// for reads whose results are scoped by tenancy at the query level.
func RequireStaffOrOwner(tx *gorm.DB, principal *models.Account) error {
	return reasonOf(Authorize(tx, principal, Action{RequiredRole: RequireStaffOrOwnerRole}))
}

// RequireCapability runs the full chain: liveness, role, same-tenant,
// then the named capability (owners pass the last step implicitly).
func RequireCapability(tx *gorm.DB, principal *models.Account, capability string, targetOwnerID uint) error {
	return reasonOf(Authorize(tx, principal, Action{
		RequiredRole:        RequireStaffOrOwnerRole,
		RequiredCapability:  capability,
		TargetTenantOwnerID: &targetOwnerID,
	}))
}

// RequireSameTenant checks liveness and tenancy only, for operations
// that need no specific capability but must stay inside one tenant.
func RequireSameTenant(tx *gorm.DB, principal *models.Account, targetOwnerID uint) error {
	return reasonOf(Authorize(tx, principal, Action{TargetTenantOwnerID: &targetOwnerID}))
}

func reasonOf(d Decision) error {
	if d.Allowed {
		return nil
	}
	return d.Reason
}
