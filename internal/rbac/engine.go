package rbac

import (
	"errors"

	"printsync-backend/internal/models"

	"gorm.io/gorm"
)

// RequiredRole narrows which roles an action accepts. The zero value
// imposes no role constraint.
type RequiredRole string

const (
	RequireOwnerRole        RequiredRole = "OWNER"
	RequireStaffOrOwnerRole RequiredRole = "STAFF_OR_OWNER"
)

// Action describes what a caller wants to do: the role class it needs,
// an optional named capability, and the tenant that owns the target
// resource (nil for actions with no tenant-scoped target).
type Action struct {
	RequiredRole        RequiredRole
	RequiredCapability  string
	TargetTenantOwnerID *uint
}

// Decision is the outcome of an authorization check. Reason is one of
// this package's sentinel denial errors when Allowed is false.
type Decision struct {
	Allowed bool
	Reason  error
}

func allow() Decision            { return Decision{Allowed: true} }
func deny(reason error) Decision { return Decision{Reason: reason} }

// Authorize is the single decision point for every guarded operation.
// Checks run in a fixed order: liveness, role, tenancy, capability.
// Tenancy runs before the capability check: capability names are not
// namespaced per tenant, so isolation is enforced structurally and a
// grant in tenant A can never open a resource in tenant B.
//
// Owners pass the capability check unconditionally once tenancy has
// passed; ownership subsumes every grant inside the owner's own tenant.
func Authorize(tx *gorm.DB, principal *models.Account, action Action) Decision {
	if !principal.Active {
		return deny(ErrInactiveAccount)
	}

	switch action.RequiredRole {
	case RequireOwnerRole:
		if principal.Role != models.RoleOwner {
			return deny(ErrRoleInsufficient)
		}
	case RequireStaffOrOwnerRole:
		// The role set is closed today, but an unknown role string
		// still denies rather than falling through.
		if principal.Role != models.RoleOwner && principal.Role != models.RoleStaff {
			return deny(ErrRoleInsufficient)
		}
	}

	if action.TargetTenantOwnerID != nil {
		tenant, err := TenantOf(tx, principal)
		if err != nil {
			if errors.Is(err, ErrUnaffiliated) || errors.Is(err, ErrNotFound) {
				// Unaffiliated staff have no tenant and therefore no
				// tenant-scoped access at all.
				return deny(ErrCrossTenant)
			}
			return deny(err)
		}
		if tenant != *action.TargetTenantOwnerID {
			return deny(ErrCrossTenant)
		}
	}

	if action.RequiredCapability != "" && principal.Role == models.RoleStaff {
		ok, err := Has(tx, principal.ID, action.RequiredCapability)
		if err != nil {
			return deny(err)
		}
		if !ok {
			return deny(ErrCapabilityMissing)
		}
	}

	return allow()
}
