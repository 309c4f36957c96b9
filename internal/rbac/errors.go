package rbac

import "errors"

// Identity resolution failures. Callers surface these as unauthenticated.
var (
	ErrUnknownPrincipal = errors.New("rbac: unknown principal")
	ErrInactiveAccount  = errors.New("rbac: account is inactive")
)

// Authorization denials. Callers surface these as forbidden, never as
// not-found.
var (
	ErrRoleInsufficient  = errors.New("rbac: role insufficient")
	ErrCrossTenant       = errors.New("rbac: cross-tenant access")
	ErrCapabilityMissing = errors.New("rbac: capability missing")
)

// Mutation invariant violations. Usage errors from the caller; fail fast.
var (
	ErrNotOwner              = errors.New("rbac: requester does not own the branch")
	ErrCrossTenantAssignment = errors.New("rbac: staff already belongs to another owner")
	ErrInvalidTarget         = errors.New("rbac: target account is not staff")
)

var (
	ErrNotFound     = errors.New("rbac: not found")
	ErrUnaffiliated = errors.New("rbac: staff has no branch assignment")
)
