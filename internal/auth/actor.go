package auth

import "strings"

// LegacyRole is the closed set of role names recognised by the name-based
// fallback. Resolved once when the Actor is constructed; free-text role
// names are never re-parsed inside the resolver.
type LegacyRole int

const (
	LegacyUnknown LegacyRole = iota
	LegacyTenantAdmin
	LegacyManager
	LegacyTeamLead
	LegacyEmployee
)

func (r LegacyRole) String() string {
	switch r {
	case LegacyTenantAdmin:
		return "tenant_admin"
	case LegacyManager:
		return "manager"
	case LegacyTeamLead:
		return "team_lead"
	case LegacyEmployee:
		return "employee"
	default:
		return "unknown"
	}
}

// ResolveLegacyRole maps a free-text role name onto the closed legacy set.
// Unrecognised names map to LegacyUnknown, which always denies.
func ResolveLegacyRole(name string) LegacyRole {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tenant admin", "admin", "super admin":
		return LegacyTenantAdmin
	case "manager":
		return LegacyManager
	case "team lead":
		return LegacyTeamLead
	case "employee":
		return LegacyEmployee
	default:
		return LegacyUnknown
	}
}

// Actor holds the per-session identity facts the resolver operates on.
// It is established once from verified token claims and is immutable for
// the session; switching tenants requires a fresh Actor.
type Actor struct {
	ID               string
	TenantID         string // empty for platform admins
	PlatformAdmin    bool
	TenantAdminClaim bool   // issued by the identity provider, trusted above role data
	RoleID           string // optional reference to a tenant role document
	RoleName         string // legacy free-text role name
	LegacyRole       LegacyRole
}

// NewActor constructs an Actor, resolving the legacy role name once.
func NewActor(id, tenantID string, platformAdmin, tenantAdminClaim bool, roleID, roleName string) Actor {
	return Actor{
		ID:               strings.TrimSpace(id),
		TenantID:         strings.TrimSpace(tenantID),
		PlatformAdmin:    platformAdmin,
		TenantAdminClaim: tenantAdminClaim,
		RoleID:           strings.TrimSpace(roleID),
		RoleName:         strings.TrimSpace(roleName),
		LegacyRole:       ResolveLegacyRole(roleName),
	}
}

// Role is the mutable, tenant-managed record mapping a role to its
// permission set. Fetched by the caller; the resolver only reads it.
type Role struct {
	ID          string
	TenantID    string
	Name        string
	Permissions map[Permission]struct{}
}

// NewRole builds a Role with its permission set preloaded.
func NewRole(id, tenantID, name string, perms []Permission) *Role {
	return &Role{
		ID:          id,
		TenantID:    tenantID,
		Name:        name,
		Permissions: permissionSet(perms),
	}
}

// Has reports whether the role document grants the token.
func (r *Role) Has(p Permission) bool {
	if r == nil {
		return false
	}
	_, ok := r.Permissions[p]
	return ok
}
