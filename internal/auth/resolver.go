package auth

import (
	"context"
	"sort"
)

// Resolve decides whether the actor may perform the action identified by
// perm. Pure function of its inputs: no I/O, no shared state, safe to call
// concurrently from every code path including error paths. It never fails;
// a missing role or unrecognised role name resolves to false.
//
// Precedence, first match wins:
//  1. platform admins are granted everything (tenant scoping is enforced
//     by the calling layer, not here)
//  2. a verified tenant-admin claim grants the fixed tenant-admin set,
//     regardless of the role document's contents
//  3. a present role document is authoritative
//  4. the legacy name-based fallback covers unmigrated roles
func Resolve(actor Actor, role *Role, perm Permission) bool {
	if actor.PlatformAdmin {
		return true
	}
	if actor.TenantAdminClaim {
		_, ok := tenantAdminSet[perm]
		return ok
	}
	if role != nil {
		return role.Has(perm)
	}
	switch actor.LegacyRole {
	case LegacyTenantAdmin:
		_, ok := tenantAdminSet[perm]
		return ok
	case LegacyManager:
		_, ok := managerSet[perm]
		return ok
	case LegacyTeamLead:
		_, ok := teamLeadSet[perm]
		return ok
	case LegacyEmployee:
		_, ok := employeeSet[perm]
		return ok
	}
	return false
}

// EffectivePermissions lists every catalog token Resolve grants to the
// actor, sorted. Used by dashboards to decide which actions to render.
func EffectivePermissions(actor Actor, role *Role) []Permission {
	var out []Permission
	for _, p := range Catalog() {
		if Resolve(actor, role, p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RoleSource is the read dependency on tenant role documents. A fetch
// failure (permission-denied read, unmigrated role) must not block the
// caller: degrade to a nil role and let Resolve fall back.
type RoleSource interface {
	Role(ctx context.Context, tenantID, roleID string) (*Role, error)
}

// RoleSourceFunc adapts a function to the RoleSource interface.
type RoleSourceFunc func(ctx context.Context, tenantID, roleID string) (*Role, error)

func (f RoleSourceFunc) Role(ctx context.Context, tenantID, roleID string) (*Role, error) {
	return f(ctx, tenantID, roleID)
}

// FetchRole loads the actor's role document, tolerating missing references
// and fetch failures: any of those yield a nil role, never an error. This
// trades brief staleness for availability after a failed role read.
func FetchRole(ctx context.Context, src RoleSource, actor Actor) *Role {
	if src == nil || actor.RoleID == "" {
		return nil
	}
	role, err := src.Role(ctx, actor.TenantID, actor.RoleID)
	if err != nil {
		return nil
	}
	return role
}
